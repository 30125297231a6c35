package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	modelID        = "eleven_multilingual_v2"

	// Fixed synthesis parameters, kept in line with the narration voices tuned
	// for children's stories.
	stability       = 0.5
	similarityBoost = 0.75

	audioMimeType = "audio/mpeg"
)

// Config содержит конфигурацию для клиента синтеза речи.
type Config struct {
	APIKey         string
	BaseURL        string
	TimeoutSeconds int
}

// SpeechResult is an audio payload ready for direct playback in the browser.
type SpeechResult struct {
	MediaURI string `json:"media"`
	MimeType string `json:"mimeType"`
}

// Client calls the ElevenLabs text-to-speech API. It is a stateless boundary
// adapter: no caching, no retries.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *zap.Logger
}

// New создает новый экземпляр клиента синтеза речи.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		logger:  logger.Named("TTSClient"),
	}
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

// Synthesize converts text into speech with the named narration voice and
// returns the audio as a base64 data URI. An empty or unknown voice name
// falls back to the default voice.
func (c *Client) Synthesize(ctx context.Context, text, voiceName string) (*SpeechResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: speech synthesis API key is not configured", models.ErrExternalService)
	}

	voiceID := models.ResolveVoiceID(voiceName)
	log := c.logger.With(zap.String("voice", voiceName), zap.String("voiceID", voiceID))

	body, err := json.Marshal(synthesisRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       stability,
			SimilarityBoost: similarityBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode synthesis request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build synthesis request: %w", err)
	}
	req.Header.Set("Accept", audioMimeType)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("Speech synthesis request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", models.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Upstream status and body are kept for diagnostics.
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		log.Error("Speech synthesis upstream returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", errBody))
		return nil, fmt.Errorf("%w: upstream status %d: %s", models.ErrExternalService, resp.StatusCode, string(errBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read audio payload: %v", models.ErrExternalService, err)
	}

	log.Debug("Speech synthesized",
		zap.Int("textLength", len(text)),
		zap.Int("audioBytes", len(audio)),
		zap.Duration("latency", time.Since(start)))

	return &SpeechResult{
		MediaURI: fmt.Sprintf("data:%s;base64,%s", audioMimeType, base64.StdEncoding.EncodeToString(audio)),
		MimeType: audioMimeType,
	}, nil
}
