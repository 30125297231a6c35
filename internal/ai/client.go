package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

// Operation names used in logs and metrics.
const (
	opOpening    = "generate_opening"
	opNext       = "generate_next"
	opDefinition = "define_word"
)

const tokenizerEncoding = "cl100k_base"

// Config содержит конфигурацию для клиента нейросети.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	TimeoutSeconds int
}

// Client translates structured generation requests into prompts for an
// OpenAI-compatible text API and validates the structured JSON responses.
// It keeps no state between calls, performs no caching and never retries:
// a failed call is surfaced to the caller for an explicit user-driven retry.
type Client struct {
	api       *openai.Client
	apiKey    string
	model     string
	timeout   time.Duration
	logger    *zap.Logger
	tokenizer *tiktoken.Tiktoken
}

// NewClient создает новый экземпляр клиента нейросети.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	log := logger.Named("AIClient")

	if cfg.Model == "" {
		cfg.Model = "deepseek/deepseek-chat-v3-0324:free"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 120
	}
	if cfg.APIKey == "" {
		// Generation calls will fail with ErrGeneration until a key is set.
		log.Warn("AI API key is not configured")
	}

	apiConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	tokenizer, err := tiktoken.GetEncoding(tokenizerEncoding)
	if err != nil {
		// Token accounting is best effort only.
		log.Warn("Failed to initialize tokenizer, prompt token metrics disabled", zap.Error(err))
		tokenizer = nil
	}

	return &Client{
		api:       openai.NewClientWithConfig(apiConfig),
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:    log,
		tokenizer: tokenizer,
	}
}

// GenerateOpening produces the first chapter and the first pair of choices
// for a brand new story.
func (c *Client) GenerateOpening(ctx context.Context, req OpeningRequest) (*OpeningResult, error) {
	content, err := c.complete(ctx, opOpening, openingSystemPrompt, FormatOpeningInput(req))
	if err != nil {
		return nil, err
	}
	return ParseOpening([]byte(content))
}

// GenerateNext produces the next chapter given the full prior narrative and
// the choice the reader took.
func (c *Client) GenerateNext(ctx context.Context, req NextChapterRequest) (*NextChapterResult, error) {
	content, err := c.complete(ctx, opNext, continuationSystemPrompt, FormatContinuationInput(req))
	if err != nil {
		return nil, err
	}
	return ParseNextChapter([]byte(content))
}

// DefineWord produces a kid-friendly definition for a word in context.
func (c *Client) DefineWord(ctx context.Context, req DefinitionRequest) (*DefinitionResult, error) {
	content, err := c.complete(ctx, opDefinition, definitionSystemPrompt, FormatDefinitionInput(req))
	if err != nil {
		return nil, err
	}
	return ParseDefinition([]byte(content))
}

// complete performs a single chat completion round trip. No retries: the
// engine's callers surface failures for a manual retry.
func (c *Client) complete(ctx context.Context, operation, systemPrompt, userInput string) (string, error) {
	if c.apiKey == "" {
		aiRequestsTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("%w: AI API key is not configured", models.ErrGeneration)
	}

	c.observePromptTokens(operation, systemPrompt, userInput)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userInput,
			},
		},
		Temperature: 0.8,
		MaxTokens:   1500,
		TopP:        0.95,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	aiRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())

	if err != nil {
		aiRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Error("Chat completion request failed",
			zap.String("operation", operation),
			zap.String("model", c.model),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", models.ErrGeneration, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		aiRequestsTotal.WithLabelValues(operation, "error").Inc()
		c.logger.Warn("Empty chat completion response",
			zap.String("operation", operation),
			zap.String("model", c.model))
		return "", fmt.Errorf("%w: empty response from API", models.ErrGeneration)
	}

	aiRequestsTotal.WithLabelValues(operation, "success").Inc()
	content := resp.Choices[0].Message.Content
	c.logger.Debug("Chat completion response received",
		zap.String("operation", operation),
		zap.String("model", c.model),
		zap.Int("responseLength", len(content)))

	return content, nil
}

func (c *Client) observePromptTokens(operation, systemPrompt, userInput string) {
	if c.tokenizer == nil {
		return
	}
	count := len(c.tokenizer.Encode(systemPrompt, nil, nil)) + len(c.tokenizer.Encode(userInput, nil, nil))
	aiPromptTokens.WithLabelValues(operation).Observe(float64(count))
	c.logger.Debug("Prompt token count",
		zap.String("operation", operation),
		zap.Int("tokens", count))
}
