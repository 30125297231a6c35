package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storyweaver-server/internal/models"
)

func TestSynthesize(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		audio := []byte("fake-mp3-bytes")

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/text-to-speech/"+models.ResolveVoiceID("Bella"), r.URL.Path)
			assert.Equal(t, "secret-key", r.Header.Get("xi-api-key"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "Once upon a time.", body["text"])
			assert.Equal(t, "eleven_multilingual_v2", body["model_id"])

			settings, ok := body["voice_settings"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, 0.5, settings["stability"])
			assert.Equal(t, 0.75, settings["similarity_boost"])

			w.Header().Set("Content-Type", "audio/mpeg")
			w.Write(audio)
		}))
		defer server.Close()

		client := New(Config{APIKey: "secret-key", BaseURL: server.URL}, zap.NewNop())

		result, err := client.Synthesize(ctx, "Once upon a time.", "Bella")

		require.NoError(t, err)
		assert.Equal(t, "audio/mpeg", result.MimeType)
		assert.Equal(t, "data:audio/mpeg;base64,"+base64.StdEncoding.EncodeToString(audio), result.MediaURI)
	})

	t.Run("UnknownVoiceFallsBackToDefault", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/text-to-speech/"+models.ResolveVoiceID(models.DefaultVoice), r.URL.Path)
			w.Write([]byte("audio"))
		}))
		defer server.Close()

		client := New(Config{APIKey: "secret-key", BaseURL: server.URL}, zap.NewNop())

		_, err := client.Synthesize(ctx, "Hello.", "Darth Vader")
		require.NoError(t, err)
	})

	t.Run("UpstreamErrorIncludesStatusAndBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"invalid api key"}`))
		}))
		defer server.Close()

		client := New(Config{APIKey: "bad-key", BaseURL: server.URL}, zap.NewNop())

		_, err := client.Synthesize(ctx, "Hello.", "Bella")

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrExternalService)
		assert.Contains(t, err.Error(), "401")
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("MissingAPIKey", func(t *testing.T) {
		client := New(Config{}, zap.NewNop())

		_, err := client.Synthesize(ctx, "Hello.", "Bella")

		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrExternalService)
	})
}
