package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, defaultModel, config.Model)
	assert.Equal(t, float32(0.3), config.Temperature)
	assert.Equal(t, 4096, config.MaxTokens)
	assert.Equal(t, defaultEndpoint, config.APIEndpoint)
}

func TestNewFillsDefaults(t *testing.T) {
	provider := New(Config{})
	assert.Equal(t, defaultEndpoint, provider.config.APIEndpoint)
	assert.Equal(t, defaultModel, provider.config.Model)
	assert.Equal(t, "ollama", provider.GetName())
	assert.False(t, provider.GetCapabilities().RequiresAPIKey)
}

func newServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qwen2", body["model"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"qwen2","object":"model"}]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTranslate(t *testing.T) {
	server := newServer(t, http.StatusOK, `{
  "id": "chatcmpl-7",
  "object": "chat.completion",
  "model": "qwen2",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "\nHello\n"}}],
  "usage": {"prompt_tokens": 20, "completion_tokens": 3, "total_tokens": 23}
}`)

	config := DefaultConfig()
	config.APIEndpoint = server.URL + "/v1/"
	config.Model = "qwen2"
	provider := New(config)

	resp, err := provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour",
		SourceLanguage: "auto",
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
	assert.Equal(t, "qwen2", resp.Model)
	assert.Equal(t, 20, resp.TokensIn)

	assert.NoError(t, provider.HealthCheck(context.Background()))
}

func TestTranslateServerError(t *testing.T) {
	server := newServer(t, http.StatusInternalServerError, `{"error":{"message":"model not loaded","type":"api_error"}}`)

	config := DefaultConfig()
	config.APIEndpoint = server.URL + "/v1"
	config.Model = "qwen2"

	_, err := New(config).Translate(context.Background(), &providers.ProviderRequest{Text: "x", TargetLanguage: "en"})
	require.Error(t, err)
	assert.Equal(t, providers.ErrCodeServer, providers.ErrorCode(err))
	assert.Contains(t, err.Error(), "model not loaded")
}
