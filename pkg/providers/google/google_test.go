package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := DefaultConfig()
	config.APIKey = "test-key"
	config.APIEndpoint = server.URL
	return New(config)
}

func TestTranslate(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.PostForm.Get("key"))
		assert.Equal(t, "Bonjour", r.PostForm.Get("q"))
		assert.Equal(t, "en", r.PostForm.Get("target"))
		assert.Equal(t, "fr", r.PostForm.Get("source"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"Hello"}]}}`))
	})

	resp, err := provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour",
		SourceLanguage: "fr",
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello", resp.Text)
}

func TestTranslateAutoDetectOmitsSource(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		_, hasSource := r.PostForm["source"]
		assert.False(t, hasSource)

		_, _ = w.Write([]byte(`{"data":{"translations":[{"translatedText":"Hello","detectedSourceLanguage":"fr"}]}}`))
	})

	resp, err := provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour",
		SourceLanguage: providers.AutoDetect,
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "fr", resp.Metadata["detected_source"])
}

func TestTranslateSingleAttemptOnServerError(t *testing.T) {
	calls := 0
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"code":503,"message":"backend down"}}`))
	})

	_, err := provider.Translate(context.Background(), &providers.ProviderRequest{Text: "x", TargetLanguage: "en"})
	require.Error(t, err)
	assert.Equal(t, providers.ErrCodeServer, providers.ErrorCode(err))
	assert.Contains(t, err.Error(), "backend down")
	assert.Equal(t, 1, calls)
}

func TestTranslateEmptyTranslations(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"translations":[]}}`))
	})

	_, err := provider.Translate(context.Background(), &providers.ProviderRequest{Text: "x", TargetLanguage: "en"})
	assert.Equal(t, providers.ErrCodeBadResponse, providers.ErrorCode(err))
}

func TestGetName(t *testing.T) {
	assert.Equal(t, "google", New(DefaultConfig()).GetName())
	assert.True(t, New(DefaultConfig()).GetCapabilities().RequiresAPIKey)
}
