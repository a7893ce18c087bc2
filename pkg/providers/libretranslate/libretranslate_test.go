package libretranslate

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

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", func(w http.ResponseWriter, r *http.Request) {
		var req TranslateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Q == "fail" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid source language"}`))
			return
		}
		_, _ = w.Write([]byte(`{"translatedText":"[` + req.Source + `>` + req.Target + `] ` + req.Q + `","detectedLanguage":{"confidence":91,"language":"fr"}}`))
	})
	mux.HandleFunc("/languages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"code":"en","name":"English"}]`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTranslate(t *testing.T) {
	server := newServer(t)
	provider := New(Config{BaseConfig: providers.BaseConfig{APIEndpoint: server.URL + "/"}})

	resp, err := provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour",
		SourceLanguage: "auto",
		TargetLanguage: "zh-TW",
	})
	require.NoError(t, err)
	assert.Equal(t, "[auto>zt] Bonjour", resp.Text)
	assert.Equal(t, "fr", resp.Metadata["detected_source"])

	resp, err = provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour",
		SourceLanguage: "fr-FR",
		TargetLanguage: "en-GB",
	})
	require.NoError(t, err)
	assert.Equal(t, "[fr>en] Bonjour", resp.Text)
}

func TestTranslateError(t *testing.T) {
	server := newServer(t)
	provider := New(Config{BaseConfig: providers.BaseConfig{APIEndpoint: server.URL}})

	_, err := provider.Translate(context.Background(), &providers.ProviderRequest{Text: "fail", TargetLanguage: "en"})
	require.Error(t, err)
	assert.Equal(t, providers.ErrCodeBadRequest, providers.ErrorCode(err))
	assert.Contains(t, err.Error(), "invalid source language")
}

func TestHealthCheck(t *testing.T) {
	server := newServer(t)
	provider := New(Config{BaseConfig: providers.BaseConfig{APIEndpoint: server.URL}})
	assert.NoError(t, provider.HealthCheck(context.Background()))
}
