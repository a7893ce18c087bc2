package factory

import (
	"context"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-inline-translator/internal/config"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryListsBuiltins(t *testing.T) {
	f := New()
	assert.Equal(t,
		[]string{"deepl", "deeplx", "google", "libretranslate", "ollama", "openai", "raw"},
		f.Registry().Names())
}

func TestCreateProvider(t *testing.T) {
	f := New()

	tests := []struct {
		name    string
		config  config.ProviderConfig
		want    string
		wantErr bool
	}{
		{name: "raw", want: "raw"},
		{name: "none", want: "raw"},
		{name: " Ollama ", want: "ollama"},
		{name: "deeplx", want: "deeplx"},
		{name: "libretranslate", want: "libretranslate"},
		{name: "google", config: config.ProviderConfig{APIKey: "k"}, want: "google"},
		{name: "deepl", config: config.ProviderConfig{APIKey: "k", UseFreeAPI: true}, want: "deepl"},
		{name: "openai", config: config.ProviderConfig{APIKey: "k"}, want: "openai"},
		{name: "openai", wantErr: true},
		{name: "google", wantErr: true},
		{name: "babelfish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.CreateProvider(tt.name, tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.GetName())
		})
	}
}

func TestToOptions(t *testing.T) {
	opts := toOptions(config.ProviderConfig{
		APIKey:      "k",
		BaseURL:     "http://host",
		Model:       "m",
		Timeout:     7,
		Temperature: 0.5,
		ProxyURL:    "http://proxy:8080",
	})

	assert.Equal(t, "k", opts.APIKey)
	assert.Equal(t, "http://host", opts.APIEndpoint)
	assert.Equal(t, 7*time.Second, opts.Timeout)
	assert.Equal(t, "http://proxy:8080", opts.ProxyURL)
	assert.Equal(t, "m", opts.Model)
	assert.Equal(t, 0.5, opts.Temperature)
}

func TestRawProviderWorks(t *testing.T) {
	p, err := New().CreateProvider("raw", config.ProviderConfig{})
	require.NoError(t, err)

	resp, err := p.Translate(context.Background(), &providers.ProviderRequest{Text: "Hola", TargetLanguage: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Hola", resp.Text)
}
