package raw

import (
	"context"
	"testing"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslatePassthrough(t *testing.T) {
	provider := New()
	resp, err := provider.Translate(context.Background(), &providers.ProviderRequest{
		Text:           "Bonjour\nMonde",
		TargetLanguage: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bonjour\nMonde", resp.Text)
	assert.NoError(t, provider.HealthCheck(context.Background()))
}

func TestTranslateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Translate(ctx, &providers.ProviderRequest{Text: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
