package translator

import (
	"context"
	"errors"
	"testing"

	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"github.com/nerdneilsfield/go-inline-translator/internal/notify"
	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingProvider struct {
	requests []providers.ProviderRequest
	reply    func(req *providers.ProviderRequest) (*providers.ProviderResponse, error)
}

func (p *recordingProvider) Translate(_ context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	p.requests = append(p.requests, *req)
	return p.reply(req)
}

func (p *recordingProvider) GetName() string { return "recording" }

func upper(req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	return &providers.ProviderResponse{Text: "[" + req.TargetLanguage + "] " + req.Text}, nil
}

func TestTranslateUsesSourceHintAndTarget(t *testing.T) {
	tests := []struct {
		name       string
		preferred  []string
		target     string
		wantSource string
	}{
		{"auto when no preference", nil, "en", providers.AutoDetect},
		{"first preferred language", []string{"fr", "de"}, "ja", "fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &recordingProvider{reply: upper}
			s := settings.Default()
			s.PreferredLanguages = tt.preferred
			s.TargetLanguage = tt.target

			rec := &notify.Recorder{}
			got := New(p, settings.Static(s), rec, nil).Translate(context.Background(), "Bonjour")

			assert.Equal(t, "["+tt.target+"] Bonjour", got)
			require.Len(t, p.requests, 1)
			assert.Equal(t, tt.wantSource, p.requests[0].SourceLanguage)
			assert.Equal(t, tt.target, p.requests[0].TargetLanguage)
			assert.Empty(t, rec.Messages())
		})
	}
}

func TestTranslateFailureReturnsOriginal(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p := &recordingProvider{reply: func(*providers.ProviderRequest) (*providers.ProviderResponse, error) {
		return nil, providers.NewError("recording", providers.ErrCodeQuota, "quota exceeded")
	}}
	rec := &notify.Recorder{}

	got := New(p, settings.Static(settings.Default()), rec, logger.Wrap(zap.New(core))).
		Translate(context.Background(), "Bonjour")

	assert.Equal(t, "Bonjour", got)
	assert.Len(t, p.requests, 1, "exactly one attempt")
	assert.Equal(t, []string{"Translation failed: recording: quota exceeded"}, rec.Messages())

	entries := logs.FilterMessage("translation failed, keeping original text").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "quota", entries[0].ContextMap()["error_code"])
}

func TestTranslateEmptyResponseIsFailure(t *testing.T) {
	p := &recordingProvider{reply: func(*providers.ProviderRequest) (*providers.ProviderResponse, error) {
		return &providers.ProviderResponse{Text: "  "}, nil
	}}
	rec := &notify.Recorder{}

	got := New(p, settings.Static(settings.Default()), rec, nil).Translate(context.Background(), "Hola")

	assert.Equal(t, "Hola", got)
	require.Len(t, rec.Messages(), 1)
	assert.Contains(t, rec.Messages()[0], FailurePrefix)
	assert.Contains(t, rec.Messages()[0], ErrEmptyTranslation.Error())
}

func TestTranslateCanceledContextFallsBack(t *testing.T) {
	p := &recordingProvider{reply: upper}
	rec := &notify.Recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := New(p, settings.Static(settings.Default()), rec, nil).Translate(ctx, "Hola")

	assert.Equal(t, "Hola", got)
	assert.Empty(t, p.requests)
	require.Len(t, rec.Messages(), 1)
}

func TestTranslateSeesSettingsMutations(t *testing.T) {
	p := &recordingProvider{reply: upper}
	m := settings.NewManager(settings.NewMemoryStore(nil), nil)
	m.Load()

	a := New(p, m, &notify.Recorder{}, nil)
	assert.Equal(t, "[en] a", a.Translate(context.Background(), "a"))

	require.NoError(t, m.SetTargetLanguage("de"))
	require.NoError(t, m.SetPreferredLanguages("es, it"))
	assert.Equal(t, "[de] b", a.Translate(context.Background(), "b"))
	assert.Equal(t, "es", p.requests[1].SourceLanguage)
}

func TestTranslatePlainErrorMessage(t *testing.T) {
	p := &recordingProvider{reply: func(*providers.ProviderRequest) (*providers.ProviderResponse, error) {
		return nil, errors.New("dial tcp: connection refused")
	}}
	rec := &notify.Recorder{}

	New(p, settings.Static(settings.Default()), rec, nil).Translate(context.Background(), "x")
	assert.Equal(t, []string{"Translation failed: dial tcp: connection refused"}, rec.Messages())
}
