package stats

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeProvider struct {
	err    error
	noResp bool
}

func (f *fakeProvider) Translate(_ context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.noResp {
		return nil, nil
	}
	return &providers.ProviderResponse{Text: "<" + req.Text + ">", TokensOut: 3}, nil
}

func (f *fakeProvider) GetName() string { return "fake" }

func (f *fakeProvider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{MaxTextLength: 10}
}

func (f *fakeProvider) HealthCheck(context.Context) error { return f.err }

func TestRecordRequest(t *testing.T) {
	sm := NewStatsManager()
	sm.RecordRequest("p", "m", RequestResult{Success: true, Latency: 10 * time.Millisecond, Characters: 5})
	sm.RecordRequest("p", "m", RequestResult{Success: false, Latency: 30 * time.Millisecond, ErrorType: "network"})

	s := sm.GetStats("p", "m")
	require.NotNil(t, s)
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, int64(1), s.ErrorTypes["network"])
	assert.Equal(t, 10*time.Millisecond, s.MinLatency)
	assert.Equal(t, 30*time.Millisecond, s.MaxLatency)
	assert.Equal(t, 20*time.Millisecond, s.AverageLatency)
	assert.InDelta(t, 50.0, s.SuccessRate(), 0.001)

	// 副本不受后续修改影响
	s.ErrorTypes["network"] = 99
	assert.Equal(t, int64(1), sm.GetStats("p", "m").ErrorTypes["network"])

	assert.Nil(t, sm.GetStats("other", ""))
}

func TestWriteTable(t *testing.T) {
	sm := NewStatsManager()

	var empty bytes.Buffer
	sm.WriteTable(&empty)
	assert.Contains(t, empty.String(), "No backend calls recorded.")

	sm.RecordRequest("deepl", "", RequestResult{Success: true, Characters: 12})
	var out bytes.Buffer
	sm.WriteTable(&out)
	assert.Contains(t, out.String(), "deepl")
	assert.Contains(t, out.String(), "100.0")
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sm := NewStatsManager()

	ok := NewLoggingMiddleware(&fakeProvider{}, zap.New(core), sm, "v1")
	resp, err := ok.Translate(context.Background(), &providers.ProviderRequest{Text: "héllo", TargetLanguage: "en"})
	require.NoError(t, err)
	assert.Equal(t, "<héllo>", resp.Text)

	failing := NewLoggingMiddleware(&fakeProvider{err: providers.NewError("fake", providers.ErrCodeRateLimit, "slow down")}, zap.New(core), sm, "v1")
	_, err = failing.Translate(context.Background(), &providers.ProviderRequest{Text: "x", TargetLanguage: "en"})
	require.Error(t, err)

	s := sm.GetStats("fake", "v1")
	require.NotNil(t, s)
	assert.Equal(t, int64(2), s.TotalRequests)
	assert.Equal(t, int64(6), s.TotalCharacters)
	assert.Equal(t, int64(1), s.ErrorTypes[providers.ErrCodeRateLimit])
	assert.Equal(t, int64(3), s.TotalTokensOut)

	assert.Equal(t, 1, logs.FilterMessage("backend call succeeded").Len())
	warn := logs.FilterMessage("backend call failed").All()
	require.Len(t, warn, 1)
	assert.Equal(t, "rate_limit", warn[0].ContextMap()["error_type"])
	assert.Equal(t, "fake", warn[0].ContextMap()["provider"])

	assert.Equal(t, "fake", ok.GetName())
	assert.Equal(t, 10, ok.GetCapabilities().MaxTextLength)
	assert.Error(t, failing.HealthCheck(context.Background()))
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, providers.ErrCodeTimeout, classifyError(context.DeadlineExceeded))
	assert.Equal(t, "canceled", classifyError(context.Canceled))
	assert.Equal(t, "unknown", classifyError(assert.AnError))
}

func TestLoggingMiddlewareNilResponse(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sm := NewStatsManager()
	m := NewLoggingMiddleware(&fakeProvider{noResp: true}, zap.New(core), sm, "m")

	var (
		resp *providers.ProviderResponse
		err  error
	)
	require.NotPanics(t, func() {
		resp, err = m.Translate(context.Background(), &providers.ProviderRequest{Text: "hi", TargetLanguage: "fr"})
	})
	assert.NoError(t, err)
	assert.Nil(t, resp)

	s := sm.GetStats("fake", "m")
	require.NotNil(t, s)
	assert.Equal(t, int64(1), s.FailedRequests)
	assert.Equal(t, int64(1), s.ErrorTypes[providers.ErrCodeBadResponse])
	assert.Equal(t, 1, logs.FilterMessage("backend returned no response").Len())
}
