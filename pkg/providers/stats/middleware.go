package stats

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"go.uber.org/zap"
)

// LoggingMiddleware 记录每次后端调用的耗时与结果
type LoggingMiddleware struct {
	next      providers.Provider
	logger    *zap.Logger
	stats     *StatsManager
	modelName string
}

var _ providers.Provider = (*LoggingMiddleware)(nil)

// NewLoggingMiddleware 包装提供商；stats 可以为 nil
func NewLoggingMiddleware(next providers.Provider, logger *zap.Logger, stats *StatsManager, modelName string) *LoggingMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingMiddleware{
		next:      next,
		logger:    logger.With(zap.String("provider", next.GetName())),
		stats:     stats,
		modelName: modelName,
	}
}

// Translate 带日志与统计的翻译方法
func (m *LoggingMiddleware) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	start := time.Now()
	resp, err := m.next.Translate(ctx, req)
	latency := time.Since(start)

	result := RequestResult{
		Success:    err == nil,
		Latency:    latency,
		Characters: utf8.RuneCountInString(req.Text),
	}

	switch {
	case err != nil:
		result.ErrorType = classifyError(err)
		m.logger.Warn("backend call failed",
			zap.String("source", req.SourceLanguage),
			zap.String("target", req.TargetLanguage),
			zap.Duration("latency", latency),
			zap.String("error_type", result.ErrorType),
			zap.Bool("retryable", isRetryable(err)),
			zap.Error(err))
	case resp == nil:
		result.Success = false
		result.ErrorType = providers.ErrCodeBadResponse
		m.logger.Warn("backend returned no response",
			zap.String("source", req.SourceLanguage),
			zap.String("target", req.TargetLanguage),
			zap.Duration("latency", latency))
	default:
		result.TokensIn = resp.TokensIn
		result.TokensOut = resp.TokensOut
		m.logger.Debug("backend call succeeded",
			zap.String("source", req.SourceLanguage),
			zap.String("target", req.TargetLanguage),
			zap.Duration("latency", latency),
			zap.Int("chars_in", result.Characters),
			zap.Int("chars_out", utf8.RuneCountInString(resp.Text)))
	}

	if m.stats != nil {
		m.stats.RecordRequest(m.next.GetName(), m.modelName, result)
	}

	return resp, err
}

// isRetryable 仅用于日志，调用只尝试一次
func isRetryable(err error) bool {
	var pe *providers.Error
	return errors.As(err, &pe) && pe.IsRetryable()
}

// classifyError 错误分类
func classifyError(err error) string {
	if code := providers.ErrorCode(err); code != "" {
		return code
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return providers.ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	return "unknown"
}

// GetName 获取提供商名称
func (m *LoggingMiddleware) GetName() string {
	return m.next.GetName()
}

// GetCapabilities 获取提供商能力
func (m *LoggingMiddleware) GetCapabilities() providers.Capabilities {
	return m.next.GetCapabilities()
}

// HealthCheck 健康检查
func (m *LoggingMiddleware) HealthCheck(ctx context.Context) error {
	return m.next.HealthCheck(ctx)
}
