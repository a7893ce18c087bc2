// Package translator 把翻译后端包装成永不失败的文本翻译函数。
package translator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-inline-translator/internal/logger"
	"github.com/nerdneilsfield/go-inline-translator/internal/notify"
	"github.com/nerdneilsfield/go-inline-translator/internal/settings"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"go.uber.org/zap"
)

// FailurePrefix 翻译失败通知的前缀
const FailurePrefix = "Translation failed: "

// ErrEmptyTranslation 后端对非空输入返回了空文本
var ErrEmptyTranslation = errors.New("backend returned an empty translation")

// Translator 翻译一段文本，失败时返回原文
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Adapter 翻译服务适配器
type Adapter struct {
	provider providers.TranslationProvider
	settings settings.Source
	notifier notify.Notifier
	logger   logger.Logger
}

var _ Translator = (*Adapter)(nil)

// New 创建适配器；每次调用都会重新读取设置
func New(provider providers.TranslationProvider, source settings.Source, notifier notify.Notifier, log logger.Logger) *Adapter {
	if log == nil {
		log = logger.Nop()
	}
	return &Adapter{
		provider: provider,
		settings: source,
		notifier: notifier,
		logger:   log,
	}
}

// Translate 单次调用后端；任何失败都会通知用户并原样返回输入
func (a *Adapter) Translate(ctx context.Context, text string) string {
	current := a.settings.Current()
	req := &providers.ProviderRequest{
		Text:           text,
		SourceLanguage: current.SourceHint(),
		TargetLanguage: current.TargetLanguage,
	}

	start := time.Now()
	translated, err := a.call(ctx, req)
	if err != nil {
		a.logger.Warn("translation failed, keeping original text",
			zap.String("provider", a.provider.GetName()),
			zap.String("source", req.SourceLanguage),
			zap.String("target", req.TargetLanguage),
			zap.String("error_code", providers.ErrorCode(err)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		a.notifier.Notify(FailurePrefix + err.Error())
		return text
	}

	a.logger.Debug("translated",
		zap.String("provider", a.provider.GetName()),
		zap.String("source", req.SourceLanguage),
		zap.String("target", req.TargetLanguage),
		zap.Int("input_len", len(text)),
		zap.Int("output_len", len(translated)),
		zap.Duration("elapsed", time.Since(start)))
	return translated
}

func (a *Adapter) call(ctx context.Context, req *providers.ProviderRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", providers.WrapError(a.provider.GetName(), providers.ErrCodeTimeout, err)
	}

	resp, err := a.provider.Translate(ctx, req)
	if err != nil {
		return "", err
	}
	if resp == nil || (strings.TrimSpace(resp.Text) == "" && strings.TrimSpace(req.Text) != "") {
		return "", providers.WrapError(a.provider.GetName(), providers.ErrCodeBadResponse, ErrEmptyTranslation)
	}
	return resp.Text, nil
}
