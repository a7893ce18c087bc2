package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// BaseConfig 基础配置
type BaseConfig struct {
	// API配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`

	// 单次请求超时；后端调用只尝试一次，不重试
	Timeout time.Duration `json:"timeout"`

	// 代理设置
	ProxyURL string `json:"proxy_url,omitempty"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// NewHTTPClient 根据基础配置创建 HTTP 客户端
func NewHTTPClient(config BaseConfig) *http.Client {
	client := &http.Client{Timeout: config.Timeout}
	if config.ProxyURL != "" {
		if proxy, err := url.Parse(config.ProxyURL); err == nil {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
		}
	}
	return client
}

// SetHeaders 写入自定义头部
func SetHeaders(req *http.Request, headers map[string]string) {
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// TranslationProvider 提供商基础接口
type TranslationProvider interface {
	// Translate 执行翻译
	Translate(ctx context.Context, req *ProviderRequest) (*ProviderResponse, error)

	// GetName 获取提供商名称
	GetName() string
}

// Provider 提供商接口（扩展 TranslationProvider）
type Provider interface {
	TranslationProvider

	// GetCapabilities 获取提供商能力
	GetCapabilities() Capabilities

	// HealthCheck 健康检查
	HealthCheck(ctx context.Context) error
}

// Capabilities 提供商能力
type Capabilities struct {
	// 支持的语言
	SupportedLanguages []Language `json:"supported_languages"`

	// 最大文本长度
	MaxTextLength int `json:"max_text_length"`

	// 是否支持源语言自动检测
	SupportsAutoDetect bool `json:"supports_auto_detect"`

	// 是否需要API密钥
	RequiresAPIKey bool `json:"requires_api_key"`
}

// Language 语言信息
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// 错误代码
const (
	ErrCodeNetwork     = "network"
	ErrCodeAuth        = "auth"
	ErrCodeRateLimit   = "rate_limit"
	ErrCodeQuota       = "quota"
	ErrCodeServer      = "server_error"
	ErrCodeBadRequest  = "bad_request"
	ErrCodeBadResponse = "bad_response"
	ErrCodeTimeout     = "timeout"
)

// Error 提供商错误
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Provider string `json:"provider,omitempty"`
	Cause    error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return e.Message
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable 判断错误是否属于暂时性错误
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case ErrCodeRateLimit, ErrCodeTimeout, ErrCodeServer, ErrCodeNetwork:
		return true
	default:
		return false
	}
}

// NewError 创建提供商错误
func NewError(provider, code, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Provider: provider,
	}
}

// WrapError 包装底层错误
func WrapError(provider, code string, cause error) *Error {
	if cause == nil {
		return nil
	}
	var pe *Error
	if errors.As(cause, &pe) {
		return pe
	}
	if errors.Is(cause, context.DeadlineExceeded) {
		code = ErrCodeTimeout
	}
	return &Error{
		Code:     code,
		Message:  cause.Error(),
		Provider: provider,
		Cause:    cause,
	}
}

// ErrorFromStatus 根据 HTTP 状态码构造错误
func ErrorFromStatus(provider string, status int, detail string) *Error {
	code := ErrCodeBadRequest
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = ErrCodeAuth
	case status == http.StatusTooManyRequests:
		code = ErrCodeRateLimit
	case status == 456:
		// DeepL 配额耗尽
		code = ErrCodeQuota
	case status >= 500:
		code = ErrCodeServer
	}
	msg := fmt.Sprintf("API error: %d %s", status, http.StatusText(status))
	if detail != "" {
		msg += ": " + detail
	}
	return NewError(provider, code, msg)
}

// ErrorCode 提取错误代码，非提供商错误返回空字符串
func ErrorCode(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

// ProviderRequest 提供商请求
type ProviderRequest struct {
	Text string `json:"text"`

	// SourceLanguage 为 "auto" 时由后端自动检测
	SourceLanguage string            `json:"source_language,omitempty"`
	TargetLanguage string            `json:"target_language"`
	Options        map[string]string `json:"options,omitempty"`
}

// ProviderResponse 提供商响应
type ProviderResponse struct {
	Text      string            `json:"text"`
	Model     string            `json:"model,omitempty"`
	TokensIn  int               `json:"tokens_in,omitempty"`
	TokensOut int               `json:"tokens_out,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
