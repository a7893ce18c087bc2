package libretranslate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
)

const defaultEndpoint = "https://libretranslate.com"

// Config LibreTranslate配置
type Config struct {
	providers.BaseConfig
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = defaultEndpoint
	return config
}

// Provider LibreTranslate提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的LibreTranslate提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = defaultEndpoint
	}
	config.APIEndpoint = strings.TrimRight(config.APIEndpoint, "/")

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	translateReq := TranslateRequest{
		Q:      req.Text,
		Source: normalizeLanguageCode(req.SourceLanguage),
		Target: normalizeLanguageCode(req.TargetLanguage),
		Format: "text",
		APIKey: p.config.APIKey,
	}

	resp, err := p.translate(ctx, translateReq)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{}
	if resp.DetectedLanguage != nil {
		metadata["detected_source"] = resp.DetectedLanguage.Language
		metadata["confidence"] = fmt.Sprintf("%.2f", resp.DetectedLanguage.Confidence)
	}

	return &providers.ProviderResponse{
		Text:     resp.TranslatedText,
		Model:    "libretranslate",
		Metadata: metadata,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "libretranslate"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "en", Name: "English"},
			{Code: "de", Name: "German"},
			{Code: "es", Name: "Spanish"},
			{Code: "fr", Name: "French"},
			{Code: "ja", Name: "Japanese"},
			{Code: "zh", Name: "Chinese"},
		},
		MaxTextLength:      5000, // LibreTranslate限制
		SupportsAutoDetect: true,
		RequiresAPIKey:     false,
	}
}

// HealthCheck 获取语言列表作为健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.APIEndpoint+"/languages", nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.ErrorFromStatus(p.GetName(), resp.StatusCode, "failed to fetch languages")
	}

	var languages []providers.Language
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return providers.WrapError(p.GetName(), providers.ErrCodeBadResponse, err)
	}
	return nil
}

// translate 执行一次翻译请求
func (p *Provider) translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint+"/translate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	providers.SetHeaders(httpReq, p.config.Headers)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeNetwork,
			fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp ErrorResponse
		detail := ""
		if err := json.Unmarshal(respBody, &errorResp); err == nil {
			detail = errorResp.Error
		}
		return nil, providers.ErrorFromStatus(p.GetName(), resp.StatusCode, detail)
	}

	var translateResp TranslateResponse
	if err := json.Unmarshal(respBody, &translateResp); err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeBadResponse,
			fmt.Errorf("failed to decode response: %w", err))
	}
	return &translateResp, nil
}

// normalizeLanguageCode LibreTranslate 使用小写主语言代码，自动检测为 "auto"
func normalizeLanguageCode(lang string) string {
	if providers.IsAutoDetect(lang) {
		return providers.AutoDetect
	}
	normalized := providers.NormalizeLanguageCode(lang)
	// zh-Hant 等变体 LibreTranslate 单独支持
	if strings.EqualFold(normalized, "zh-Hant") || strings.EqualFold(normalized, "zh-TW") {
		return "zt"
	}
	return providers.BaseLanguage(normalized)
}

// TranslateRequest 翻译请求
type TranslateRequest struct {
	Q      string `json:"q"`                 // 要翻译的文本
	Source string `json:"source"`            // 源语言
	Target string `json:"target"`            // 目标语言
	Format string `json:"format"`            // 文本格式
	APIKey string `json:"api_key,omitempty"` // API密钥（如果需要）
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage *struct {
		Confidence float64 `json:"confidence"`
		Language   string  `json:"language"`
	} `json:"detectedLanguage,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Error string `json:"error"`
}
