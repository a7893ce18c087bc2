package deeplx

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

const defaultEndpoint = "http://localhost:1188/translate"

// Config DeepLX配置
type Config struct {
	providers.BaseConfig
	AccessToken string `json:"access_token,omitempty"` // 可选的访问令牌
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = defaultEndpoint
	return config
}

// Provider DeepLX提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的DeepLX提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = defaultEndpoint
	}

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	deeplxReq := TranslateRequest{
		Text:       req.Text,
		SourceLang: normalizeLanguageCode(req.SourceLanguage),
		TargetLang: normalizeLanguageCode(req.TargetLanguage),
	}

	resp, err := p.translate(ctx, deeplxReq)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{}
	if resp.SourceLang != "" {
		metadata["detected_source"] = resp.SourceLang
	}

	return &providers.ProviderResponse{
		Text:     resp.Data,
		Model:    "deeplx",
		Metadata: metadata,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "deeplx"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	// DeepLX支持与DeepL相同的语言
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "DE", Name: "German"},
			{Code: "EN", Name: "English"},
			{Code: "ES", Name: "Spanish"},
			{Code: "FR", Name: "French"},
			{Code: "JA", Name: "Japanese"},
			{Code: "ZH", Name: "Chinese"},
		},
		MaxTextLength:      5000, // 建议限制
		SupportsAutoDetect: true,
		RequiresAPIKey:     false, // DeepLX不需要API密钥
	}
}

// HealthCheck 健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.Translate(ctx, &providers.ProviderRequest{
		Text:           "Hello",
		SourceLanguage: "EN",
		TargetLanguage: "ZH",
	})
	return err
}

// translate 执行一次翻译请求
func (p *Provider) translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if p.config.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.config.AccessToken)
	}
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

	var translateResp TranslateResponse
	if err := json.Unmarshal(respBody, &translateResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, providers.ErrorFromStatus(p.GetName(), resp.StatusCode, "")
		}
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeBadResponse,
			fmt.Errorf("failed to decode response: %w", err))
	}

	// DeepLX 在响应体里携带业务状态码
	if translateResp.Code != http.StatusOK {
		return nil, providers.ErrorFromStatus(p.GetName(), translateResp.Code, translateResp.Message)
	}

	return &translateResp, nil
}

// normalizeLanguageCode DeepLX使用大写的语言代码，自动检测使用 "auto"
func normalizeLanguageCode(lang string) string {
	if providers.IsAutoDetect(lang) {
		return providers.AutoDetect
	}
	return strings.ToUpper(providers.BaseLanguage(lang))
}

// TranslateRequest 翻译请求
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message,omitempty"`
	Data       string `json:"data"`
	SourceLang string `json:"source_lang,omitempty"`
}
