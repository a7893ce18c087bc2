package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
)

const (
	proEndpoint  = "https://api.deepl.com/v2"
	freeEndpoint = "https://api-free.deepl.com/v2"
)

// Config DeepL配置
type Config struct {
	providers.BaseConfig
	UseFreeAPI bool `json:"use_free_api"` // 是否使用免费API
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig: providers.DefaultConfig(),
	}
	config.APIEndpoint = proEndpoint
	return config
}

// Provider DeepL提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的DeepL提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		if config.UseFreeAPI {
			config.APIEndpoint = freeEndpoint
		} else {
			config.APIEndpoint = proEndpoint
		}
	}
	config.APIEndpoint = strings.TrimRight(config.APIEndpoint, "/")

	return &Provider{
		config:     config,
		httpClient: providers.NewHTTPClient(config.BaseConfig),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	params := url.Values{}
	params.Set("text", req.Text)
	params.Set("target_lang", normalizeLanguageCode(req.TargetLanguage, false))
	// DeepL 省略 source_lang 即自动检测
	if !providers.IsAutoDetect(req.SourceLanguage) {
		params.Set("source_lang", normalizeLanguageCode(req.SourceLanguage, true))
	}
	if formality, ok := req.Options["formality"]; ok {
		params.Set("formality", formality)
	}

	resp, err := p.translate(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(resp.Translations) == 0 {
		return nil, providers.NewError(p.GetName(), providers.ErrCodeBadResponse, "no translation returned")
	}

	metadata := map[string]string{}
	if resp.Translations[0].DetectedSourceLanguage != "" {
		metadata["detected_source"] = resp.Translations[0].DetectedSourceLanguage
	}

	return &providers.ProviderResponse{
		Text:     resp.Translations[0].Text,
		Model:    "deepl",
		Metadata: metadata,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "deepl"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "DE", Name: "German"},
			{Code: "EN", Name: "English"},
			{Code: "ES", Name: "Spanish"},
			{Code: "FR", Name: "French"},
			{Code: "IT", Name: "Italian"},
			{Code: "JA", Name: "Japanese"},
			{Code: "KO", Name: "Korean"},
			{Code: "NL", Name: "Dutch"},
			{Code: "PL", Name: "Polish"},
			{Code: "PT", Name: "Portuguese"},
			{Code: "RU", Name: "Russian"},
			{Code: "ZH", Name: "Chinese"},
		},
		MaxTextLength:      130000, // DeepL Pro限制
		SupportsAutoDetect: true,
		RequiresAPIKey:     true,
	}
}

// HealthCheck 查询使用量作为健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.config.APIEndpoint+"/usage", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.ErrorFromStatus(p.GetName(), resp.StatusCode, "health check failed")
	}
	return nil
}

// translate 执行一次翻译请求
func (p *Provider) translate(ctx context.Context, params url.Values) (*TranslateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint+"/translate",
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)
	providers.SetHeaders(httpReq, p.config.Headers)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr struct {
			Message string `json:"message"`
		}
		detail := strings.TrimSpace(string(errBody))
		if json.Unmarshal(errBody, &apiErr) == nil && apiErr.Message != "" {
			detail = apiErr.Message
		}
		return nil, providers.ErrorFromStatus(p.GetName(), resp.StatusCode, detail)
	}

	var translateResp TranslateResponse
	if err := json.NewDecoder(resp.Body).Decode(&translateResp); err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeBadResponse,
			fmt.Errorf("failed to decode response: %w", err))
	}

	return &translateResp, nil
}

// normalizeLanguageCode 标准化语言代码为DeepL格式
func normalizeLanguageCode(lang string, isSource bool) string {
	upper := strings.ToUpper(providers.NormalizeLanguageCode(lang))

	// 源语言只接受主语言代码
	if isSource {
		return strings.ToUpper(providers.BaseLanguage(lang))
	}

	// 对于英语和葡萄牙语，目标语言需要指定变体
	switch upper {
	case "EN":
		return "EN-US" // 默认美式英语
	case "PT":
		return "PT-BR" // 默认巴西葡萄牙语
	case "ZH-CN", "ZH-HANS":
		return "ZH"
	}

	return upper
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}
