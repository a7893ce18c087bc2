package google

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

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

// Config Google Translate配置
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

// Provider Google Translate提供商
type Provider struct {
	config     Config
	httpClient *http.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的Google Translate提供商
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
	params := url.Values{}
	params.Set("key", p.config.APIKey)
	params.Set("q", req.Text)
	params.Set("target", providers.NormalizeLanguageCode(req.TargetLanguage))
	params.Set("format", "text")
	// 不传 source 时由 Google 自动检测
	if !providers.IsAutoDetect(req.SourceLanguage) {
		params.Set("source", providers.NormalizeLanguageCode(req.SourceLanguage))
	}

	resp, err := p.translate(ctx, params)
	if err != nil {
		return nil, err
	}

	if len(resp.Data.Translations) == 0 {
		return nil, providers.NewError(p.GetName(), providers.ErrCodeBadResponse, "no translation returned")
	}

	translated := resp.Data.Translations[0]
	metadata := map[string]string{}
	if translated.DetectedSourceLanguage != "" {
		metadata["detected_source"] = translated.DetectedSourceLanguage
	}

	return &providers.ProviderResponse{
		Text:     translated.TranslatedText,
		Model:    "google-translate",
		Metadata: metadata,
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "google"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "ar", Name: "Arabic"},
			{Code: "de", Name: "German"},
			{Code: "en", Name: "English"},
			{Code: "es", Name: "Spanish"},
			{Code: "fr", Name: "French"},
			{Code: "hi", Name: "Hindi"},
			{Code: "it", Name: "Italian"},
			{Code: "ja", Name: "Japanese"},
			{Code: "ko", Name: "Korean"},
			{Code: "pt", Name: "Portuguese"},
			{Code: "ru", Name: "Russian"},
			{Code: "zh-CN", Name: "Chinese (Simplified)"},
			{Code: "zh-TW", Name: "Chinese (Traditional)"},
		},
		MaxTextLength:      5000, // Google Translate v2 API限制
		SupportsAutoDetect: true,
		RequiresAPIKey:     true,
	}
}

// HealthCheck 健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	_, err := p.Translate(ctx, &providers.ProviderRequest{
		Text:           "Hello",
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	return err
}

// translate 执行一次翻译请求
func (p *Provider) translate(ctx context.Context, params url.Values) (*TranslateResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.config.APIEndpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	providers.SetHeaders(httpReq, p.config.Headers)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr APIError
		detail := ""
		if err := json.Unmarshal(body, &apiErr); err == nil {
			detail = apiErr.Error.Message
		}
		return nil, providers.ErrorFromStatus(p.GetName(), resp.StatusCode, detail)
	}

	var translateResp TranslateResponse
	if err := json.Unmarshal(body, &translateResp); err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeBadResponse,
			fmt.Errorf("failed to decode response: %w", err))
	}

	return &translateResp, nil
}

// TranslateResponse 翻译响应
type TranslateResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
		} `json:"translations"`
	} `json:"data"`
}

// APIError API错误
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
