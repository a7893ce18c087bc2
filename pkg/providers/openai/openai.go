package openai

import (
	"context"
	"errors"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultModel = "gpt-4o-mini"

// Config OpenAI配置（使用官方SDK）
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	OrgID       string  `json:"org_id,omitempty"` // 可选的组织ID
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       defaultModel,
		Temperature: 0.3,
	}
}

// Provider OpenAI提供商
type Provider struct {
	config Config
	client openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的OpenAI提供商
func New(config Config) *Provider {
	if config.Model == "" {
		config.Model = defaultModel
	}

	// 只尝试一次，失败交给上层回退
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(providers.NewHTTPClient(config.BaseConfig)),
	}
	if config.APIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(config.APIEndpoint))
	}
	if config.OrgID != "" {
		opts = append(opts, option.WithOrganization(config.OrgID))
	}
	for k, v := range config.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(config.Timeout))
	}

	return &Provider{
		config: config,
		client: openai.NewClient(opts...),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(providers.TranslatorSystemPrompt),
			openai.UserMessage(providers.BuildUserPrompt(req)),
		},
		Model: openai.ChatModel(p.config.Model),
	}
	if p.config.Temperature > 0 {
		params.Temperature = openai.Float(p.config.Temperature)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classify(p.GetName(), err)
	}

	if len(completion.Choices) == 0 {
		return nil, providers.NewError(p.GetName(), providers.ErrCodeBadResponse, "no choices returned")
	}

	return &providers.ProviderResponse{
		Text:      providers.CleanCompletion(completion.Choices[0].Message.Content),
		Model:     completion.Model,
		TokensIn:  int(completion.Usage.PromptTokens),
		TokensOut: int(completion.Usage.CompletionTokens),
		Metadata: map[string]string{
			"finish_reason": string(completion.Choices[0].FinishReason),
			"id":            completion.ID,
		},
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "openai"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "*", Name: "Any language the model understands"},
		},
		MaxTextLength:      8000, // 取决于模型
		SupportsAutoDetect: true,
		RequiresAPIKey:     true,
	}
}

// HealthCheck 列出模型作为健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.config.Model); err != nil {
		return classify(p.GetName(), err)
	}
	return nil
}

// classify 将 SDK 错误映射为提供商错误代码
func classify(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return providers.ErrorFromStatus(provider, apiErr.StatusCode, apiErr.Message)
	}
	return providers.WrapError(provider, providers.ErrCodeNetwork, err)
}
