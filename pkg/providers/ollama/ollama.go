package ollama

import (
	"context"
	"errors"
	"strings"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultEndpoint = "http://localhost:11434/v1"
	defaultModel    = "llama3"
)

// Config Ollama配置
type Config struct {
	providers.BaseConfig
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	config := Config{
		BaseConfig:  providers.DefaultConfig(),
		Model:       defaultModel,
		Temperature: 0.3,
		MaxTokens:   4096,
	}
	config.APIEndpoint = defaultEndpoint
	return config
}

// Provider Ollama提供商，走 OpenAI 兼容接口
type Provider struct {
	config Config
	client *openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的Ollama提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = defaultEndpoint
	}
	if config.Model == "" {
		config.Model = defaultModel
	}

	// Ollama 不校验密钥，但客户端需要一个非空值
	key := config.APIKey
	if key == "" {
		key = "ollama"
	}
	clientConfig := openai.DefaultConfig(key)
	clientConfig.BaseURL = strings.TrimSuffix(config.APIEndpoint, "/")
	clientConfig.HTTPClient = providers.NewHTTPClient(config.BaseConfig)

	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: p.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: providers.TranslatorSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: providers.BuildUserPrompt(req)},
		},
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classify(p.GetName(), err)
	}
	if len(resp.Choices) == 0 {
		return nil, providers.NewError(p.GetName(), providers.ErrCodeBadResponse, "no choices returned")
	}

	return &providers.ProviderResponse{
		Text:      providers.CleanCompletion(resp.Choices[0].Message.Content),
		Model:     resp.Model,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
		Metadata: map[string]string{
			"finish_reason": string(resp.Choices[0].FinishReason),
		},
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "ollama"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			{Code: "*", Name: "Depends on the local model"},
		},
		MaxTextLength:      p.config.MaxTokens,
		SupportsAutoDetect: true,
		RequiresAPIKey:     false,
	}
}

// HealthCheck 列出本地模型作为健康检查
func (p *Provider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.ListModels(ctx); err != nil {
		return classify(p.GetName(), err)
	}
	return nil
}

func classify(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return providers.ErrorFromStatus(provider, apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return providers.ErrorFromStatus(provider, reqErr.HTTPStatusCode, "")
	}
	return providers.WrapError(provider, providers.ErrCodeNetwork, err)
}
