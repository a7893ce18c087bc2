package raw

import (
	"context"

	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
)

// Provider Raw 提供商实现（跳过翻译，直接返回原文）
type Provider struct{}

var _ providers.Provider = (*Provider)(nil)

// New 创建新的 Raw 提供商
func New() *Provider {
	return &Provider{}
}

// Translate 直接返回原文
func (p *Provider) Translate(ctx context.Context, req *providers.ProviderRequest) (*providers.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, providers.WrapError(p.GetName(), providers.ErrCodeTimeout, err)
	}
	return &providers.ProviderResponse{
		Text:  req.Text,
		Model: "raw",
		Metadata: map[string]string{
			"type": "raw_passthrough",
		},
	}, nil
}

// GetName 获取提供商名称
func (p *Provider) GetName() string {
	return "raw"
}

// GetCapabilities 获取提供商能力
func (p *Provider) GetCapabilities() providers.Capabilities {
	return providers.Capabilities{
		SupportedLanguages: []providers.Language{
			// Raw 支持所有语言（因为不进行实际翻译）
			{Code: "*", Name: "All Languages"},
		},
		SupportsAutoDetect: true,
		RequiresAPIKey:     false,
	}
}

// HealthCheck Raw 提供商总是健康的
func (p *Provider) HealthCheck(ctx context.Context) error {
	return nil
}
