package factory

import (
	"fmt"
	"strings"

	"github.com/nerdneilsfield/go-inline-translator/internal/config"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/deepl"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/deeplx"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/google"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/libretranslate"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/ollama"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/openai"
	"github.com/nerdneilsfield/go-inline-translator/pkg/providers/raw"
)

// ProviderFactory 提供商工厂
type ProviderFactory struct {
	registry *providers.Registry
}

// New 创建注册了全部内置后端的工厂
func New() *ProviderFactory {
	registry := providers.NewRegistry()
	for _, d := range builtins() {
		// 内置名称互不重复
		_ = registry.Register(d)
	}
	return &ProviderFactory{registry: registry}
}

// Registry 返回底层注册表
func (f *ProviderFactory) Registry() *providers.Registry {
	return f.registry
}

// CreateProvider 根据配置创建提供商
func (f *ProviderFactory) CreateProvider(providerType string, pc config.ProviderConfig) (providers.Provider, error) {
	name := strings.ToLower(strings.TrimSpace(providerType))
	if name == "none" {
		name = "raw"
	}

	provider, err := f.registry.Create(name, toOptions(pc))
	if err != nil {
		return nil, fmt.Errorf("create provider %q: %w", providerType, err)
	}
	return provider, nil
}

// toOptions 将配置文件中的后端配置转换为构造参数
func toOptions(pc config.ProviderConfig) providers.Options {
	base := providers.DefaultConfig()
	base.APIKey = pc.APIKey
	base.APIEndpoint = pc.BaseURL
	base.Timeout = pc.RequestTimeout()
	base.ProxyURL = pc.ProxyURL

	return providers.Options{
		BaseConfig:  base,
		Model:       pc.Model,
		Temperature: pc.Temperature,
		UseFreeAPI:  pc.UseFreeAPI,
	}
}

func builtins() []providers.Descriptor {
	return []providers.Descriptor{
		{
			Name:           "google",
			Description:    "Google Cloud Translation v2",
			RequiresAPIKey: true,
			New: func(opts providers.Options) (providers.Provider, error) {
				return google.New(google.Config{BaseConfig: opts.BaseConfig}), nil
			},
		},
		{
			Name:           "deepl",
			Description:    "DeepL API (pro or free endpoint)",
			RequiresAPIKey: true,
			New: func(opts providers.Options) (providers.Provider, error) {
				return deepl.New(deepl.Config{BaseConfig: opts.BaseConfig, UseFreeAPI: opts.UseFreeAPI}), nil
			},
		},
		{
			Name:        "deeplx",
			Description: "Self-hosted DeepLX endpoint",
			New: func(opts providers.Options) (providers.Provider, error) {
				cfg := deeplx.Config{BaseConfig: opts.BaseConfig, AccessToken: opts.APIKey}
				return deeplx.New(cfg), nil
			},
		},
		{
			Name:        "libretranslate",
			Description: "LibreTranslate server",
			New: func(opts providers.Options) (providers.Provider, error) {
				return libretranslate.New(libretranslate.Config{BaseConfig: opts.BaseConfig}), nil
			},
		},
		{
			Name:           "openai",
			Description:    "OpenAI chat completion",
			RequiresAPIKey: true,
			New: func(opts providers.Options) (providers.Provider, error) {
				return openai.New(openai.Config{
					BaseConfig:  opts.BaseConfig,
					Model:       opts.Model,
					Temperature: opts.Temperature,
				}), nil
			},
		},
		{
			Name:        "ollama",
			Description: "Ollama via its OpenAI compatible API",
			New: func(opts providers.Options) (providers.Provider, error) {
				cfg := ollama.DefaultConfig()
				cfg.BaseConfig = opts.BaseConfig
				if opts.Model != "" {
					cfg.Model = opts.Model
				}
				if opts.Temperature > 0 {
					cfg.Temperature = float32(opts.Temperature)
				}
				return ollama.New(cfg), nil
			},
		},
		{
			Name:        "raw",
			Description: "Passthrough, returns the input unchanged",
			New: func(providers.Options) (providers.Provider, error) {
				return raw.New(), nil
			},
		},
	}
}
