package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "INLINE_TRANSLATOR"

// DefaultProvider 未配置时使用的翻译后端
const DefaultProvider = "google"

// ProviderConfig 保存单个翻译后端的配置
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // 秒
	Temperature float64 `mapstructure:"temperature"`
	UseFreeAPI  bool    `mapstructure:"use_free_api"` // 仅 DeepL
	ProxyURL    string  `mapstructure:"proxy_url"`
}

// RequestTimeout 返回单次请求超时
func (p ProviderConfig) RequestTimeout() time.Duration {
	if p.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// Config 应用配置
type Config struct {
	Provider     string                    `mapstructure:"provider"`
	Providers    map[string]ProviderConfig `mapstructure:"providers"`
	SettingsFile string                    `mapstructure:"settings_file"`
	Debug        bool                      `mapstructure:"debug"`
	Quiet        bool                      `mapstructure:"quiet"`
	NoClipboard  bool                      `mapstructure:"no_clipboard"`
}

// Active 返回当前后端的配置，未配置时返回零值
func (c *Config) Active() ProviderConfig {
	return c.Providers[c.Provider]
}

// ProviderNames 返回配置文件里出现过的后端名称
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for name := range c.Providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// knownProviders 预先注册默认值，使嵌套键可以被环境变量覆盖
var knownProviders = []string{"google", "deepl", "deeplx", "libretranslate", "openai", "ollama", "raw"}

// DefaultPath 返回默认配置文件路径
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".inline-translator.yaml"), nil
}

// LoadConfig 从文件加载配置
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// 设置默认值
	setDefaults(v)

	// 如果配置路径已指定，则直接使用
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}

		v.AddConfigPath(home)
		v.AddConfigPath(".")
		v.SetConfigName(".inline-translator")
		v.SetConfigType("yaml")
	}

	// 读取环境变量，providers.openai.api_key -> INLINE_TRANSLATOR_PROVIDERS_OPENAI_API_KEY
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// 如果找不到配置文件，则使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if config.Providers == nil {
		config.Providers = make(map[string]ProviderConfig)
	}

	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	if config.Provider == "" {
		config.Provider = DefaultProvider
	}

	// INLINE_TRANSLATOR_API_KEY 作用于当前后端
	if key := v.GetString("api_key"); key != "" {
		pc := config.Providers[config.Provider]
		pc.APIKey = key
		config.Providers[config.Provider] = pc
	}

	return &config, nil
}

// SaveConfig 将配置保存到文件
func SaveConfig(config *Config, configPath string) error {
	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		configPath = p
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.MergeConfigMap(structToMap(config)); err != nil {
		return err
	}

	// 创建父目录（如果不存在）
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	return v.WriteConfigAs(configPath)
}

// NewDefaultConfig 创建一个新的默认配置
func NewDefaultConfig() *Config {
	providers := make(map[string]ProviderConfig, len(knownProviders))
	for _, name := range knownProviders {
		providers[name] = ProviderConfig{Timeout: 30}
	}
	providers["openai"] = ProviderConfig{Model: "gpt-4o-mini", Timeout: 30, Temperature: 0.3}
	providers["ollama"] = ProviderConfig{BaseURL: "http://localhost:11434/v1", Model: "llama3", Timeout: 120, Temperature: 0.3}
	providers["deeplx"] = ProviderConfig{BaseURL: "http://localhost:1188/translate", Timeout: 30}

	return &Config{
		Provider:  DefaultProvider,
		Providers: providers,
	}
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	def := NewDefaultConfig()

	v.SetDefault("provider", def.Provider)
	v.SetDefault("settings_file", "")
	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_clipboard", false)
	v.SetDefault("api_key", "")

	for name, pc := range def.Providers {
		prefix := "providers." + name + "."
		v.SetDefault(prefix+"api_key", pc.APIKey)
		v.SetDefault(prefix+"base_url", pc.BaseURL)
		v.SetDefault(prefix+"model", pc.Model)
		v.SetDefault(prefix+"timeout", pc.Timeout)
		v.SetDefault(prefix+"temperature", pc.Temperature)
		v.SetDefault(prefix+"use_free_api", pc.UseFreeAPI)
		v.SetDefault(prefix+"proxy_url", pc.ProxyURL)
	}
}

// structToMap 将结构体转换为map
func structToMap(config *Config) map[string]interface{} {
	providers := make(map[string]interface{}, len(config.Providers))
	for name, pc := range config.Providers {
		providers[name] = map[string]interface{}{
			"api_key":      pc.APIKey,
			"base_url":     pc.BaseURL,
			"model":        pc.Model,
			"timeout":      pc.Timeout,
			"temperature":  pc.Temperature,
			"use_free_api": pc.UseFreeAPI,
			"proxy_url":    pc.ProxyURL,
		}
	}

	return map[string]interface{}{
		"provider":      config.Provider,
		"providers":     providers,
		"settings_file": config.SettingsFile,
		"debug":         config.Debug,
		"quiet":         config.Quiet,
		"no_clipboard":  config.NoClipboard,
	}
}
