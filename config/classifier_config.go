package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	ProviderPlaceholder = "placeholder"
	ProviderGemini      = "gemini"
	ProviderAnthropic   = "anthropic"
)

// ClassifierConfig 分类服务配置
type ClassifierConfig struct {
	Provider    string        `json:"provider" yaml:"provider"`
	Model       string        `json:"model" yaml:"model"`
	BaseURL     string        `json:"baseURL" yaml:"baseURL"`
	APIKey      string        `json:"apiKey" yaml:"apiKey"`
	APIKeyEnv   string        `json:"apiKeyEnv" yaml:"apiKeyEnv"` // 为空时按 provider 取默认环境变量
	MaxAttempts int           `json:"maxAttempts" yaml:"maxAttempts"`
	RetryDelay  time.Duration `json:"retryDelay" yaml:"retryDelay"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	Seed        int64         `json:"seed" yaml:"seed"` // 仅 placeholder 使用
}

func (c *ClassifierConfig) Validate() []error {
	var errs = make([]error, 0)
	switch c.Provider {
	case ProviderPlaceholder, ProviderGemini, ProviderAnthropic:
	default:
		errs = append(errs, errors.Errorf("不支持的分类服务: %q", c.Provider))
	}
	if c.MaxAttempts <= 0 {
		errs = append(errs, errors.New("classifier maxAttempts 必须大于 0"))
	}
	if c.RetryDelay < 0 || c.Timeout < 0 {
		errs = append(errs, errors.New("classifier 时间配置不能为负数"))
	}
	return errs
}

func NewDefaultClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		Provider:    ProviderPlaceholder,
		MaxAttempts: 5,
		RetryDelay:  5 * time.Second,
		Timeout:     60 * time.Second,
	}
}

// ResolveAPIKey 优先使用配置中的 key，其次读取环境变量
func (c *ClassifierConfig) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	env := c.APIKeyEnv
	if env == "" {
		switch c.Provider {
		case ProviderGemini:
			env = "GOOGLE_API_KEY"
		case ProviderAnthropic:
			env = "ANTHROPIC_API_KEY"
		}
	}
	if env == "" {
		return ""
	}
	return os.Getenv(env)
}
