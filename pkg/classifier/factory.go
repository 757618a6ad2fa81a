package classifier

import (
	"treaty-classifier/config"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// New 按配置构造分类服务，真实服务外层包裹内部重试
func New(cfg *config.ClassifierConfig) (Classifier, error) {
	if cfg == nil {
		cfg = config.NewDefaultClassifierConfig()
	}
	switch cfg.Provider {
	case config.ProviderPlaceholder, "":
		zap.S().Warn("未配置分类服务 API key，使用占位分类（随机结果）")
		return NewPlaceholder(cfg.Seed), nil
	case config.ProviderGemini:
		g, err := NewGemini(GeminiOptions{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.ResolveAPIKey(),
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return NewRetrying(g, cfg.MaxAttempts, cfg.RetryDelay), nil
	case config.ProviderAnthropic:
		a, err := NewAnthropic(AnthropicOptions{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.ResolveAPIKey(),
		})
		if err != nil {
			return nil, err
		}
		return NewRetrying(a, cfg.MaxAttempts, cfg.RetryDelay), nil
	}
	return nil, errors.Errorf("不支持的分类服务: %q", cfg.Provider)
}
