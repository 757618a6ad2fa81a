package classifier

import (
	"context"

	"treaty-classifier/pkg/model"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const anthropicSystemPrompt = "You classify mentions of international treaties in parliamentary speeches. Answer with a single category name."

// AnthropicOptions Messages API 的最小配置
type AnthropicOptions struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Anthropic 通过 Messages API 分类
type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(opts AnthropicOptions) (*Anthropic, error) {
	if opts.APIKey == "" {
		return nil, errors.New("anthropic: 缺少 API key")
	}
	if opts.Model == "" {
		opts.Model = "claude-3-5-haiku-latest"
	}
	reqOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &Anthropic{client: anthropic.NewClient(reqOpts...), model: opts.Model}, nil
}

func (a *Anthropic) Classify(ctx context.Context, text string) (model.Category, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 16,
		System: []anthropic.TextBlockParam{
			{Text: anthropicSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(Prompt(text))),
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "anthropic 请求失败")
	}
	for _, block := range message.Content {
		if block.Type == "text" {
			c, err := model.ParseCategory(block.Text)
			if err != nil {
				return "", err
			}
			zap.S().Debugf("分类结果: %s", c)
			return c, nil
		}
	}
	return "", errors.New("anthropic 响应中没有文本内容")
}
