package classifier

import (
	"context"
	"fmt"
	"unicode/utf8"

	"treaty-classifier/pkg/model"
)

// MaxTextLen 发送给分类服务的最大字符数，超出部分截断并以省略号结尾
const MaxTextLen = 1000

// Classifier 将一段文本归入五个分类之一
// 调用是同步的；实现可以在内部重试，但调用方不会重试
type Classifier interface {
	Classify(ctx context.Context, text string) (model.Category, error)
}

// Func 将普通函数适配为 Classifier
type Func func(ctx context.Context, text string) (model.Category, error)

func (f Func) Classify(ctx context.Context, text string) (model.Category, error) {
	return f(ctx, text)
}

// Truncate 超过 MaxTextLen 个字符时截断为前 MaxTextLen-3 个字符加 "..."
func Truncate(text string) string {
	if utf8.RuneCountInString(text) <= MaxTextLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTextLen-3]) + "..."
}

const promptTemplate = `Categorize the following treaty mention into ONLY one of these categories:
1. Support
2. Against
3. Implementation
4. Reversal
5. Other/Factual
Mention:
'''%s'''
Respond ONLY with the category name.`

// Prompt 构造分类提示词，文本已截断
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, Truncate(text))
}
