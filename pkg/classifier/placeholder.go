package classifier

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"treaty-classifier/pkg/model"

	"go.uber.org/zap"
)

// Placeholder 在没有配置真实分类服务时随机返回一个分类
type Placeholder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPlaceholder seed 为 0 时使用当前时间
func NewPlaceholder(seed int64) *Placeholder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Placeholder{rnd: rand.New(rand.NewSource(seed))}
}

func (p *Placeholder) Classify(ctx context.Context, text string) (model.Category, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	zap.S().Debugf("分类请求（%d 字符），未配置 API key，使用占位分类", len(text))
	categories := model.Categories()
	p.mu.Lock()
	c := categories[p.rnd.Intn(len(categories))]
	p.mu.Unlock()
	zap.S().Debugf("分类结果（占位）: %s", c)
	return c, nil
}
