package classifier

import (
	"context"
	"time"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Retrying 在分类服务内部重试，超过 MaxAttempts 后返回最后一次错误
// 无法识别的分类标签不重试
type Retrying struct {
	Next        Classifier
	MaxAttempts int
	Backoff     time.Duration // 第 n 次失败后等待 n*Backoff
}

func NewRetrying(next Classifier, maxAttempts int, backoff time.Duration) *Retrying {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Retrying{Next: next, MaxAttempts: maxAttempts, Backoff: backoff}
}

func (r *Retrying) Classify(ctx context.Context, text string) (model.Category, error) {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		attempts = attempt
		zap.S().Debugf("分类请求第 %d/%d 次", attempt, r.MaxAttempts)
		c, err := r.Next.Classify(ctx, text)
		if err == nil {
			return c, nil
		}
		lastErr = err
		if errors.Is(err, model.ErrUnknownCategory) || ctx.Err() != nil {
			break
		}
		zap.S().Warnf("分类请求第 %d 次失败: %v", attempt, err)
		if attempt == r.MaxAttempts || r.Backoff <= 0 {
			continue
		}
		timer := time.NewTimer(time.Duration(attempt) * r.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", errors.Wrapf(lastErr, "分类请求失败（共 %d 次尝试）", attempts)
}
