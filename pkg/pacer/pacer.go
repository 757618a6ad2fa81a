package pacer

import (
	"context"
	"sync"
	"time"
)

// Pacer 在两次分类请求之间等待，等待期间须响应 ctx 取消
type Pacer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// Ticker 按 Unit 切片等待，每个切片开始前检查一次取消状态
type Ticker struct {
	Unit time.Duration
}

func NewTicker(unit time.Duration) *Ticker {
	if unit <= 0 {
		unit = time.Second
	}
	return &Ticker{Unit: unit}
}

func (t *Ticker) Wait(ctx context.Context, d time.Duration) error {
	unit := t.Unit
	if unit <= 0 {
		unit = time.Second
	}
	for d > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		step := unit
		if d < step {
			step = d
		}
		timer := time.NewTimer(step)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		d -= step
	}
	return nil
}

// Noop 不等待
type Noop struct{}

func (Noop) Wait(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Recorder 记录每次请求的等待时长，不真正等待
type Recorder struct {
	mu    sync.Mutex
	Waits []time.Duration
}

func (r *Recorder) Wait(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.Waits = append(r.Waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

// Total 累计等待时长
func (r *Recorder) Total() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, d := range r.Waits {
		total += d
	}
	return total
}
