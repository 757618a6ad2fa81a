package pacer

import (
	"context"
	"testing"
	"time"
)

func TestTickerWaitsFullDuration(t *testing.T) {
	p := NewTicker(5 * time.Millisecond)
	start := time.Now()
	if err := p.Wait(context.Background(), 22*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 22*time.Millisecond {
		t.Fatalf("returned after %s", elapsed)
	}
}

func TestTickerHonorsCancellation(t *testing.T) {
	p := NewTicker(10 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(15 * time.Millisecond)
		cancel()
	}()
	start := time.Now()
	err := p.Wait(ctx, 10*time.Second)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("cancellation observed too late: %s", elapsed)
	}
}

func TestTickerAlreadyCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewTicker(0).Wait(ctx, time.Hour); err == nil {
		t.Fatal("expected error")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_ = r.Wait(context.Background(), 2*time.Second)
	_ = r.Wait(context.Background(), time.Minute)
	if len(r.Waits) != 2 || r.Total() != 62*time.Second {
		t.Fatalf("unexpected waits: %v", r.Waits)
	}
}
