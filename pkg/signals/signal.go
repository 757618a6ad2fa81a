package signals

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var onlyOneSignalHandler = make(chan struct{})

// SetupSignalHandler 收到 SIGINT/SIGTERM 时取消返回的 context，第二次收到信号时直接退出
// 只能调用一次
func SetupSignalHandler() context.Context {
	close(onlyOneSignalHandler)

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		zap.S().Warn("收到中止信号，当前记录完成后停止（再次按下 Ctrl+C 强制退出）")
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}

// WithInterrupt 返回一个在收到 SIGINT/SIGTERM 时取消的 context，可多次调用
// 调用方须在结束时调用 stop 恢复默认信号处理
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
