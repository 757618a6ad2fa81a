package reader

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrUnreadableFile 表示所有候选编码都无法完整解码文件
var ErrUnreadableFile = errors.New("文件无法读取")

const defaultBufSize = 64 * 1024

// LineFunc 逐行回调，lineNo 从 2 开始（第 1 行为表头），返回 false 时提前结束
type LineFunc func(lineNo int, line string) bool

// Result 一次成功读取的统计
type Result struct {
	Encoding string
	Lines    int  // 已处理的数据行数（不含表头）
	Stopped  bool // 因取消或回调返回 false 提前结束
}

// ReadLines 以指定编码流式读取文件，跳过表头
// 任意一行解码失败时返回 ErrDecode，文件句柄在返回前关闭
func ReadLines(ctx context.Context, path string, enc Encoding, fn LineFunc) (Result, error) {
	res := Result{Encoding: enc.Name}

	f, err := os.Open(path)
	if err != nil {
		return res, err
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, defaultBufSize)
	lineNo := 0
	for {
		raw, readErr := br.ReadBytes('\n')
		if len(raw) > 0 {
			lineNo++
			raw = bytes.TrimRight(raw, "\r\n")
			line, err := enc.Decode(raw)
			if err != nil {
				return res, errors.Wrapf(err, "第 %d 行", lineNo)
			}
			if lineNo > 1 {
				if ctx.Err() != nil {
					res.Stopped = true
					return res, nil
				}
				res.Lines++
				if !fn(lineNo, line) {
					res.Stopped = true
					return res, nil
				}
			}
		}
		if readErr == io.EOF {
			return res, nil
		}
		if readErr != nil {
			return res, readErr
		}
	}
}

// Scan 依次尝试候选编码，采用第一个能完整解码整个文件的编码
// 每次尝试前调用 onAttempt，调用方应在其中丢弃上一次尝试的中间结果
func Scan(ctx context.Context, path string, encodings []Encoding, onAttempt func(Encoding), fn LineFunc) (Result, error) {
	if len(encodings) == 0 {
		encodings = DefaultEncodings()
	}
	for _, enc := range encodings {
		zap.S().Infof("尝试以 %s 编码读取 %s", enc.Name, path)
		if onAttempt != nil {
			onAttempt(enc)
		}
		res, err := ReadLines(ctx, path, enc, fn)
		if err == nil {
			zap.S().Infof("以 %s 编码读取文件成功", enc.Name)
			return res, nil
		}
		if errors.Is(err, ErrDecode) {
			zap.S().Warnf("以 %s 编码读取失败: %v", enc.Name, err)
			continue
		}
		return Result{}, errors.Wrapf(ErrUnreadableFile, "%s: %v", path, err)
	}
	return Result{}, errors.Wrapf(ErrUnreadableFile, "%s: 没有可用的编码", path)
}

// FileSizeMB 返回文件大小（MB）
func FileSizeMB(path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return float64(info.Size()) / (1024 * 1024), nil
}
