package service

import (
	"context"

	"treaty-classifier/pkg/model"
	"treaty-classifier/pkg/reader"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ScanOutcome 检索阶段的结束状态
type ScanOutcome int

const (
	ScanCompleted      ScanOutcome = iota // 读完整个文件（或达到 Limit）
	ScanStoppedPartial                    // 被取消，已有匹配
	ScanStoppedEmpty                      // 被取消，尚无匹配
)

func (o ScanOutcome) String() string {
	switch o {
	case ScanCompleted:
		return "completed"
	case ScanStoppedPartial:
		return "stopped-partial"
	case ScanStoppedEmpty:
		return "stopped-empty"
	}
	return "unknown"
}

// CollectResult 检索阶段的结果
type CollectResult struct {
	Matches   []model.Match
	Encoding  string
	LinesRead int
	Skipped   int // 格式错误被跳过的行数
	Outcome   ScanOutcome
}

type MatchCollector struct {
	extractor        *RecordExtractor
	encodings        []reader.Encoding
	progressInterval int
	limit            int

	matches []model.Match
	skipped int
}

func NewMatchCollector(extractor *RecordExtractor, encodings []reader.Encoding, progressInterval, limit int) *MatchCollector {
	if progressInterval <= 0 {
		progressInterval = 100000
	}
	return &MatchCollector{
		extractor:        extractor,
		encodings:        encodings,
		progressInterval: progressInterval,
		limit:            limit,
	}
}

func (c *MatchCollector) reset(enc reader.Encoding) {
	c.matches = nil
	c.skipped = 0
}

func (c *MatchCollector) onLine(lineNo int, line string) bool {
	rec, err := c.extractor.Extract(line)
	if err != nil {
		zap.S().Debugf("第 %d 行处理失败，跳过: %v", lineNo, err)
		c.skipped++
		return true
	}
	if c.extractor.Matches(rec) {
		c.matches = append(c.matches, model.Match{Record: rec, LineNo: lineNo})
	}
	if lineNo%c.progressInterval == 0 {
		zap.S().Infof("已处理 %d 行，目前找到 %d 条匹配", lineNo, len(c.matches))
	}
	if c.limit > 0 && len(c.matches) >= c.limit {
		zap.S().Infof("已达到匹配上限 %d，停止检索", c.limit)
		return false
	}
	return true
}

// Collect 流式读取文件并收集匹配记录
// 取消时若已有匹配则返回部分结果，否则返回 ScanStoppedEmpty，二者都不是错误
func (c *MatchCollector) Collect(ctx context.Context, path string) (*CollectResult, error) {
	res, err := reader.Scan(ctx, path, c.encodings, c.reset, c.onLine)
	if err != nil {
		return nil, err
	}

	out := &CollectResult{
		Matches:   c.matches,
		Encoding:  res.Encoding,
		LinesRead: res.Lines,
		Skipped:   c.skipped,
		Outcome:   ScanCompleted,
	}
	if res.Stopped && ctx.Err() != nil {
		zap.S().Warn("检索被用户中止")
		if len(c.matches) == 0 {
			out.Outcome = ScanStoppedEmpty
		} else {
			out.Outcome = ScanStoppedPartial
		}
	}
	zap.S().Infof("共找到 %d 条包含检索词的记录（读取 %d 行，跳过 %d 行）", len(out.Matches), out.LinesRead, out.Skipped)
	if len(out.Matches) > 0 {
		first := out.Matches[0]
		zap.S().Infof("首条匹配示例（ID %s）: %s", first.ID, Snippet(first.Text, 100))
	}
	return out, nil
}

// Snippet 截取前 n 个字符，超出时追加 "..."
func Snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// IsUnreadable 判断是否因所有编码都失败而无法读取
func IsUnreadable(err error) bool {
	return errors.Is(err, reader.ErrUnreadableFile)
}
