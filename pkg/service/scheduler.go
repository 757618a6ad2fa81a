package service

import (
	"context"
	"time"

	"treaty-classifier/pkg/classifier"
	"treaty-classifier/pkg/model"
	"treaty-classifier/pkg/pacer"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ErrClassificationFailure 分类调用失败，整个运行中止
var ErrClassificationFailure = errors.New("分类失败")

// Batch 表示匹配序列中的 [Start, End) 区间
type Batch struct {
	Index int
	Start int
	End   int
}

func (b Batch) Size() int {
	return b.End - b.Start
}

// Partition 将 n 条匹配按 size 切分为 ceil(n/size) 个连续批次
func Partition(n, size int) []Batch {
	if n <= 0 {
		return nil
	}
	if size < 1 {
		size = 1
	}
	batches := make([]Batch, 0, (n+size-1)/size)
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		batches = append(batches, Batch{Index: len(batches), Start: start, End: end})
	}
	return batches
}

// RunResult 分批分类的结果
type RunResult struct {
	Results     model.ResultTable
	Checkpoints []string
	BatchesDone int
	Cancelled   bool
}

type BatchScheduler struct {
	classifier  classifier.Classifier
	pacer       pacer.Pacer
	checkpoint  *CheckpointWriter
	batchSize   int
	recordDelay time.Duration
	batchDelay  time.Duration
}

func NewBatchScheduler(c classifier.Classifier, p pacer.Pacer, cw *CheckpointWriter, batchSize int, recordDelay, batchDelay time.Duration) *BatchScheduler {
	if p == nil {
		p = pacer.NewTicker(time.Second)
	}
	return &BatchScheduler{
		classifier:  c,
		pacer:       p,
		checkpoint:  cw,
		batchSize:   batchSize,
		recordDelay: recordDelay,
		batchDelay:  batchDelay,
	}
}

// Run 按批次顺序逐条分类，每批结束后写检查点
// 取消只在批前、每条记录前和等待期间检查；分类失败直接返回错误，当前批次不写检查点
func (s *BatchScheduler) Run(ctx context.Context, searchTerm string, matches []model.Match) (*RunResult, error) {
	total := len(matches)
	batches := Partition(total, s.batchSize)
	out := &RunResult{Results: make(model.ResultTable, 0, total)}

	zap.S().Infof("开始分类 %d 条记录，每批 %d 条，共 %d 批", total, s.batchSize, len(batches))

	for _, batch := range batches {
		if ctx.Err() != nil {
			zap.S().Warn("分类被用户中止")
			out.Cancelled = true
			break
		}
		zap.S().Infof("开始第 %d/%d 批", batch.Index+1, len(batches))

		for i := batch.Start; i < batch.End; i++ {
			if ctx.Err() != nil {
				zap.S().Warn("分类被用户中止")
				out.Cancelled = true
				break
			}
			m := matches[i]
			zap.S().Infof("正在分类 %d/%d（ID: %s）", i+1, total, m.ID)
			// 进行中的分类请求不受取消影响
			category, err := s.classifier.Classify(context.WithoutCancel(ctx), m.Text)
			if err != nil {
				return out, errors.Wrapf(ErrClassificationFailure, "记录 %s（第 %d 行）: %v", m.ID, m.LineNo, err)
			}
			out.Results = append(out.Results, model.ClassificationResult{
				SpeechID: m.ID,
				Mention:  m.Text,
				Category: category,
			})

			if i < batch.End-1 && ctx.Err() == nil {
				zap.S().Debugf("等待 %s 后分类下一条", s.recordDelay)
				_ = s.pacer.Wait(ctx, s.recordDelay)
			}
		}

		path, err := s.checkpoint.Write(out.Results, searchTerm, len(out.Results))
		if err != nil {
			return out, err
		}
		out.Checkpoints = append(out.Checkpoints, path)
		if out.Cancelled {
			break
		}
		out.BatchesDone++

		if batch.End < total && ctx.Err() == nil {
			zap.S().Infof("第 %d 批完成，等待 %s 后开始下一批", batch.Index+1, s.batchDelay)
			if err := s.pacer.Wait(ctx, s.batchDelay); err != nil {
				zap.S().Warn("批间等待期间被用户中止")
			}
		}
	}
	if ctx.Err() != nil && len(out.Results) < total {
		out.Cancelled = true
	}
	return out, nil
}
