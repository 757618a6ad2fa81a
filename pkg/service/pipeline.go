package service

import (
	"context"
	"path/filepath"
	"time"

	"treaty-classifier/config"
	"treaty-classifier/pkg/classifier"
	"treaty-classifier/pkg/model"
	"treaty-classifier/pkg/pacer"
	"treaty-classifier/pkg/reader"
	"treaty-classifier/pkg/store"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Outcome 一次运行的最终结果
// Results 为空时表示“没有结果”，与错误区分
type Outcome struct {
	Run         model.ClassificationRun
	Results     model.ResultTable
	Checkpoints []string
	OutputFile  string
}

func (o *Outcome) Empty() bool {
	return o == nil || len(o.Results) == 0
}

func (o *Outcome) Cancelled() bool {
	return o != nil && o.Run.Status == model.RunCancelled
}

type Pipeline struct {
	cfg        *config.PipelineConfig
	encodings  []reader.Encoding
	classifier classifier.Classifier
	pacer      pacer.Pacer
	stores     []store.ResultStore

	// OutputFile 为空时按输入文件名和检索词生成，"-" 表示不写最终文件
	OutputFile string
}

func NewPipeline(cfg *config.PipelineConfig, c classifier.Classifier, p pacer.Pacer, stores ...store.ResultStore) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.NewDefaultPipelineConfig()
	}
	if c == nil {
		return nil, errors.New("未配置分类服务")
	}
	encs, err := reader.EncodingsByName(cfg.Encodings)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = pacer.NewTicker(cfg.PollInterval)
	}
	return &Pipeline{cfg: cfg, encodings: encs, classifier: c, pacer: p, stores: stores}, nil
}

// ProcessFile 检索 path 中包含 searchTerm 的记录，分批分类并返回结果表
func (p *Pipeline) ProcessFile(ctx context.Context, path, searchTerm string) (*Outcome, error) {
	run := model.ClassificationRun{
		ID:         uuid.NewString(),
		SourceFile: path,
		SearchTerm: searchTerm,
		BatchSize:  p.cfg.BatchSize,
		StartedAt:  time.Now(),
	}
	zap.S().Infof("开始处理 %s，运行 ID %s", run.StartedAt.Format(time.DateTime), run.ID)
	if size, err := reader.FileSizeMB(path); err == nil {
		zap.S().Infof("文件大小: %.2f MB", size)
	}

	collector := NewMatchCollector(NewRecordExtractor(searchTerm), p.encodings, p.cfg.ProgressInterval, p.cfg.Limit)
	collected, err := collector.Collect(ctx, path)
	if err != nil {
		return nil, err
	}
	run.Encoding = collected.Encoding
	run.LinesRead = collected.LinesRead
	run.MatchCount = len(collected.Matches)

	outcome := &Outcome{Run: run}
	switch {
	case collected.Outcome == ScanStoppedEmpty:
		outcome.Run.Status = model.RunCancelled
		return p.finish(ctx, outcome), nil
	case len(collected.Matches) == 0:
		zap.S().Infof("没有找到包含 '%s' 的记录", searchTerm)
		outcome.Run.Status = model.RunNoMatches
		return p.finish(ctx, outcome), nil
	}

	scheduler := NewBatchScheduler(p.classifier, p.pacer, NewCheckpointWriter(p.cfg.CheckpointDir),
		p.cfg.BatchSize, p.cfg.RecordDelay, p.cfg.BatchDelay)
	res, err := scheduler.Run(ctx, searchTerm, collected.Matches)
	if err != nil {
		return nil, err
	}

	outcome.Results = res.Results
	outcome.Checkpoints = res.Checkpoints
	outcome.Run.Status = model.RunCompleted
	if res.Cancelled || collected.Outcome == ScanStoppedPartial {
		outcome.Run.Status = model.RunCancelled
	}

	if !outcome.Empty() && p.OutputFile != "-" {
		out := p.OutputFile
		if out == "" {
			out = filepath.Join(p.cfg.CheckpointDir, OutputPath(path, searchTerm))
		}
		if err := WriteResultsFile(out, outcome.Results); err != nil {
			return nil, errors.Wrapf(err, "写入结果文件 %s 失败", out)
		}
		outcome.OutputFile = out
		zap.S().Infof("结果已保存到 %s", out)
	}
	return p.finish(ctx, outcome), nil
}

func (p *Pipeline) finish(ctx context.Context, o *Outcome) *Outcome {
	o.Run.ResultCount = len(o.Results)
	o.Run.FinishedAt = time.Now()
	zap.S().Infof("处理结束于 %s，总耗时 %.2f 秒", o.Run.FinishedAt.Format(time.DateTime), o.Run.Duration().Seconds())

	if o.Empty() {
		return o
	}
	// 持久化不受用户中止影响，CSV 文件仍是结果的准绳
	storeCtx := context.WithoutCancel(ctx)
	for _, s := range p.stores {
		if err := s.SaveRun(storeCtx, o.Run, o.Results); err != nil {
			zap.S().Warnf("保存结果到 %s 失败: %v", s.Name(), err)
			continue
		}
		zap.S().Infof("结果已写入 %s", s.Name())
	}
	return o
}
