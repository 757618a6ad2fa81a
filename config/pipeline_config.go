package config

import (
	"time"

	"github.com/pkg/errors"
)

// PipelineConfig 检索与分批分类的参数
type PipelineConfig struct {
	BatchSize        int           `json:"batchSize" yaml:"batchSize"`
	RecordDelay      time.Duration `json:"recordDelay" yaml:"recordDelay"`     // 批内相邻两条之间的等待
	BatchDelay       time.Duration `json:"batchDelay" yaml:"batchDelay"`       // 批与批之间的等待
	PollInterval     time.Duration `json:"pollInterval" yaml:"pollInterval"`   // 等待期间检查取消的间隔
	ProgressInterval int           `json:"progressInterval" yaml:"progressInterval"`
	Encodings        []string      `json:"encodings" yaml:"encodings"`
	CheckpointDir    string        `json:"checkpointDir" yaml:"checkpointDir"`
	Limit            int           `json:"limit" yaml:"limit"` // 最多处理的匹配条数，0 表示不限
}

func (p *PipelineConfig) Validate() []error {
	var errs = make([]error, 0)
	if p.BatchSize < 1 {
		errs = append(errs, errors.Errorf("batchSize 必须大于等于 1，当前为 %d", p.BatchSize))
	}
	if p.RecordDelay < 0 || p.BatchDelay < 0 {
		errs = append(errs, errors.New("等待时间不能为负数"))
	}
	if p.PollInterval <= 0 {
		errs = append(errs, errors.New("pollInterval 必须大于 0"))
	}
	if p.ProgressInterval <= 0 {
		errs = append(errs, errors.New("progressInterval 必须大于 0"))
	}
	if p.Limit < 0 {
		errs = append(errs, errors.New("limit 不能为负数"))
	}
	return errs
}

func NewDefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		BatchSize:        5,
		RecordDelay:      2 * time.Second,
		BatchDelay:       60 * time.Second,
		PollInterval:     time.Second,
		ProgressInterval: 100000,
		Encodings:        []string{"utf-8", "latin-1", "cp1252", "iso-8859-1"},
		CheckpointDir:    ".",
	}
}
