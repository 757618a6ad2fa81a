package model

import "time"

// RunStatus 表示一次运行的结束状态
type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunNoMatches RunStatus = "no_matches"
)

// ClassificationRun 表示一次检索+分类运行的元数据
type ClassificationRun struct {
	ID          string    `gorm:"primarykey;type:varchar(36)" json:"id"` // UUID
	SourceFile  string    `gorm:"column:source_file" json:"source_file"`
	SearchTerm  string    `gorm:"column:search_term;index" json:"search_term"`
	BatchSize   int       `gorm:"column:batch_size" json:"batch_size"`
	Encoding    string    `gorm:"column:encoding" json:"encoding"`
	LinesRead   int       `gorm:"column:lines_read" json:"lines_read"`
	MatchCount  int       `gorm:"column:match_count" json:"match_count"`
	ResultCount int       `gorm:"column:result_count" json:"result_count"`
	Status      RunStatus `gorm:"column:status;type:varchar(16)" json:"status"`
	StartedAt   time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt  time.Time `gorm:"column:finished_at" json:"finished_at"`
}

// TableName 指定表名
func (ClassificationRun) TableName() string {
	return "classification_runs"
}

// Duration 运行耗时
func (r ClassificationRun) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
