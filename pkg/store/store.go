package store

import (
	"context"

	"treaty-classifier/pkg/model"
)

// ResultStore 持久化一次运行及其分类结果
type ResultStore interface {
	Name() string
	SaveRun(ctx context.Context, run model.ClassificationRun, results model.ResultTable) error
	CountResults(ctx context.Context) (int64, error)
}
