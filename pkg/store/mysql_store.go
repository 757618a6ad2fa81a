package store

import (
	"context"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type MySQLStore struct {
	db        *gorm.DB
	batchSize int
}

func NewMySQLStore(db *gorm.DB, batchSize int) *MySQLStore {
	if batchSize <= 0 {
		batchSize = 200
	}
	return &MySQLStore{db: db, batchSize: batchSize}
}

func (s *MySQLStore) Name() string {
	return "mysql"
}

func (s *MySQLStore) AutoMigrate(ctx context.Context) error {
	if s.db == nil {
		return errors.New("MySQL 连接未初始化")
	}
	return s.db.WithContext(ctx).AutoMigrate(&model.ClassificationRun{}, &model.StoredResult{})
}

// StoredResults 为结果附加运行 ID 和序号
func StoredResults(runID string, results model.ResultTable) []model.StoredResult {
	rows := make([]model.StoredResult, 0, len(results))
	for i, r := range results {
		rows = append(rows, model.StoredResult{RunID: runID, Seq: i, ClassificationResult: r})
	}
	return rows
}

func (s *MySQLStore) SaveRun(ctx context.Context, run model.ClassificationRun, results model.ResultTable) error {
	if err := s.AutoMigrate(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return errors.Wrap(err, "插入运行记录失败")
		}
		if len(results) == 0 {
			return nil
		}
		rows := StoredResults(run.ID, results)
		if err := tx.CreateInBatches(&rows, s.batchSize).Error; err != nil {
			return errors.Wrap(err, "插入结果失败")
		}
		return nil
	})
}

func (s *MySQLStore) CountResults(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.StoredResult{}).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "查询数量失败")
	}
	return count, nil
}
