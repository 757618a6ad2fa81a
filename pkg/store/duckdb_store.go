package store

import (
	"context"
	"database/sql"

	"treaty-classifier/pkg/model"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBStore struct {
	db *sql.DB
}

func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

func (s *DuckDBStore) Name() string {
	return "duckdb"
}

// EnsureSchema 创建运行表和结果表（已存在时跳过）
func (s *DuckDBStore) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return errors.New("DuckDB 连接未初始化")
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS classification_runs (
			id TEXT PRIMARY KEY,
			source_file TEXT,
			search_term TEXT,
			batch_size INTEGER,
			encoding TEXT,
			lines_read BIGINT,
			match_count BIGINT,
			result_count BIGINT,
			status TEXT,
			started_at TIMESTAMP,
			finished_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS classification_results (
			run_id TEXT,
			seq INTEGER,
			speech_id TEXT,
			mention TEXT,
			category TEXT,
			PRIMARY KEY (run_id, seq)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "创建 DuckDB 表失败")
		}
	}
	zap.S().Debug("DuckDB 表创建成功")
	return nil
}

// SaveRun 在一个事务中写入运行记录和全部结果
func (s *DuckDBStore) SaveRun(ctx context.Context, run model.ClassificationRun, results model.ResultTable) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO classification_runs
			(id, source_file, search_term, batch_size, encoding, lines_read, match_count, result_count, status, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceFile, run.SearchTerm, run.BatchSize, run.Encoding,
		run.LinesRead, run.MatchCount, run.ResultCount, string(run.Status),
		run.StartedAt, run.FinishedAt,
	)
	if err != nil {
		return errors.Wrap(err, "插入运行记录失败")
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classification_results (run_id, seq, speech_id, mention, category)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, r := range results {
		if _, err := stmt.ExecContext(ctx, run.ID, i, r.SpeechID, r.Mention, string(r.Category)); err != nil {
			return errors.Wrapf(err, "插入结果 %s 失败", r.SpeechID)
		}
	}
	return tx.Commit()
}

// CountResults 获取已保存的结果数量
func (s *DuckDBStore) CountResults(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM classification_results").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "查询数量失败")
	}
	return count, nil
}

// LoadResults 按顺序读回某次运行的结果
func (s *DuckDBStore) LoadResults(ctx context.Context, runID string) (model.ResultTable, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT speech_id, mention, category FROM classification_results
		WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var table model.ResultTable
	for rows.Next() {
		var r model.ClassificationResult
		var category string
		if err := rows.Scan(&r.SpeechID, &r.Mention, &category); err != nil {
			return nil, err
		}
		r.Category = model.Category(category)
		table = append(table, r)
	}
	return table, rows.Err()
}
