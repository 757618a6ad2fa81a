package db

import (
	"context"
	"database/sql"
	"sync"

	"treaty-classifier/config"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

var duckDB *sql.DB
var duckDBOnce sync.Once

// OpenDuckDB 打开一个独立的 duckdb 连接
func OpenDuckDB(path string) (*sql.DB, error) {
	conn, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// InitDuckDB 初始化全局 duckdb 连接
func InitDuckDB(cfg *config.DuckDBConfig) error {
	var err error
	duckDBOnce.Do(func() {
		duckDB, err = OpenDuckDB(cfg.DSN())
		if err != nil {
			zap.S().Errorf("连接 duckdb 失败: %v", err)
			return
		}
		zap.S().Debug("duckdb 初始化完成...")
	})
	return err
}

// GetDuckDB 获取 DuckDB 连接
func GetDuckDB() *sql.DB {
	return duckDB
}

// GetDuckDBWithContext 获取带上下文的 DuckDB 连接
func GetDuckDBWithContext(ctx context.Context) *sql.DB {
	return duckDB
}
