package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// DuckDBConfig 结果库配置，DBPath 为空时不写入 DuckDB
type DuckDBConfig struct {
	DBPath string `json:"dbPath" yaml:"dbPath"` // DuckDB 数据库文件路径
}

func (d *DuckDBConfig) Validate() []error {
	var errs = make([]error, 0)
	if d.DBPath == "" {
		return errs
	}

	// 确保目录存在
	dir := filepath.Dir(d.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		errs = append(errs, errors.Errorf("创建 DuckDB 目录失败: %v", err))
	}

	return errs
}

func NewDefaultDuckDBConfig() *DuckDBConfig {
	return &DuckDBConfig{}
}

func (d *DuckDBConfig) Enabled() bool {
	return d != nil && d.DBPath != ""
}

func (d *DuckDBConfig) DSN() string {
	return d.DBPath
}
