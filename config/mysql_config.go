package config

import (
	"strings"

	"github.com/pkg/errors"
)

// MySQLConfig 结果镜像库配置，DSN 为空时不写入 MySQL
type MySQLConfig struct {
	DSN             string   `json:"dsn" yaml:"dsn"`
	Replicas        []string `json:"replicas" yaml:"replicas"` // 只读副本 DSN
	MaxOpenConns    int      `json:"maxOpenConns" yaml:"maxOpenConns"`
	MaxIdleConns    int      `json:"maxIdleConns" yaml:"maxIdleConns"`
	CreateBatchSize int      `json:"createBatchSize" yaml:"createBatchSize"`
}

func (m *MySQLConfig) Validate() []error {
	var errs = make([]error, 0)
	if m.DSN == "" {
		if len(m.Replicas) > 0 {
			errs = append(errs, errors.New("配置了 MySQL 只读副本但未配置主库 dsn"))
		}
		return errs
	}
	for i, r := range m.Replicas {
		if strings.TrimSpace(r) == "" {
			errs = append(errs, errors.Errorf("MySQL 只读副本 %d 的 dsn 为空", i))
		}
	}
	if m.MaxOpenConns < 0 || m.MaxIdleConns < 0 {
		errs = append(errs, errors.New("MySQL 连接数不能为负数"))
	}
	if m.CreateBatchSize <= 0 {
		errs = append(errs, errors.New("MySQL createBatchSize 必须大于 0"))
	}
	return errs
}

func NewDefaultMySQLConfig() *MySQLConfig {
	return &MySQLConfig{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		CreateBatchSize: 200,
	}
}

func (m *MySQLConfig) Enabled() bool {
	return m != nil && m.DSN != ""
}
