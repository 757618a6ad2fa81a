package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

type IConfig interface {
	Validate() []error
}

type GlobalConfig struct {
	PipelineConfig   *PipelineConfig   `json:"pipeline" yaml:"pipeline"`
	ClassifierConfig *ClassifierConfig `json:"classifier" yaml:"classifier"`
	DuckDBConfig     *DuckDBConfig     `json:"duckdb" yaml:"duckdb"`
	MySQLConfig      *MySQLConfig      `json:"mysql" yaml:"mysql"`
}

func (g *GlobalConfig) Validate() []error {
	var errs = make([]error, 0)
	sections := []IConfig{}
	if g.PipelineConfig != nil {
		sections = append(sections, g.PipelineConfig)
	} else {
		errs = append(errs, errors.New("pipeline 配置未设置"))
	}
	if g.ClassifierConfig != nil {
		sections = append(sections, g.ClassifierConfig)
	}
	if g.DuckDBConfig != nil {
		sections = append(sections, g.DuckDBConfig)
	}
	if g.MySQLConfig != nil {
		sections = append(sections, g.MySQLConfig)
	}
	for _, s := range sections {
		if es := s.Validate(); len(es) > 0 {
			errs = append(errs, es...)
		}
	}
	return errs
}

func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		PipelineConfig:   NewDefaultPipelineConfig(),
		ClassifierConfig: NewDefaultClassifierConfig(),
		DuckDBConfig:     NewDefaultDuckDBConfig(),
		MySQLConfig:      NewDefaultMySQLConfig(),
	}
}

func TryLoadFromDisk(configFilePath string) (*GlobalConfig, error) {
	_, err := os.Stat(configFilePath)
	if err != nil {
		return nil, err
	}
	dir, file := filepath.Split(configFilePath)
	fileType := filepath.Ext(file)
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(file, fileType))
	v.SetConfigType(strings.TrimPrefix(fileType, "."))
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
		return nil, errors.Errorf("解析配置文件错误:%s", err.Error())
	}
	cfg := NewDefaultGlobalConfig()
	if err := v.Unmarshal(cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = strings.TrimPrefix(fileType, ".")
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault 配置文件不存在时使用默认配置，随后应用环境变量覆盖
func LoadOrDefault(configFilePath string) (*GlobalConfig, error) {
	cfg, err := TryLoadFromDisk(configFilePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		cfg = NewDefaultGlobalConfig()
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv 应用 TREATY_ 前缀的环境变量覆盖
func (g *GlobalConfig) ApplyEnv(getenv func(string) string) error {
	if g.PipelineConfig == nil {
		g.PipelineConfig = NewDefaultPipelineConfig()
	}
	if g.ClassifierConfig == nil {
		g.ClassifierConfig = NewDefaultClassifierConfig()
	}
	if v := getenv("TREATY_BATCH_SIZE"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return errors.Errorf("TREATY_BATCH_SIZE 不是整数: %s", v)
		}
		g.PipelineConfig.BatchSize = n
	}
	if v := getenv("TREATY_BATCH_DELAY"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return errors.Errorf("TREATY_BATCH_DELAY 格式错误: %s", v)
		}
		g.PipelineConfig.BatchDelay = d
	}
	if v := getenv("TREATY_RECORD_DELAY"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return errors.Errorf("TREATY_RECORD_DELAY 格式错误: %s", v)
		}
		g.PipelineConfig.RecordDelay = d
	}
	if v := getenv("TREATY_CLASSIFIER"); v != "" {
		g.ClassifierConfig.Provider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := getenv("TREATY_DUCKDB_PATH"); v != "" {
		g.DuckDBConfig = &DuckDBConfig{DBPath: v}
	}
	if v := getenv("TREATY_MYSQL_DSN"); v != "" {
		if g.MySQLConfig == nil {
			g.MySQLConfig = NewDefaultMySQLConfig()
		}
		g.MySQLConfig.DSN = v
	}
	return nil
}
