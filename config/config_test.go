package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := NewDefaultGlobalConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("default config invalid: %v", errs)
	}
	if cfg.DuckDBConfig.Enabled() || cfg.MySQLConfig.Enabled() {
		t.Fatal("stores should be disabled by default")
	}
}

func TestTryLoadFromDiskYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `pipeline:
  batchSize: 3
  batchDelay: 30s
  encodings: ["latin-1"]
classifier:
  provider: gemini
  model: gemini-1.5-flash
duckdb:
  dbPath: ` + filepath.Join(dir, "data", "results.duckdb") + `
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := TryLoadFromDisk(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PipelineConfig.BatchSize != 3 || cfg.PipelineConfig.BatchDelay != 30*time.Second {
		t.Fatalf("unexpected pipeline config: %+v", cfg.PipelineConfig)
	}
	// 未出现在文件中的字段保留默认值
	if cfg.PipelineConfig.RecordDelay != 2*time.Second {
		t.Fatalf("record delay = %s", cfg.PipelineConfig.RecordDelay)
	}
	if len(cfg.PipelineConfig.Encodings) != 1 || cfg.PipelineConfig.Encodings[0] != "latin-1" {
		t.Fatalf("encodings = %v", cfg.PipelineConfig.Encodings)
	}
	if cfg.ClassifierConfig.Provider != ProviderGemini || cfg.ClassifierConfig.MaxAttempts != 5 {
		t.Fatalf("unexpected classifier config: %+v", cfg.ClassifierConfig)
	}
	if !cfg.DuckDBConfig.Enabled() {
		t.Fatal("duckdb should be enabled")
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Fatalf("validate: %v", errs)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.PipelineConfig.BatchSize != 5 {
		t.Fatalf("batch size = %d", cfg.PipelineConfig.BatchSize)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TREATY_BATCH_SIZE":  "7",
		"TREATY_BATCH_DELAY": "10s",
		"TREATY_CLASSIFIER":  " Anthropic ",
		"TREATY_MYSQL_DSN":   "user:pass@tcp(localhost:3306)/treaty",
	}
	cfg := NewDefaultGlobalConfig()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if cfg.PipelineConfig.BatchSize != 7 || cfg.PipelineConfig.BatchDelay != 10*time.Second {
		t.Fatalf("unexpected pipeline config: %+v", cfg.PipelineConfig)
	}
	if cfg.ClassifierConfig.Provider != ProviderAnthropic {
		t.Fatalf("provider = %q", cfg.ClassifierConfig.Provider)
	}
	if !cfg.MySQLConfig.Enabled() {
		t.Fatal("mysql should be enabled")
	}

	bad := NewDefaultGlobalConfig()
	if err := bad.ApplyEnv(func(k string) string {
		if k == "TREATY_BATCH_SIZE" {
			return "lots"
		}
		return ""
	}); err == nil {
		t.Fatal("expected error for non-numeric batch size")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GlobalConfig)
	}{
		{"zero batch size", func(c *GlobalConfig) { c.PipelineConfig.BatchSize = 0 }},
		{"negative delay", func(c *GlobalConfig) { c.PipelineConfig.BatchDelay = -time.Second }},
		{"unknown provider", func(c *GlobalConfig) { c.ClassifierConfig.Provider = "oracle" }},
		{"replicas without primary", func(c *GlobalConfig) { c.MySQLConfig.Replicas = []string{"dsn"} }},
		{"missing pipeline", func(c *GlobalConfig) { c.PipelineConfig = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultGlobalConfig()
			tc.mutate(cfg)
			if errs := cfg.Validate(); len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "from-env")
	c := NewDefaultClassifierConfig()
	c.Provider = ProviderGemini
	if got := c.ResolveAPIKey(); got != "from-env" {
		t.Fatalf("key = %q", got)
	}
	c.APIKey = "explicit"
	if got := c.ResolveAPIKey(); got != "explicit" {
		t.Fatalf("key = %q", got)
	}
}
