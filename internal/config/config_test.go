package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file: %v", err)
	}

	if cfg.Fetch.LookbackDays != 50 {
		t.Errorf("LookbackDays = %d, want 50", cfg.Fetch.LookbackDays)
	}
	if cfg.Fetch.SP500BatchSize != 20 || cfg.Fetch.TA125BatchSize != 15 {
		t.Errorf("batch sizes = %d/%d, want 20/15",
			cfg.Fetch.SP500BatchSize, cfg.Fetch.TA125BatchSize)
	}
	if cfg.Providers.Yahoo.MinDelaySeconds != 2 || cfg.Providers.Yahoo.MaxDelaySeconds != 5 {
		t.Errorf("yahoo delays = %d/%d, want 2/5",
			cfg.Providers.Yahoo.MinDelaySeconds, cfg.Providers.Yahoo.MaxDelaySeconds)
	}
	if cfg.Providers.IBKR.BaseURL != "https://localhost:5001/v1/api" {
		t.Errorf("IBKR base URL = %q", cfg.Providers.IBKR.BaseURL)
	}
	if cfg.Schedule.DailyCron != "0 2 * * *" {
		t.Errorf("DailyCron = %q", cfg.Schedule.DailyCron)
	}
	if cfg.Analyzer.Timeout() != 60*time.Second {
		t.Errorf("analyzer timeout = %v, want 60s", cfg.Analyzer.Timeout())
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shazam.yaml")
	content := `
storage:
  output_dir: /tmp/out
  sqlite_path: /tmp/bars.db
fetch:
  lookback_days: 30
  shuffle: true
providers:
  polygon:
    api_key: yaml-key
logging:
  level: debug
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.OutputDir != "/tmp/out" {
		t.Errorf("OutputDir = %q", cfg.Storage.OutputDir)
	}
	if cfg.Fetch.LookbackDays != 30 {
		t.Errorf("LookbackDays = %d, want 30", cfg.Fetch.LookbackDays)
	}
	if !cfg.Fetch.Shuffle {
		t.Error("Shuffle not set")
	}
	if cfg.Providers.Polygon.APIKey != "yaml-key" {
		t.Errorf("Polygon key = %q", cfg.Providers.Polygon.APIKey)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("log format = %q", cfg.Logging.Format)
	}
	// Defaults still fill unset fields.
	if cfg.Fetch.SP500BatchSize != 20 {
		t.Errorf("SP500BatchSize = %d, want default 20", cfg.Fetch.SP500BatchSize)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POLYGON_API_KEY", "env-key")
	t.Setenv("OUTPUT_DIR", "/env/out")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Providers.Polygon.APIKey != "env-key" {
		t.Errorf("Polygon key = %q, want env-key", cfg.Providers.Polygon.APIKey)
	}
	if cfg.Storage.OutputDir != "/env/out" {
		t.Errorf("OutputDir = %q, want /env/out", cfg.Storage.OutputDir)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level = %q, want warn", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("storage: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
