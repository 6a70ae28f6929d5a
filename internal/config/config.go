// Package config loads the YAML configuration file and applies environment
// variable overrides. A .env file alongside the binary is honoured before
// the environment is read.
package config

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for all fetch jobs.
type Config struct {
	Storage   Storage        `yaml:"storage"`
	Providers Providers      `yaml:"providers"`
	Fetch     FetchConfig    `yaml:"fetch"`
	Analyzer  AnalyzerConfig `yaml:"analyzer"`
	Schedule  Schedule       `yaml:"schedule"`
	Logging   Logging        `yaml:"logging"`
}

// Storage holds output paths and optional history stores.
type Storage struct {
	OutputDir      string `yaml:"output_dir"`
	SQLitePath     string `yaml:"sqlite_path"`
	ArchiveParquet bool   `yaml:"archive_parquet"`
	DataDir        string `yaml:"data_dir"`
}

// Providers holds per-vendor credentials and endpoints.
type Providers struct {
	AlphaVantage AlphaVantage `yaml:"alpha_vantage"`
	Polygon      Polygon      `yaml:"polygon"`
	IBKR         IBKR         `yaml:"ibkr"`
	Alpaca       Alpaca       `yaml:"alpaca"`
	Yahoo        Yahoo        `yaml:"yahoo"`
}

// AlphaVantage holds the Alpha Vantage REST API key.
type AlphaVantage struct {
	APIKey string `yaml:"api_key"`
}

// Polygon holds the Polygon.io REST API key.
type Polygon struct {
	APIKey string `yaml:"api_key"`
}

// IBKR points at a locally running client-portal gateway.
type IBKR struct {
	BaseURL string `yaml:"base_url"`
}

// Alpaca holds credentials for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
}

// Yahoo tunes the anti-detection delay band for the public chart API.
type Yahoo struct {
	MinDelaySeconds int `yaml:"min_delay_seconds"`
	MaxDelaySeconds int `yaml:"max_delay_seconds"`
}

// FetchConfig controls batch behaviour for the daily fetch jobs.
type FetchConfig struct {
	LookbackDays   int    `yaml:"lookback_days"`
	SP500BatchSize int    `yaml:"sp500_batch_size"`
	TA125BatchSize int    `yaml:"ta125_batch_size"`
	Shuffle        bool   `yaml:"shuffle"`
	SymbolsCSV     string `yaml:"symbols_csv"`
}

// AnalyzerConfig controls the market-analytics scrape and LLM summary.
type AnalyzerConfig struct {
	PageURL        string `yaml:"page_url"`
	OutputDir      string `yaml:"output_dir"`
	LLM            LLM    `yaml:"llm"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the analyzer HTTP/LLM timeout as a duration.
func (a AnalyzerConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// LLM holds the text-generation endpoint settings.
type LLM struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Schedule holds cron expressions for the scheduler daemon.
type Schedule struct {
	DailyCron  string `yaml:"daily_cron"`
	WeeklyCron string `yaml:"weekly_cron"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

var dotenvOnce sync.Once

// Load reads the YAML configuration file at the given path, fills defaults,
// and applies environment variable overrides. A missing file is not an
// error: the zero config plus env overrides is a workable setup for the
// simpler jobs.
func Load(path string) (*Config, error) {
	dotenvOnce.Do(func() {
		// Existing environment variables win over .env entries.
		_ = godotenv.Load()
	})

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err == nil {
		if uerr := yaml.Unmarshal(data, cfg); uerr != nil {
			return nil, uerr
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.OutputDir == "" {
		cfg.Storage.OutputDir = "data"
	}
	if cfg.Fetch.LookbackDays == 0 {
		cfg.Fetch.LookbackDays = 50
	}
	if cfg.Fetch.SP500BatchSize == 0 {
		cfg.Fetch.SP500BatchSize = 20
	}
	if cfg.Fetch.TA125BatchSize == 0 {
		cfg.Fetch.TA125BatchSize = 15
	}
	if cfg.Providers.Yahoo.MinDelaySeconds == 0 {
		cfg.Providers.Yahoo.MinDelaySeconds = 2
	}
	if cfg.Providers.Yahoo.MaxDelaySeconds == 0 {
		cfg.Providers.Yahoo.MaxDelaySeconds = 5
	}
	if cfg.Providers.IBKR.BaseURL == "" {
		cfg.Providers.IBKR.BaseURL = "https://localhost:5001/v1/api"
	}
	if cfg.Analyzer.PageURL == "" {
		cfg.Analyzer.PageURL = "https://marketgauge.com/tools/big-view/?tab=1&chart=4"
	}
	if cfg.Analyzer.OutputDir == "" {
		cfg.Analyzer.OutputDir = cfg.Storage.OutputDir
	}
	if cfg.Analyzer.LLM.Model == "" {
		cfg.Analyzer.LLM.Model = "gpt-4o-mini"
	}
	if cfg.Analyzer.LLM.MaxTokens == 0 {
		cfg.Analyzer.LLM.MaxTokens = 4000
	}
	if cfg.Analyzer.TimeoutSeconds == 0 {
		cfg.Analyzer.TimeoutSeconds = 60
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 2 * * *" // 2 AM daily
	}
	if cfg.Schedule.WeeklyCron == "" {
		cfg.Schedule.WeeklyCron = "0 12 * * 0" // Sunday noon
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Storage.OutputDir = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.Providers.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Providers.Polygon.APIKey = v
	}
	if v := os.Getenv("IBKR_BASE_URL"); v != "" {
		cfg.Providers.IBKR.BaseURL = v
	}

	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.Analyzer.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.Analyzer.LLM.BaseURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Canonical Alpaca env vars used by the SDK.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Providers.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Providers.Alpaca.APISecret = v
	}
}
