package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the agridash dashboard.
type Config struct {
	API       API       `yaml:"api"`
	Reference Reference `yaml:"reference"`
	Markets   Markets   `yaml:"markets"`
	Trend     Trend     `yaml:"trend"`
	Logging   Logging   `yaml:"logging"`
}

// API holds connection parameters for the remote prediction API.
type API struct {
	BaseURL        string `yaml:"base_url" envconfig:"AGRIDASH_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"AGRIDASH_API_TIMEOUT_SECONDS"`
}

// Timeout returns the request timeout as a duration.
func (a API) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Reference locates the county/market/commodity reference data file.
type Reference struct {
	Path string `yaml:"path" envconfig:"AGRIDASH_REFERENCE_PATH"`
}

// Markets controls the market price table and its snapshot fetch.
type Markets struct {
	PageSize        int `yaml:"page_size" envconfig:"AGRIDASH_PAGE_SIZE"`
	FetchWorkers    int `yaml:"fetch_workers" envconfig:"AGRIDASH_FETCH_WORKERS"`
	RateLimitPerMin int `yaml:"rate_limit_per_min" envconfig:"AGRIDASH_RATE_LIMIT_PER_MIN"`
}

// Trend controls the analytics price-trend chart.
type Trend struct {
	DefaultDays int `yaml:"default_days" envconfig:"AGRIDASH_TREND_DAYS"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level" envconfig:"AGRIDASH_LOG_LEVEL"`
	File  string `yaml:"file" envconfig:"AGRIDASH_LOG_FILE"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, applies
// environment variable overrides, and fills in defaults for anything left
// unset. A missing config file is not an error: the defaults describe a
// fully working setup against the public API.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Fall through to env + defaults.
	default:
		return nil, err
	}

	// .env is optional; absent in most deployments.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://maliyaleo.onrender.com"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Reference.Path == "" {
		cfg.Reference.Path = "data/reference.json"
	}
	if cfg.Markets.PageSize <= 0 {
		cfg.Markets.PageSize = 10
	}
	if cfg.Markets.FetchWorkers <= 0 {
		cfg.Markets.FetchWorkers = 8
	}
	if cfg.Markets.RateLimitPerMin <= 0 {
		cfg.Markets.RateLimitPerMin = 300
	}
	if cfg.Trend.DefaultDays <= 0 {
		cfg.Trend.DefaultDays = 30
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.File == "" {
		cfg.Logging.File = "logs/agridash.log"
	}
}
