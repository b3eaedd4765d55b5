package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"PortfolioBench/internal/apperr"
	"PortfolioBench/internal/cache"
	"PortfolioBench/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Brokerage struct {
		BaseURL string `yaml:"base_url"`
		Cookie  string `yaml:"cookie"`
	} `yaml:"brokerage"`
	Benchmark struct {
		BaseURL   string `yaml:"base_url"`
		Ticker    string `yaml:"ticker"`
		Refresh   bool   `yaml:"refresh"`
		CacheFile string `yaml:"cache_file"`
	} `yaml:"benchmark"`
	Cache struct {
		Driver     string `yaml:"driver"`
		Dir        string `yaml:"dir"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Chart struct {
		Output string `yaml:"output"`
		Width  int    `yaml:"width"`
		Height int    `yaml:"height"`
	} `yaml:"chart"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	HTTP struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads .env from the working directory. Its values replace
// variables already set in the process. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Overload(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrapf(apperr.ErrConfig, "parse config: %v", err)
			}
		}
	}

	// Environment variable overrides
	if v := os.Getenv("COOKIE"); v != "" {
		cfg.Brokerage.Cookie = v
	}
	if v := os.Getenv("TRADING212_BASE_URL"); v != "" {
		cfg.Brokerage.BaseURL = v
	}
	if v := os.Getenv("BENCHMARK_TICKER"); v != "" {
		cfg.Benchmark.Ticker = v
	}
	if v := os.Getenv("REFRESH_EXTERNAL_DATA"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.Wrapf(apperr.ErrConfig, "REFRESH_EXTERNAL_DATA=%q is not a boolean", v)
		}
		cfg.Benchmark.Refresh = b
	}
	if v := os.Getenv("EXTERNAL_DATA_FILE"); v != "" {
		cfg.Benchmark.CacheFile = v
	}
	if v := os.Getenv("CACHE_DRIVER"); v != "" {
		cfg.Cache.Driver = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Defaults
	if cfg.Cache.Driver == "" {
		cfg.Cache.Driver = cache.DriverFile
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "data"
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/benchmark_cache.db"
	}
	if cfg.Chart.Output == "" {
		cfg.Chart.Output = "comparison.png"
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1280
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 720
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 0 9 1 * *"
	}
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP.Timeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks the fields every run needs. The cookie is checked
// separately by the caller since it may still be prompted for.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case cache.DriverFile, cache.DriverSQLite, cache.DriverNone:
	default:
		return errors.Wrapf(apperr.ErrConfig, "cache.driver must be one of file, sqlite, none; got %q", c.Cache.Driver)
	}
	ppl := model.ParseTicker(c.Benchmark.Ticker).Mode() == model.ModePPL
	if !ppl && !c.Benchmark.Refresh && c.Benchmark.CacheFile == "" {
		return errors.Wrap(apperr.ErrConfig, "benchmark.cache_file is required when benchmark.refresh is false")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.Wrap(apperr.ErrConfig, "chart.width and chart.height must be positive")
	}
	return nil
}

// ValidateWatch checks the extra fields needed by the scheduled mode.
func (c *Config) ValidateWatch() error {
	if c.Telegram.BotToken == "" {
		return errors.Wrap(apperr.ErrConfig, "telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.Wrap(apperr.ErrConfig, "telegram.chat_id is required")
	}
	if c.Brokerage.Cookie == "" {
		return errors.Wrap(apperr.ErrConfig, "brokerage.cookie is required")
	}
	return nil
}
