package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	EODHD   EODHDConfig   `yaml:"eodhd"`
	Scanner ScannerConfig `yaml:"scanner"`
	Filter  FilterConfig  `yaml:"filter"`
	Server  ServerConfig  `yaml:"server"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
}

// EODHDConfig holds the live data provider settings
type EODHDConfig struct {
	Token     string `yaml:"token"`
	BaseURL   string `yaml:"base_url"`
	RateLimit int    `yaml:"rate_limit"` // requests per minute
	UseMock   bool   `yaml:"use_mock"`   // force synthetic data, skip live fetch
}

// ScannerConfig holds batch scanner settings
type ScannerConfig struct {
	BatchSize     int           `yaml:"batch_size"` // concurrent fetches
	Timeout       time.Duration `yaml:"timeout"`
	HistoryDays   int           `yaml:"history_days"`   // trailing calendar window
	UniverseLimit int           `yaml:"universe_limit"` // cap on tickers per cycle
}

// FilterConfig holds the default anti-gorengan quality gates
type FilterConfig struct {
	MinMarketCapT float64 `yaml:"min_market_cap_t"` // trillions of IDR
	MaxDER        float64 `yaml:"max_der"`
	MinROE        float64 `yaml:"min_roe"`
	BluechipOnly  bool    `yaml:"bluechip_only"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		EODHD: EODHDConfig{
			Token:     os.Getenv("EODHD_API_TOKEN"),
			BaseURL:   "https://eodhd.com/api",
			RateLimit: 60,
			UseMock:   os.Getenv("USE_MOCK_DATA") == "true",
		},
		Scanner: ScannerConfig{
			BatchSize:     5,
			Timeout:       2 * time.Minute,
			HistoryDays:   45,
			UniverseLimit: 25,
		},
		Filter: FilterConfig{
			MinMarketCapT: 2,
			MaxDER:        2.0,
			MinROE:        0,
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if file doesn't exist
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Environment takes precedence over the file
	if token := os.Getenv("EODHD_API_TOKEN"); token != "" {
		cfg.EODHD.Token = token
	}
	if mock := os.Getenv("USE_MOCK_DATA"); mock != "" {
		cfg.EODHD.UseMock = mock == "true"
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.EODHD.Token == "" && !c.EODHD.UseMock {
		return fmt.Errorf("EODHD_API_TOKEN is required unless use_mock is enabled")
	}
	if c.Scanner.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Scanner.HistoryDays < 30 {
		return fmt.Errorf("history_days must be at least 30 to cover 21 trading days")
	}
	if c.Filter.MaxDER <= 0 {
		return fmt.Errorf("max_der must be positive")
	}
	return nil
}
