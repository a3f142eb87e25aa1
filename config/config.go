package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/tradegym/market"
	"github.com/rustyeddy/tradegym/sim"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvLogLevel   = "TRADEGYM_LOG_LEVEL"
	EnvDBPath     = "TRADEGYM_DB_PATH"
	EnvDataCSV    = "TRADEGYM_DATA_CSV"
	EnvServerAddr = "TRADEGYM_SERVER_ADDR"
)

// Config represents the complete gym configuration
type Config struct {
	Env     sim.Params    `json:"env" yaml:"env"`
	Data    DataConfig    `json:"data" yaml:"data"`
	Run     RunConfig     `json:"run" yaml:"run"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Log     LogConfig     `json:"log" yaml:"log"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// DataConfig selects the candle source. CSV wins over Synthetic when set.
type DataConfig struct {
	CSV             string          `json:"csv,omitempty" yaml:"csv,omitempty"`
	Synthetic       SyntheticConfig `json:"synthetic" yaml:"synthetic"`
	ValidationSplit float64         `json:"validation_split" yaml:"validation_split"`
}

// SyntheticConfig parameterizes the random-walk generator
type SyntheticConfig struct {
	Candles    int     `json:"candles" yaml:"candles"`
	Seed       int64   `json:"seed" yaml:"seed"`
	BasePrice  float64 `json:"base_price" yaml:"base_price"`
	Volatility float64 `json:"volatility" yaml:"volatility"`
}

// RunConfig controls the episode loop
type RunConfig struct {
	Episodes int    `json:"episodes" yaml:"episodes"`
	Policy   string `json:"policy" yaml:"policy"`
	Seed     int64  `json:"seed" yaml:"seed"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile   string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile   string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	EpisodesFile string `json:"episodes_file,omitempty" yaml:"episodes_file,omitempty"`
	DBPath       string `json:"db_path" yaml:"db_path"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// LoadFromFile loads configuration from a file (YAML first, JSON fallback),
// applies environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE files into the process environment. Missing
// files are skipped and variables already set are left alone.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from TRADEGYM_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv(EnvDataCSV); v != "" {
		c.Data.CSV = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Env.Validate(); err != nil {
		return err
	}
	if c.Data.CSV == "" && c.Data.Synthetic.Candles <= c.Env.WindowSize {
		return fmt.Errorf("data.synthetic.candles must exceed env.window_size (%d)", c.Env.WindowSize)
	}
	if c.Data.CSV == "" && (c.Data.Synthetic.BasePrice <= 0 || c.Data.Synthetic.Volatility < 0) {
		return fmt.Errorf("data.synthetic base_price must be positive and volatility non-negative")
	}
	if c.Data.ValidationSplit < 0 || c.Data.ValidationSplit >= 1 {
		return fmt.Errorf("data.validation_split must be in [0, 1)")
	}
	if c.Run.Episodes <= 0 {
		return fmt.Errorf("run.episodes must be positive")
	}
	if c.Run.Policy == "" {
		return fmt.Errorf("run.policy is required")
	}
	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	return nil
}

// LoadSeries returns the configured candle series.
func (c *Config) LoadSeries() (*market.Series, error) {
	if c.Data.CSV != "" {
		return market.LoadCSV(c.Data.CSV)
	}
	return market.Synthetic(market.SyntheticOptions{
		Candles:    c.Data.Synthetic.Candles,
		Seed:       c.Data.Synthetic.Seed,
		BasePrice:  c.Data.Synthetic.BasePrice,
		Volatility: c.Data.Synthetic.Volatility,
	})
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Env: sim.DefaultParams(),
		Data: DataConfig{
			Synthetic: SyntheticConfig{
				Candles:    1000,
				Seed:       42,
				BasePrice:  50000,
				Volatility: 0.02,
			},
			ValidationSplit: 0.2,
		},
		Run: RunConfig{
			Episodes: 5,
			Policy:   "random",
			Seed:     1,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradegym.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
