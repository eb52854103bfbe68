package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file name looked up in the working directory.
const DefaultFile = "salesboard.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SALESBOARD_"

// Config represents the top-level salesboard.yaml configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Policy  PolicyConfig  `yaml:"policy"`
	Display DisplayConfig `yaml:"display"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
}

// APIConfig locates the transactions endpoint and bounds each query cycle.
type APIConfig struct {
	Endpoint          string        `yaml:"endpoint"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxPages          int           `yaml:"max_pages"`           // 0 = unlimited
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 = unpaced
}

// PolicyConfig holds the business constants used by the summary.
type PolicyConfig struct {
	SellType        string          `yaml:"sell_type"`
	SuccessStatus   string          `yaml:"success_status"`
	TopUpThreshold  decimal.Decimal `yaml:"top_up_threshold"`
	TopUpMultiplier int64           `yaml:"top_up_multiplier"`
}

// DisplayConfig controls how the summary is presented.
type DisplayConfig struct {
	Format string `yaml:"format"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// HistoryConfig locates the CSV file that records published cycles.
type HistoryConfig struct {
	Path string `yaml:"path"` // empty = disabled
}

// Default returns a Config with the stock dashboard settings.
func Default() *Config {
	return &Config{
		API: APIConfig{
			Endpoint: "http://localhost:8000/cphapp/api/transactions/",
			Timeout:  15 * time.Second,
		},
		Policy: PolicyConfig{
			SellType:        "sell_order",
			SuccessStatus:   "success",
			TopUpThreshold:  decimal.NewFromInt(100),
			TopUpMultiplier: 2,
		},
		Display: DisplayConfig{
			Format: "cards",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a salesboard.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve builds the effective configuration: the file at path (defaults when
// it does not exist), then a .env file next to it or in the working
// directory, then SALESBOARD_* environment variables. The result is
// validated.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	loadDotEnv(filepath.Join(filepath.Dir(path), ".env"), ".env")

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads the first candidate that exists. godotenv never overrides
// variables that are already set.
func loadDotEnv(candidates ...string) {
	for _, path := range candidates {
		if err := godotenv.Load(path); err == nil {
			return
		}
	}
}

// ApplyEnv overrides fields from environment variables found via lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok && strings.TrimSpace(v) != ""
	}

	if v, ok := get("ENDPOINT"); ok {
		c.API.Endpoint = v
	}
	if v, ok := get("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %sTIMEOUT: %w", EnvPrefix, err)
		}
		c.API.Timeout = d
	}
	if v, ok := get("MAX_PAGES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %sMAX_PAGES: %w", EnvPrefix, err)
		}
		c.API.MaxPages = n
	}
	if v, ok := get("REQUESTS_PER_SECOND"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %sREQUESTS_PER_SECOND: %w", EnvPrefix, err)
		}
		c.API.RequestsPerSecond = f
	}
	if v, ok := get("TOP_UP_THRESHOLD"); ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return fmt.Errorf("parsing %sTOP_UP_THRESHOLD: %w", EnvPrefix, err)
		}
		c.Policy.TopUpThreshold = d
	}
	if v, ok := get("TOP_UP_MULTIPLIER"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parsing %sTOP_UP_MULTIPLIER: %w", EnvPrefix, err)
		}
		c.Policy.TopUpMultiplier = n
	}
	if v, ok := get("FORMAT"); ok {
		c.Display.Format = v
	}
	if v, ok := get("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := get("HISTORY"); ok {
		c.History.Path = v
	}
	return nil
}

// Validate reports every problem with the configuration in one error.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.API.Endpoint); err != nil {
		problems = append(problems, fmt.Sprintf("invalid api.endpoint %q: %v", c.API.Endpoint, err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		problems = append(problems, fmt.Sprintf("invalid api.endpoint %q: must be an absolute http(s) URL", c.API.Endpoint))
	}
	if c.API.Timeout <= 0 {
		problems = append(problems, "api.timeout must be positive")
	}
	if c.API.MaxPages < 0 {
		problems = append(problems, "api.max_pages cannot be negative")
	}
	if c.API.RequestsPerSecond < 0 {
		problems = append(problems, "api.requests_per_second cannot be negative")
	}
	if c.Policy.SellType == "" {
		problems = append(problems, "policy.sell_type cannot be empty")
	}
	if c.Policy.SuccessStatus == "" {
		problems = append(problems, "policy.success_status cannot be empty")
	}
	if c.Policy.TopUpThreshold.IsNegative() {
		problems = append(problems, "policy.top_up_threshold cannot be negative")
	}
	if c.Policy.TopUpMultiplier < 0 {
		problems = append(problems, "policy.top_up_multiplier cannot be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
