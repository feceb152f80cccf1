package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"agentready/internal/fetch"
	"agentready/internal/log"
	"agentready/internal/scoring"
)

const envPrefix = "AGENTREADY"

const (
	USER_AGENT      = "user_agent"
	TIMEOUT         = "timeout"
	MAX_PAGE_BYTES  = "max_page_bytes"
	CONCURRENCY     = "concurrency"
	PASS_THRESHOLD  = "pass_threshold"
	CACHE_TTL       = "cache_ttl"
	RATE_LIMIT      = "rate_limit"
	RATE_BURST      = "rate_burst"
	API_RATE_LIMIT  = "api_rate_limit"
	API_RATE_BURST  = "api_rate_burst"
	LISTEN_ADDR     = "listen_addr"
	METRICS_ADDR    = "metrics_addr"
	BASIC_AUTH_USER = "basic_auth_user"
	BASIC_AUTH_PASS = "basic_auth_pass"
	DEV             = "dev"
	DEBUG           = "debug"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxPageBytes  int64         `mapstructure:"max_page_bytes"`
	Concurrency   int           `mapstructure:"concurrency"`
	PassThreshold float64       `mapstructure:"pass_threshold"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	RateLimit     float64       `mapstructure:"rate_limit"`
	RateBurst     int           `mapstructure:"rate_burst"`
	APIRateLimit  float64       `mapstructure:"api_rate_limit"`
	APIRateBurst  int           `mapstructure:"api_rate_burst"`
	ListenAddr    string        `mapstructure:"listen_addr"`
	MetricsAddr   string        `mapstructure:"metrics_addr"`
	BasicAuthUser string        `mapstructure:"basic_auth_user"`
	BasicAuthPass string        `mapstructure:"basic_auth_pass"`
	IsDev         bool          `mapstructure:"dev"`
	Debug         bool          `mapstructure:"debug"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(USER_AGENT, fetch.DefaultUserAgent)
	v.SetDefault(TIMEOUT, fetch.DefaultTimeout)
	v.SetDefault(MAX_PAGE_BYTES, fetch.DefaultMaxPageBytes)
	v.SetDefault(CONCURRENCY, 4)
	v.SetDefault(PASS_THRESHOLD, scoring.DefaultPassThreshold)
	v.SetDefault(CACHE_TTL, time.Duration(0))
	v.SetDefault(RATE_LIMIT, 0.0)
	v.SetDefault(RATE_BURST, 1)
	v.SetDefault(API_RATE_LIMIT, 0.0)
	v.SetDefault(API_RATE_BURST, 1)
	v.SetDefault(LISTEN_ADDR, ":8080")
	v.SetDefault(METRICS_ADDR, ":8081")
	v.SetDefault(BASIC_AUTH_USER, "")
	v.SetDefault(BASIC_AUTH_PASS, "")
	v.SetDefault(DEV, false)
	v.SetDefault(DEBUG, false)
}

// Load reads configuration from path (when given), an optional .env file and
// AGENTREADY_* environment variables, in increasing precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	case fileExists(".env"):
		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Logger.Warn("failed to read .env file", zap.Error(err))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Timeout < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, TIMEOUT)
	case c.Concurrency < 1:
		return fmt.Errorf("%w: %s must be at least 1", ErrInvalidConfig, CONCURRENCY)
	case c.PassThreshold < 0 || c.PassThreshold > 1:
		return fmt.Errorf("%w: %s must be within [0,1]", ErrInvalidConfig, PASS_THRESHOLD)
	case c.RateLimit < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, RATE_LIMIT)
	case c.APIRateLimit < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, API_RATE_LIMIT)
	case (c.BasicAuthUser == "") != (c.BasicAuthPass == ""):
		return fmt.Errorf("%w: %s and %s must be set together", ErrInvalidConfig, BASIC_AUTH_USER, BASIC_AUTH_PASS)
	}
	return nil
}

// FetchOptions maps the configuration onto the HTTP fetcher.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:    c.UserAgent,
		Timeout:      c.Timeout,
		MaxPageBytes: c.MaxPageBytes,
		RateLimit:    c.RateLimit,
		RateBurst:    c.RateBurst,
		CacheTTL:     c.CacheTTL,
	}
}

// Policy is the default scoring policy with the configured pass threshold.
func (c *Config) Policy() scoring.Policy {
	return scoring.DefaultPolicy().WithPassThreshold(c.PassThreshold)
}

func (c *Config) BasicAuthEnabled() bool {
	return c.BasicAuthUser != "" && c.BasicAuthPass != ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
