package vqe

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"
)

type Config struct {
	Depth         int             `mapstructure:"depth"`
	Method        string          `mapstructure:"method"`
	MaxIter       int             `mapstructure:"max_iter"`
	Seed          *int64          `mapstructure:"seed"`
	ProgressEvery int             `mapstructure:"progress_every"`
	Hamiltonian   []PauliTerm     `mapstructure:"hamiltonian"`
	Breaker       BreakerConfig   `mapstructure:"breaker"`
	RateLimit     RateLimitConfig `mapstructure:"rate_limit"`
	Retry         RetryConfig     `mapstructure:"retry"`
	Store         StoreConfig     `mapstructure:"store"`
}

// BreakerConfig enables a circuit breaker in front of the hardware backend.
type BreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
	HalfOpenMax  int           `mapstructure:"half_open_max"`
}

// RateLimitConfig caps how often the hardware backend is called.
type RateLimitConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	RefillRate time.Duration `mapstructure:"refill_rate"`
}

// RetryConfig retries a failed hardware call before falling back. The default
// of one attempt keeps the plain fallback.
type RetryConfig struct {
	Attempts int           `mapstructure:"attempts"`
	Backoff  time.Duration `mapstructure:"backoff"`
}

// StoreConfig selects where finished run records are persisted.
type StoreConfig struct {
	Kind string `mapstructure:"kind"`
	Path string `mapstructure:"path"`
}

func NewConfig() *Config {
	return &Config{
		Depth:         2,
		Method:        MethodCOBYLA.String(),
		MaxIter:       200,
		ProgressEvery: 10,
		Breaker: BreakerConfig{
			MaxFailures:  3,
			ResetTimeout: 30 * time.Second,
			HalfOpenMax:  1,
		},
		RateLimit: RateLimitConfig{
			MaxTokens:  5,
			RefillRate: time.Second,
		},
		Retry: RetryConfig{
			Attempts: 1,
			Backoff:  100 * time.Millisecond,
		},
		Store: StoreConfig{
			Kind: "memory",
		},
	}
}

/*
LoadConfig reads a configuration file (any format viper understands) on top
of the defaults from NewConfig. Every key can be overridden from the
environment with the VQE_ prefix, e.g. VQE_MAX_ITER or VQE_BREAKER_ENABLED.
An empty path reads defaults and environment only.
*/
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	defaults := NewConfig()

	v.SetDefault("depth", defaults.Depth)
	v.SetDefault("method", defaults.Method)
	v.SetDefault("max_iter", defaults.MaxIter)
	v.SetDefault("progress_every", defaults.ProgressEvery)
	v.SetDefault("breaker.enabled", defaults.Breaker.Enabled)
	v.SetDefault("breaker.max_failures", defaults.Breaker.MaxFailures)
	v.SetDefault("breaker.reset_timeout", defaults.Breaker.ResetTimeout)
	v.SetDefault("breaker.half_open_max", defaults.Breaker.HalfOpenMax)
	v.SetDefault("rate_limit.enabled", defaults.RateLimit.Enabled)
	v.SetDefault("rate_limit.max_tokens", defaults.RateLimit.MaxTokens)
	v.SetDefault("rate_limit.refill_rate", defaults.RateLimit.RefillRate)
	v.SetDefault("retry.attempts", defaults.Retry.Attempts)
	v.SetDefault("retry.backoff", defaults.Retry.Backoff)
	v.SetDefault("store.kind", defaults.Store.Kind)
	v.SetDefault("store.path", defaults.Store.Path)

	v.SetEnvPrefix("VQE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Depth <= 0 {
		errs = append(errs, fmt.Errorf("depth must be positive, got %d", c.Depth))
	}
	if c.MaxIter < 1 {
		errs = append(errs, fmt.Errorf("max_iter must be at least 1, got %d", c.MaxIter))
	}
	if c.ProgressEvery < 0 {
		errs = append(errs, fmt.Errorf("progress_every must not be negative, got %d", c.ProgressEvery))
	}
	if _, err := ParseMethod(c.Method); err != nil {
		errs = append(errs, err)
	}
	if c.Breaker.Enabled && (c.Breaker.MaxFailures < 1 || c.Breaker.HalfOpenMax < 1) {
		errs = append(errs, errors.New("breaker needs max_failures and half_open_max of at least 1"))
	}
	if c.RateLimit.Enabled && c.RateLimit.MaxTokens < 1 {
		errs = append(errs, errors.New("rate_limit needs max_tokens of at least 1"))
	}

	if c.Retry.Attempts < 1 {
		errs = append(errs, fmt.Errorf("retry.attempts must be at least 1, got %d", c.Retry.Attempts))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// regulators builds the hardware regulators the configuration enables.
func (c *Config) regulators(logger *log.Logger) []Regulator {
	var regulators []Regulator

	// The breaker goes first so an open circuit does not burn rate tokens.
	if c.Breaker.Enabled {
		breaker := NewCircuitBreaker(c.Breaker.MaxFailures, c.Breaker.ResetTimeout, c.Breaker.HalfOpenMax)
		if logger != nil {
			breaker.logger = logger
		}
		regulators = append(regulators, breaker)
	}
	if c.RateLimit.Enabled {
		regulators = append(regulators, NewRateLimiter(c.RateLimit.MaxTokens, c.RateLimit.RefillRate))
	}

	return regulators
}

// retryPolicy turns the retry section into the evaluator's policy.
func (c *Config) retryPolicy(filter func(error) bool) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: c.Retry.Attempts,
		Strategy:    &ExponentialBackoff{Initial: c.Retry.Backoff},
		Filter:      filter,
	}
}
