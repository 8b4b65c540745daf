package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/carrental-client/internal/client/api"
	"github.com/dmitrijs2005/carrental-client/internal/client/storage"
	"github.com/spf13/pflag"
)

// Config holds runtime settings for the car rental client.
//
// APIBaseURL, when empty, is derived from Environment. ServiceUsername and
// ServicePassword form the credential sent with login and registration
// requests; leave them empty to send none.
type Config struct {
	Environment string
	APIBaseURL  string

	StorageBackend string
	StoragePath    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisPrefix    string

	ServiceUsername string
	ServicePassword string

	RequestTimeout time.Duration
	// RevalidateInterval re-checks the session periodically while the REPL
	// runs. Zero disables it.
	RevalidateInterval time.Duration

	LogLevel    string
	MetricsAddr string
	Currency    string
}

var ErrInvalidConfig = errors.New("invalid config")

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Environment = "development"
	c.APIBaseURL = ""
	c.StorageBackend = storage.BackendSQLite
	c.StoragePath = "carrental.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RedisPrefix = "carrental:client:"
	c.RequestTimeout = api.DefaultTimeout
	c.LogLevel = "info"
}

// LoadConfig builds a Config from defaults, then the JSON file named by
// --config, then CARRENTAL_* environment variables, then the flags set on
// fs. Later sources take precedence over earlier ones. fs must have been
// prepared with RegisterFlags and parsed; a nil fs skips the file and flags.
func LoadConfig(fs *pflag.FlagSet) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if fs != nil {
		path, err := fs.GetString(flagConfig)
		if err != nil {
			return nil, err
		}
		if err := parseJSON(cfg, path); err != nil {
			return nil, err
		}
	}

	parseEnv(cfg)

	if fs != nil {
		if err := parseFlags(cfg, fs); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BaseURL returns APIBaseURL, or the URL of the configured environment.
func (c *Config) BaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	return api.BaseURLFor(c.Environment)
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StorageBackend)) {
	case "", storage.BackendSQLite:
		if c.StoragePath == "" {
			return fmt.Errorf("%w: sqlite storage needs a path", ErrInvalidConfig)
		}
	case storage.BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis storage needs an address", ErrInvalidConfig)
		}
	case storage.BackendMemory, storage.BackendNone:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.StorageBackend)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidConfig)
	}
	if c.RevalidateInterval < 0 {
		return fmt.Errorf("%w: revalidate interval must not be negative", ErrInvalidConfig)
	}
	if c.ServicePassword != "" && c.ServiceUsername == "" {
		return fmt.Errorf("%w: service password set without a username", ErrInvalidConfig)
	}
	return nil
}

// StorageOptions maps the storage settings onto storage.Options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.StorageBackend,
		Path:          c.StoragePath,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
		RedisDB:       c.RedisDB,
		RedisPrefix:   c.RedisPrefix,
	}
}
