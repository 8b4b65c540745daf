package config

import (
	"time"

	"github.com/spf13/pflag"
)

const (
	flagConfig      = "config"
	flagEnvironment = "env"
	flagAPIBaseURL  = "api-url"
	flagStorage     = "storage"
	flagStoragePath = "storage-path"
	flagRedisAddr   = "redis-addr"
	flagRedisDB     = "redis-db"
	flagRedisPrefix = "redis-prefix"
	flagTimeout     = "timeout"
	flagRevalidate  = "revalidate"
	flagLogLevel    = "log-level"
	flagMetricsAddr = "metrics-addr"
	flagCurrency    = "currency"
)

// RegisterFlags adds the configuration flags to fs. Their defaults are only
// shown in help output; LoadConfig applies a flag only when it was set.
//
//	-c, --config string        JSON config file
//	-e, --env string           environment (development, production)
//	-a, --api-url string       base URL of the backend API
//	-s, --storage string       storage backend (sqlite, redis, memory, none)
//	-d, --storage-path string  sqlite file
//	    --redis-addr string    redis host:port
//	    --redis-db int         redis database
//	    --redis-prefix string  redis key prefix
//	-t, --timeout int          request timeout (in seconds)
//	    --revalidate int       re-check the session every N seconds (0 = off)
//	-l, --log-level string     debug, info, warn, error
//	    --metrics-addr string  serve prometheus metrics on this address
//	    --currency string      display currency for this run
func RegisterFlags(fs *pflag.FlagSet) {
	var d Config
	d.LoadDefaults()

	fs.StringP(flagConfig, "c", "", "path to JSON config file")
	fs.StringP(flagEnvironment, "e", d.Environment, "deployment environment (development, production)")
	fs.StringP(flagAPIBaseURL, "a", "", "base URL of the backend API (default derived from --env)")
	fs.StringP(flagStorage, "s", d.StorageBackend, "storage backend: sqlite, redis, memory or none")
	fs.StringP(flagStoragePath, "d", d.StoragePath, "sqlite database file")
	fs.String(flagRedisAddr, d.RedisAddr, "redis address")
	fs.Int(flagRedisDB, d.RedisDB, "redis database number")
	fs.String(flagRedisPrefix, d.RedisPrefix, "redis key prefix")
	fs.IntP(flagTimeout, "t", int(d.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Int(flagRevalidate, 0, "re-check the session every N seconds while the REPL runs (0 disables)")
	fs.StringP(flagLogLevel, "l", d.LogLevel, "log level: debug, info, warn, error")
	fs.String(flagMetricsAddr, "", "address to serve prometheus metrics on (disabled when empty)")
	fs.String(flagCurrency, "", "display currency for this run")
}

// parseFlags copies every flag that was set on the command line into cfg.
func parseFlags(cfg *Config, fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case flagEnvironment:
			cfg.Environment, err = fs.GetString(f.Name)
		case flagAPIBaseURL:
			cfg.APIBaseURL, err = fs.GetString(f.Name)
		case flagStorage:
			cfg.StorageBackend, err = fs.GetString(f.Name)
		case flagStoragePath:
			cfg.StoragePath, err = fs.GetString(f.Name)
		case flagRedisAddr:
			cfg.RedisAddr, err = fs.GetString(f.Name)
		case flagRedisDB:
			cfg.RedisDB, err = fs.GetInt(f.Name)
		case flagRedisPrefix:
			cfg.RedisPrefix, err = fs.GetString(f.Name)
		case flagTimeout:
			var secs int
			secs, err = fs.GetInt(f.Name)
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		case flagRevalidate:
			var secs int
			secs, err = fs.GetInt(f.Name)
			cfg.RevalidateInterval = time.Duration(secs) * time.Second
		case flagLogLevel:
			cfg.LogLevel, err = fs.GetString(f.Name)
		case flagMetricsAddr:
			cfg.MetricsAddr, err = fs.GetString(f.Name)
		case flagCurrency:
			cfg.Currency, err = fs.GetString(f.Name)
		}
	})
	return err
}
