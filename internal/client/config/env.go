package config

import "github.com/dmitrijs2005/carrental-client/internal/flagx"

// Environment variables read by parseEnv.
const (
	EnvEnvironment     = "CARRENTAL_ENV"
	EnvAPIBaseURL      = "CARRENTAL_API_URL"
	EnvStorage         = "CARRENTAL_STORAGE"
	EnvStoragePath     = "CARRENTAL_STORAGE_PATH"
	EnvRedisAddr       = "CARRENTAL_REDIS_ADDR"
	EnvRedisPassword   = "CARRENTAL_REDIS_PASSWORD"
	EnvRedisDB         = "CARRENTAL_REDIS_DB"
	EnvRedisPrefix     = "CARRENTAL_REDIS_PREFIX"
	EnvServiceUser     = "CARRENTAL_SERVICE_USER"
	EnvServicePassword = "CARRENTAL_SERVICE_PASSWORD"
	EnvTimeout         = "CARRENTAL_TIMEOUT"
	EnvRevalidate      = "CARRENTAL_REVALIDATE_INTERVAL"
	EnvLogLevel        = "CARRENTAL_LOG_LEVEL"
	EnvMetricsAddr     = "CARRENTAL_METRICS_ADDR"
	EnvCurrency        = "CARRENTAL_CURRENCY"
)

// parseEnv overlays cfg with the CARRENTAL_* variables that are set.
// Malformed numbers are ignored.
func parseEnv(cfg *Config) {
	cfg.Environment = flagx.EnvString(EnvEnvironment, cfg.Environment)
	cfg.APIBaseURL = flagx.EnvString(EnvAPIBaseURL, cfg.APIBaseURL)
	cfg.StorageBackend = flagx.EnvString(EnvStorage, cfg.StorageBackend)
	cfg.StoragePath = flagx.EnvString(EnvStoragePath, cfg.StoragePath)
	cfg.RedisAddr = flagx.EnvString(EnvRedisAddr, cfg.RedisAddr)
	cfg.RedisPassword = flagx.EnvString(EnvRedisPassword, cfg.RedisPassword)
	cfg.RedisDB = flagx.EnvInt(EnvRedisDB, cfg.RedisDB)
	cfg.RedisPrefix = flagx.EnvString(EnvRedisPrefix, cfg.RedisPrefix)
	cfg.ServiceUsername = flagx.EnvString(EnvServiceUser, cfg.ServiceUsername)
	cfg.ServicePassword = flagx.EnvString(EnvServicePassword, cfg.ServicePassword)
	cfg.RequestTimeout = flagx.EnvDuration(EnvTimeout, cfg.RequestTimeout)
	cfg.RevalidateInterval = flagx.EnvDuration(EnvRevalidate, cfg.RevalidateInterval)
	cfg.LogLevel = flagx.EnvString(EnvLogLevel, cfg.LogLevel)
	cfg.MetricsAddr = flagx.EnvString(EnvMetricsAddr, cfg.MetricsAddr)
	cfg.Currency = flagx.EnvString(EnvCurrency, cfg.Currency)
}
