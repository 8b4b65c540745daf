package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero", so a file only overrides what
// it mentions.
type JSONConfig struct {
	Environment     *string   `json:"environment"`
	APIBaseURL      *string   `json:"api_base_url"`
	StorageBackend  *string   `json:"storage_backend"`
	StoragePath     *string   `json:"storage_path"`
	RedisAddr       *string   `json:"redis_addr"`
	RedisPassword   *string   `json:"redis_password"`
	RedisDB         *int      `json:"redis_db"`
	RedisPrefix     *string   `json:"redis_prefix"`
	ServiceUsername *string   `json:"service_username"`
	ServicePassword *string   `json:"service_password"`
	RequestTimeout  *Duration `json:"request_timeout"`
	Revalidate      *Duration `json:"revalidate_interval"`
	LogLevel        *string   `json:"log_level"`
	MetricsAddr     *string   `json:"metrics_addr"`
	Currency        *string   `json:"currency"`
}

// Duration reads either a Go duration string ("10s") or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			if n, aerr := strconv.Atoi(s); aerr == nil {
				*d = Duration(time.Duration(n) * time.Second)
				return nil
			}
			return err
		}
		*d = Duration(v)
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("duration must be a string or seconds: %w", err)
	}
	*d = Duration(time.Duration(n * float64(time.Second)))
	return nil
}

// parseJSON overlays cfg with the values found in the file at path.
// An empty path means no file.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setIf(&cfg.Environment, jc.Environment)
	setIf(&cfg.APIBaseURL, jc.APIBaseURL)
	setIf(&cfg.StorageBackend, jc.StorageBackend)
	setIf(&cfg.StoragePath, jc.StoragePath)
	setIf(&cfg.RedisAddr, jc.RedisAddr)
	setIf(&cfg.RedisPassword, jc.RedisPassword)
	setIf(&cfg.RedisDB, jc.RedisDB)
	setIf(&cfg.RedisPrefix, jc.RedisPrefix)
	setIf(&cfg.ServiceUsername, jc.ServiceUsername)
	setIf(&cfg.ServicePassword, jc.ServicePassword)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.MetricsAddr, jc.MetricsAddr)
	setIf(&cfg.Currency, jc.Currency)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
	if jc.Revalidate != nil {
		cfg.RevalidateInterval = time.Duration(*jc.Revalidate)
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
