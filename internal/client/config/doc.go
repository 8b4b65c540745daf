// Package config loads runtime configuration for the car rental client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file named by -c / --config.
//  3. CARRENTAL_* environment variables.
//  4. Command-line flags, applied only when set explicitly.
//
// # JSON schema
//
// Every key is optional. Durations are strings like "10s" or plain seconds:
//
//	{
//	  "environment": "production",
//	  "storage_backend": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "request_timeout": "5s"
//	}
//
// The service credential used for login and registration requests is never
// compiled in. Set it with service_username / service_password or
// CARRENTAL_SERVICE_USER / CARRENTAL_SERVICE_PASSWORD.
package config
