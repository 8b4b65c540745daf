// Package storage defines the durable client-side key/value storage that
// session and preference state is mirrored into, and opens the configured
// backend.
//
// Backends
//
//   - sqlite: a local database file (default); see package storage/sqlite.
//   - redis:  a shared redis instance; see package storage/redis.
//   - memory: process memory only, lost on exit; see package storage/memory.
//   - none:   no durable storage at all. Open returns a nil Storage and
//     callers treat that as "running without client storage".
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carrental-client/internal/client/storage/memory"
	"github.com/dmitrijs2005/carrental-client/internal/client/storage/redis"
	"github.com/dmitrijs2005/carrental-client/internal/client/storage/sqlite"
)

// Storage is a durable string-keyed byte store.
//
// Get reports ok=false (and a nil error) for a missing key. SetMany writes
// all pairs or none. Delete of a missing key is not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string // sqlite database file
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// Open returns the backend named by opts.Backend. For BackendNone it returns
// (nil, nil).
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		s, err := sqlite.Open(ctx, opts.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return s, nil
	case BackendRedis:
		var ropts []redis.Option
		if opts.RedisPrefix != "" {
			ropts = append(ropts, redis.WithPrefix(opts.RedisPrefix))
		}
		s := redis.New(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, ropts...)
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return s, nil
	case BackendMemory:
		return memory.New(), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
