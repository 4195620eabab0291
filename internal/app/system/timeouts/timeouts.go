// Package timeouts provides centralized timeout values for handler
// operations. Every handler wraps its DB work in context.WithTimeout using
// one of these values.
//
// Guidelines:
//   - Ping: health checks
//   - Short: single-document reads
//   - Medium: list queries, simple writes
//   - Long: transactions touching multiple collections
package timeouts

import (
	"sync"
	"time"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
)

var (
	mu     sync.RWMutex
	ping   = DefaultPing
	short  = DefaultShort
	medium = DefaultMedium
	long   = DefaultLong
)

// Ping returns the timeout for health checks.
func Ping() time.Duration { mu.RLock(); defer mu.RUnlock(); return ping }

// Short returns the timeout for single-document reads.
func Short() time.Duration { mu.RLock(); defer mu.RUnlock(); return short }

// Medium returns the timeout for list queries and simple writes.
func Medium() time.Duration { mu.RLock(); defer mu.RUnlock(); return medium }

// Long returns the timeout for multi-collection transactions.
func Long() time.Duration { mu.RLock(); defer mu.RUnlock(); return long }

// Config holds timeout overrides. Zero values keep the current setting.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
}

// Configure sets custom timeout values at startup. Zero values are ignored.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Short > 0 {
		short = cfg.Short
	}
	if cfg.Medium > 0 {
		medium = cfg.Medium
	}
	if cfg.Long > 0 {
		long = cfg.Long
	}
}
