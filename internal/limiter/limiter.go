// Package limiter defines interfaces and implementations for provider daily quotas.
package limiter

import (
	"context"
)

// Limiter tracks per-provider usage against a daily limit.
type Limiter interface {
	// Allow reports whether another call to provider fits into limit for the current day.
	Allow(ctx context.Context, provider string, limit int) (bool, error)
	// Record counts one successful call to provider for the current day.
	Record(ctx context.Context, provider string) error
}
