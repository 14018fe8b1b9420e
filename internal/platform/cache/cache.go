// Package cache holds the computed day-availability cache. Resolving a
// day's open slots reads every rule, exception, holiday and appointment
// for that provider, so hot days are cached and invalidated whenever a
// write touches the provider's schedule.
package cache

import (
	"context"
	"time"
)

// DayCache stores resolved availability keyed by provider and date.
// Implementations must treat a miss and an error the same way from the
// caller's perspective: recompute.
type DayCache interface {
	Get(ctx context.Context, providerID, date string) ([]byte, bool, error)
	Set(ctx context.Context, providerID, date string, payload []byte, ttl time.Duration) error
	// Invalidate drops every cached day for the provider.
	Invalidate(ctx context.Context, providerID string) error
}

func key(providerID, date string) string {
	return "availability:" + providerID + ":" + date
}

// NoopCache disables caching; every resolve recomputes.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string, string) ([]byte, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, string, []byte, time.Duration) error {
	return nil
}
func (NoopCache) Invalidate(context.Context, string) error { return nil }
