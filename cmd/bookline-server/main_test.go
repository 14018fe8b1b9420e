package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/bookline/internal/config"
	"github.com/bookline/bookline/internal/domain/provider"
	"github.com/bookline/bookline/internal/platform/cache"
	"github.com/bookline/bookline/internal/platform/calendar"
	"github.com/bookline/bookline/pkg/apperr"
)

func TestNewDayCache_NoRedisURL(t *testing.T) {
	c := newDayCache(context.Background(), "", zerolog.Nop())
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("expected in-memory cache without REDIS_URL, got %T", c)
	}
}

func TestNewDayCache_BadRedisURL(t *testing.T) {
	c := newDayCache(context.Background(), "not-a-url", zerolog.Nop())
	if _, ok := c.(*cache.MemoryCache); !ok {
		t.Errorf("expected fallback to in-memory cache on a bad URL, got %T", c)
	}
}

func TestNewCalendarSync_Disabled(t *testing.T) {
	cfg := &config.Config{}
	s := newCalendarSync(context.Background(), cfg, zerolog.Nop())
	if _, ok := s.(calendar.NoopSync); !ok {
		t.Errorf("expected noop sync without GOOGLE_CALENDAR_ID, got %T", s)
	}
}

func TestNewCalendarSync_MissingCredentials(t *testing.T) {
	cfg := &config.Config{
		GoogleCalendarID:      "primary",
		GoogleCredentialsFile: "/nonexistent/creds.json",
	}
	s := newCalendarSync(context.Background(), cfg, zerolog.Nop())
	if _, ok := s.(calendar.NoopSync); !ok {
		t.Errorf("expected fallback to noop sync when credentials are unreadable, got %T", s)
	}
}

type fakeProviderRepo struct {
	byID map[uuid.UUID]*provider.Provider
}

func (f *fakeProviderRepo) Create(_ context.Context, p *provider.Provider) error { return nil }
func (f *fakeProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*provider.Provider, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	return p, nil
}
func (f *fakeProviderRepo) Update(_ context.Context, p *provider.Provider) error { return nil }
func (f *fakeProviderRepo) Deactivate(_ context.Context, id uuid.UUID) error     { return nil }
func (f *fakeProviderRepo) List(_ context.Context, limit, offset int) ([]*provider.Provider, int, error) {
	return nil, 0, nil
}

func TestProviderSourceAdapter(t *testing.T) {
	active := &provider.Provider{ID: uuid.New(), Active: true}
	inactive := &provider.Provider{ID: uuid.New(), Active: false}
	adapter := NewProviderSourceAdapter(&fakeProviderRepo{byID: map[uuid.UUID]*provider.Provider{
		active.ID:   active,
		inactive.ID: inactive,
	}})

	if ok, err := adapter.IsActive(context.Background(), active.ID); err != nil || !ok {
		t.Errorf("active provider: got (%v, %v)", ok, err)
	}
	if ok, err := adapter.IsActive(context.Background(), inactive.ID); err != nil || ok {
		t.Errorf("inactive provider: got (%v, %v)", ok, err)
	}
	if _, err := adapter.IsActive(context.Background(), uuid.New()); !apperr.Is(err, apperr.KindProviderNotFound) {
		t.Errorf("unknown provider: expected provider_not_found, got %v", err)
	}
}
