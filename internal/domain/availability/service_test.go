package availability

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookline/bookline/internal/platform/cache"
	"github.com/bookline/bookline/pkg/apperr"
)

func newAuthoringService() (*Service, *mockRules, *cache.MemoryCache) {
	rules := &mockRules{}
	mem := cache.NewMemory()
	svc := NewService(rules, &mockExceptions{}, &mockHolidays{}, mem, zerolog.Nop())
	return svc, rules, mem
}

func TestCreateRule_OK(t *testing.T) {
	svc, rules, _ := newAuthoringService()
	r := &RecurringRule{
		ProviderID: uuid.New(),
		Weekday:    1,
		Start:      "09:00",
		End:        "17:00",
		Recurring:  true,
	}
	if err := svc.CreateRule(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if len(rules.rules) != 1 {
		t.Error("rule was not stored")
	}
}

func TestCreateRule_OvernightRejected(t *testing.T) {
	svc, _, _ := newAuthoringService()
	r := &RecurringRule{
		ProviderID: uuid.New(),
		Weekday:    1,
		Start:      "22:00",
		End:        "02:00",
		Recurring:  true,
	}
	err := svc.CreateRule(context.Background(), r)
	if !apperr.Is(err, apperr.KindInvalidRule) {
		t.Fatalf("expected invalid_availability_rule for overnight rule, got %v", err)
	}
}

func TestCreateRule_BadClockRejected(t *testing.T) {
	svc, _, _ := newAuthoringService()
	cases := []struct{ start, end string }{
		{"9:00", "17:00"},
		{"09:00", "25:00"},
		{"09:60", "17:00"},
		{"morning", "evening"},
	}
	for _, tc := range cases {
		r := &RecurringRule{ProviderID: uuid.New(), Weekday: 1, Start: tc.start, End: tc.end, Recurring: true}
		err := svc.CreateRule(context.Background(), r)
		if !apperr.Is(err, apperr.KindInvalidRule) {
			t.Errorf("start=%q end=%q: expected invalid_availability_rule, got %v", tc.start, tc.end, err)
		}
	}
}

func TestCreateRule_BadWeekday(t *testing.T) {
	svc, _, _ := newAuthoringService()
	r := &RecurringRule{ProviderID: uuid.New(), Weekday: 7, Start: "09:00", End: "17:00", Recurring: true}
	if err := svc.CreateRule(context.Background(), r); !apperr.Is(err, apperr.KindInvalidRule) {
		t.Fatalf("expected invalid_availability_rule, got %v", err)
	}
}

func TestCreateRule_InvalidatesCache(t *testing.T) {
	svc, _, mem := newAuthoringService()
	providerID := uuid.New()
	ctx := context.Background()
	_ = mem.Set(ctx, providerID.String(), "2026-09-07:30", []byte("[]"), time.Minute)

	r := &RecurringRule{ProviderID: providerID, Weekday: 1, Start: "09:00", End: "17:00", Recurring: true}
	if err := svc.CreateRule(ctx, r); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := mem.Get(ctx, providerID.String(), "2026-09-07:30"); ok {
		t.Error("cached day should be invalidated by a rule write")
	}
}

func TestCreateException_PartialValidation(t *testing.T) {
	svc, _, _ := newAuthoringService()
	start, end := "13:00", "12:00"
	e := &Exception{ProviderID: ptr(uuid.New()), Date: time.Now(), Start: &start, End: &end}
	if err := svc.CreateException(context.Background(), e); !apperr.Is(err, apperr.KindInvalidRule) {
		t.Fatalf("expected invalid_availability_rule, got %v", err)
	}
}

func TestCreateException_FullDayOK(t *testing.T) {
	svc, _, _ := newAuthoringService()
	e := &Exception{ProviderID: ptr(uuid.New()), Date: time.Now()}
	if err := svc.CreateException(context.Background(), e); err != nil {
		t.Fatal(err)
	}
}

func ptr(id uuid.UUID) *uuid.UUID { return &id }
