package provider

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
)

type mockRepo struct {
	providers map[uuid.UUID]*Provider
}

func newMockRepo() *mockRepo {
	return &mockRepo{providers: make(map[uuid.UUID]*Provider)}
}

func (m *mockRepo) Create(_ context.Context, p *Provider) error {
	p.ID = uuid.New()
	m.providers[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	return p, nil
}

func (m *mockRepo) Update(_ context.Context, p *Provider) error {
	if _, ok := m.providers[p.ID]; !ok {
		return apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	m.providers[p.ID] = p
	return nil
}

func (m *mockRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := m.providers[id]
	if !ok {
		return apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	p.Active = false
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Provider, int, error) {
	var items []*Provider
	for _, p := range m.providers {
		items = append(items, p)
	}
	return items, len(items), nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Provider{})
	if !apperr.Is(err, apperr.KindMissingField) {
		t.Fatalf("expected missing_field, got %v", err)
	}
}

func TestCreate_SetsActive(t *testing.T) {
	svc := NewService(newMockRepo())
	p := &Provider{Name: "Dana"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatal(err)
	}
	if !p.Active {
		t.Error("new providers should be active")
	}
	if p.ID == uuid.Nil {
		t.Error("create should assign an id")
	}
}

func TestDeactivate(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	p := &Provider{Name: "Dana"}
	_ = svc.Create(context.Background(), p)

	if err := svc.Deactivate(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(context.Background(), p.ID)
	if got.Active {
		t.Error("provider should be inactive after deactivate")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	_, err := svc.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindProviderNotFound) {
		t.Fatalf("expected provider_not_found, got %v", err)
	}
}

func TestOffers(t *testing.T) {
	s1, s2 := uuid.New(), uuid.New()
	p := &Provider{ServiceIDs: []uuid.UUID{s1}}
	if !p.Offers(s1) {
		t.Error("expected provider to offer s1")
	}
	if p.Offers(s2) {
		t.Error("provider must not offer s2")
	}
}
