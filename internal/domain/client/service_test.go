package client

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
)

type mockRepo struct {
	clients map[uuid.UUID]*Client
}

func newMockRepo() *mockRepo {
	return &mockRepo{clients: make(map[uuid.UUID]*Client)}
}

func (m *mockRepo) Create(_ context.Context, cl *Client) error {
	cl.ID = uuid.New()
	m.clients[cl.ID] = cl
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Client, error) {
	cl, ok := m.clients[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "client not found")
	}
	return cl, nil
}

func (m *mockRepo) Update(_ context.Context, cl *Client) error {
	m.clients[cl.ID] = cl
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Client, int, error) {
	var items []*Client
	for _, cl := range m.clients {
		items = append(items, cl)
	}
	return items, len(items), nil
}

func (m *mockRepo) RecordFirstVisit(_ context.Context, id uuid.UUID, date time.Time) error {
	if cl, ok := m.clients[id]; ok && cl.FirstVisit == nil {
		cl.FirstVisit = &date
	}
	return nil
}

func (m *mockRepo) RecordLastVisit(_ context.Context, id uuid.UUID, date time.Time) error {
	if cl, ok := m.clients[id]; ok {
		cl.LastVisit = &date
	}
	return nil
}

func (m *mockRepo) IncrementNoShow(_ context.Context, id uuid.UUID) error {
	if cl, ok := m.clients[id]; ok {
		cl.NoShowCount++
	}
	return nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &Client{})
	if !apperr.Is(err, apperr.KindMissingField) {
		t.Fatalf("expected missing_field, got %v", err)
	}
}

func TestRecordFirstVisit_OnlyOnce(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	cl := &Client{Name: "Alex"}
	_ = svc.Create(context.Background(), cl)

	first := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	second := time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC)
	_ = repo.RecordFirstVisit(context.Background(), cl.ID, first)
	_ = repo.RecordFirstVisit(context.Background(), cl.ID, second)

	got, _ := svc.Get(context.Background(), cl.ID)
	if got.FirstVisit == nil || !got.FirstVisit.Equal(first) {
		t.Errorf("first visit must not be overwritten, got %v", got.FirstVisit)
	}
}

func TestIncrementNoShow(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	cl := &Client{Name: "Alex"}
	_ = svc.Create(context.Background(), cl)

	_ = repo.IncrementNoShow(context.Background(), cl.ID)
	got, _ := svc.Get(context.Background(), cl.ID)
	if got.NoShowCount != 1 {
		t.Errorf("expected no-show count 1, got %d", got.NoShowCount)
	}
}
