package activity

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRecorder keeps entries in memory. Used in tests and as a fallback
// when the server runs without a database-backed activity log.
type MemoryRecorder struct {
	mu      sync.Mutex
	entries []*Entry
}

func NewMemoryRecorder() *MemoryRecorder { return &MemoryRecorder{} }

func (m *MemoryRecorder) Record(_ context.Context, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = uuid.New()
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	cp := *e
	m.entries = append(m.entries, &cp)
	return nil
}

func (m *MemoryRecorder) ListByAppointment(_ context.Context, appointmentID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []*Entry
	for _, e := range m.entries {
		if e.AppointmentID == appointmentID {
			matched = append(matched, e)
		}
	}
	return page(matched, limit, offset)
}

func (m *MemoryRecorder) ListRecent(_ context.Context, limit, offset int) ([]*Entry, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*Entry, len(m.entries))
	copy(all, m.entries)
	return page(all, limit, offset)
}

func page(items []*Entry, limit, offset int) ([]*Entry, int, error) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecordedAt.After(items[j].RecordedAt)
	})
	total := len(items)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return items[offset:end], total, nil
}
