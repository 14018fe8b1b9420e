package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, cl *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	Update(ctx context.Context, cl *Client) error
	List(ctx context.Context, limit, offset int) ([]*Client, int, error)

	// History hooks invoked by appointment lifecycle transitions.
	RecordFirstVisit(ctx context.Context, id uuid.UUID, date time.Time) error
	RecordLastVisit(ctx context.Context, id uuid.UUID, date time.Time) error
	IncrementNoShow(ctx context.Context, id uuid.UUID) error
}
