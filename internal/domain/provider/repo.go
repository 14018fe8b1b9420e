package provider

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*Provider, error)
	Update(ctx context.Context, p *Provider) error
	// Deactivate flips the active flag. Providers referenced by
	// appointments are never deleted.
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Provider, int, error)
}
