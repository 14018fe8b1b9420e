package provider

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, p *Provider) error {
	if p.Name == "" {
		return apperr.New(apperr.KindMissingField, "name is required")
	}
	p.Active = true
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Provider) error {
	if p.Name == "" {
		return apperr.New(apperr.KindMissingField, "name is required")
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	return s.repo.List(ctx, limit, offset)
}
