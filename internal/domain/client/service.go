package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookline/bookline/pkg/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service { return &Service{repo: repo} }

func (s *Service) Create(ctx context.Context, cl *Client) error {
	if cl.Name == "" {
		return apperr.New(apperr.KindMissingField, "name is required")
	}
	return s.repo.Create(ctx, cl)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, cl *Client) error {
	if cl.Name == "" {
		return apperr.New(apperr.KindMissingField, "name is required")
	}
	return s.repo.Update(ctx, cl)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	return s.repo.List(ctx, limit, offset)
}
