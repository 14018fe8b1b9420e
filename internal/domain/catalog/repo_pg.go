package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookline/bookline/internal/platform/db"
	"github.com/bookline/bookline/pkg/apperr"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const serviceCols = `id, name, description, duration_options, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*ServiceType, error) {
	var s ServiceType
	err := row.Scan(&s.ID, &s.Name, &s.Description, &s.DurationOptions, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "service not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *ServiceType) error {
	s.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO service_type (id, name, description, duration_options)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.Name, s.Description, s.DurationOptions)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceType, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+serviceCols+` FROM service_type WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, s *ServiceType) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE service_type SET name=$2, description=$3, duration_options=$4, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Description, s.DurationOptions)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "service not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*ServiceType, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM service_type`).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+serviceCols+` FROM service_type ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*ServiceType
	for rows.Next() {
		s, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}
