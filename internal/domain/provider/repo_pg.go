package provider

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

const providerCols = `id, name, email, phone, active, service_ids, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Provider, error) {
	var p Provider
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Active, &p.ServiceIDs,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *Provider) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO provider (id, name, email, phone, active, service_ids)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Email, p.Phone, p.Active, p.ServiceIDs)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+providerCols+` FROM provider WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Provider) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE provider SET name=$2, email=$3, phone=$4, active=$5, service_ids=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Email, p.Phone, p.Active, p.ServiceIDs)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	return nil
}

func (r *repoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `UPDATE provider SET active=false, updated_at=NOW() WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindProviderNotFound, "provider not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Provider, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM provider`).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+providerCols+` FROM provider ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*Provider
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
