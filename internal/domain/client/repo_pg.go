package client

import (
	"context"
	"errors"
	"time"

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

const clientCols = `id, name, email, phone, notes, first_visit, last_visit, no_show_count, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Client, error) {
	var cl Client
	err := row.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Notes,
		&cl.FirstVisit, &cl.LastVisit, &cl.NoShowCount, &cl.CreatedAt, &cl.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "client not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &cl, nil
}

func (r *repoPG) Create(ctx context.Context, cl *Client) error {
	cl.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO client (id, name, email, phone, notes)
		VALUES ($1,$2,$3,$4,$5)`,
		cl.ID, cl.Name, cl.Email, cl.Phone, cl.Notes)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+clientCols+` FROM client WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, cl *Client) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE client SET name=$2, email=$3, phone=$4, notes=$5, updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.Name, cl.Email, cl.Phone, cl.Notes)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "client not found")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Client, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM client`).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+clientCols+` FROM client ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*Client
	for rows.Next() {
		cl, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, rows.Err()
}

func (r *repoPG) RecordFirstVisit(ctx context.Context, id uuid.UUID, date time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE client SET first_visit = $2, updated_at = NOW()
		WHERE id = $1 AND first_visit IS NULL`, id, date)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) RecordLastVisit(ctx context.Context, id uuid.UUID, date time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE client SET last_visit = $2, updated_at = NOW() WHERE id = $1`, id, date)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) IncrementNoShow(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE client SET no_show_count = no_show_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}
