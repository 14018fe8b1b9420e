package activity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookline/bookline/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type recorderPG struct{ pool *pgxpool.Pool }

func NewRecorderPG(pool *pgxpool.Pool) Recorder { return &recorderPG{pool: pool} }

func (r *recorderPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const entryCols = `id, appointment_id, provider_id, client_id, action,
	from_status, to_status, actor, detail, recorded_at`

func (r *recorderPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.AppointmentID, &e.ProviderID, &e.ClientID, &e.Action,
		&e.FromStatus, &e.ToStatus, &e.Actor, &e.Detail, &e.RecordedAt)
	return &e, err
}

func (r *recorderPG) Record(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO activity_log (id, appointment_id, provider_id, client_id,
			action, from_status, to_status, actor, detail)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING recorded_at`,
		e.ID, e.AppointmentID, e.ProviderID, e.ClientID,
		e.Action, e.FromStatus, e.ToStatus, e.Actor, e.Detail).Scan(&e.RecordedAt)
}

func (r *recorderPG) ListByAppointment(ctx context.Context, appointmentID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM activity_log WHERE appointment_id = $1`, appointmentID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+entryCols+` FROM activity_log WHERE appointment_id = $1 ORDER BY recorded_at DESC LIMIT $2 OFFSET $3`,
		appointmentID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *recorderPG) ListRecent(ctx context.Context, limit, offset int) ([]*Entry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM activity_log`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+entryCols+` FROM activity_log ORDER BY recorded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *recorderPG) collect(rows pgx.Rows, total int) ([]*Entry, int, error) {
	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
