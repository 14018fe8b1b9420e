package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookline/bookline/internal/domain/availability"
	"github.com/bookline/bookline/internal/platform/db"
	"github.com/bookline/bookline/pkg/apperr"
	"github.com/bookline/bookline/pkg/timeutil"
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

const apptCols = `id, client_id, provider_id, service_id, date, start_time,
	duration_minutes, status, notes, cancel_reason, calendar_ref, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.ClientID, &a.ProviderID, &a.ServiceID, &a.Date, &a.Start,
		&a.DurationMinutes, &a.Status, &a.Notes, &a.CancelReason, &a.CalendarRef,
		&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "appointment not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &a, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointment (id, client_id, provider_id, service_id, date, start_time,
			duration_minutes, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at, updated_at`,
		a.ID, a.ClientID, a.ProviderID, a.ServiceID, a.Date, a.Start,
		a.DurationMinutes, a.Status, a.Notes).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+apptCols+` FROM appointment WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET client_id=$2, provider_id=$3, service_id=$4, date=$5,
			start_time=$6, duration_minutes=$7, status=$8, notes=$9, cancel_reason=$10,
			calendar_ref=$11, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.ClientID, a.ProviderID, a.ServiceID, a.Date, a.Start,
		a.DurationMinutes, a.Status, a.Notes, a.CancelReason, a.CalendarRef)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "appointment not found")
	}
	return nil
}

func (r *repoPG) ListByProviderDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE provider_id = $1 AND date = $2 ORDER BY start_time`,
		providerID, date)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointment WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+apptCols+` FROM appointment
		WHERE client_id = $1 ORDER BY date DESC, start_time DESC LIMIT $2 OFFSET $3`,
		clientID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	items, err := r.collect(rows)
	return items, total, err
}

func (r *repoPG) ActiveIntervals(ctx context.Context, providerID uuid.UUID, date time.Time, exclude uuid.UUID) ([]availability.BookedInterval, error) {
	active := ActiveStatuses()
	statuses := make([]string, len(active))
	for i, s := range active {
		statuses[i] = string(s)
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT id, start_time, duration_minutes FROM appointment
		WHERE provider_id = $1 AND date = $2 AND status = ANY($3)`,
		providerID, date, statuses)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()

	var out []availability.BookedInterval
	for rows.Next() {
		var id uuid.UUID
		var start string
		var duration int
		if err := rows.Scan(&id, &start, &duration); err != nil {
			return nil, apperr.Storage(err)
		}
		if exclude != uuid.Nil && id == exclude {
			continue
		}
		startMin, err := timeutil.ParseClock(start)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidRule, err, "stored appointment %s has a bad start time", id)
		}
		out = append(out, availability.BookedInterval{Start: startMin, End: startMin + duration})
	}
	return out, rows.Err()
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Appointment, error) {
	var items []*Appointment
	for rows.Next() {
		a, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
