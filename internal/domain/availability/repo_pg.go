package availability

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== Recurring Rules ===========

type ruleRepoPG struct{ pool *pgxpool.Pool }

func NewRuleRepoPG(pool *pgxpool.Pool) RuleRepository { return &ruleRepoPG{pool: pool} }

const ruleCols = `id, provider_id, weekday, start_time, end_time, recurring,
	effective_from, effective_until, created_at, updated_at`

func scanRule(row pgx.Row) (*RecurringRule, error) {
	var r RecurringRule
	err := row.Scan(&r.ID, &r.ProviderID, &r.Weekday, &r.Start, &r.End, &r.Recurring,
		&r.EffectiveFrom, &r.EffectiveUntil, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "availability rule not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &r, nil
}

func (p *ruleRepoPG) Create(ctx context.Context, r *RecurringRule) error {
	r.ID = uuid.New()
	_, err := conn(ctx, p.pool).Exec(ctx, `
		INSERT INTO recurring_rule (id, provider_id, weekday, start_time, end_time,
			recurring, effective_from, effective_until)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.ProviderID, r.Weekday, r.Start, r.End, r.Recurring,
		r.EffectiveFrom, r.EffectiveUntil)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (p *ruleRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*RecurringRule, error) {
	return scanRule(conn(ctx, p.pool).QueryRow(ctx, `SELECT `+ruleCols+` FROM recurring_rule WHERE id = $1`, id))
}

func (p *ruleRepoPG) Update(ctx context.Context, r *RecurringRule) error {
	tag, err := conn(ctx, p.pool).Exec(ctx, `
		UPDATE recurring_rule SET weekday=$2, start_time=$3, end_time=$4, recurring=$5,
			effective_from=$6, effective_until=$7, updated_at=NOW()
		WHERE id = $1`,
		r.ID, r.Weekday, r.Start, r.End, r.Recurring, r.EffectiveFrom, r.EffectiveUntil)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "availability rule not found")
	}
	return nil
}

func (p *ruleRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, p.pool).Exec(ctx, `DELETE FROM recurring_rule WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "availability rule not found")
	}
	return nil
}

func (p *ruleRepoPG) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*RecurringRule, int, error) {
	var total int
	if err := conn(ctx, p.pool).QueryRow(ctx, `SELECT COUNT(*) FROM recurring_rule WHERE provider_id = $1`, providerID).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT `+ruleCols+` FROM recurring_rule
		WHERE provider_id = $1 ORDER BY weekday, start_time LIMIT $2 OFFSET $3`,
		providerID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*RecurringRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, r)
	}
	return items, total, rows.Err()
}

func (p *ruleRepoPG) ListForWeekday(ctx context.Context, providerID uuid.UUID, weekday int) ([]*RecurringRule, error) {
	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT `+ruleCols+` FROM recurring_rule
		WHERE provider_id = $1 AND weekday = $2 ORDER BY start_time`,
		providerID, weekday)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*RecurringRule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// =========== Exceptions ===========

type exceptionRepoPG struct{ pool *pgxpool.Pool }

func NewExceptionRepoPG(pool *pgxpool.Pool) ExceptionRepository { return &exceptionRepoPG{pool: pool} }

const exceptionCols = `id, provider_id, date, start_time, end_time, reason, created_at`

func scanException(row pgx.Row) (*Exception, error) {
	var e Exception
	err := row.Scan(&e.ID, &e.ProviderID, &e.Date, &e.Start, &e.End, &e.Reason, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.New(apperr.KindNotFound, "exception not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return &e, nil
}

func (p *exceptionRepoPG) Create(ctx context.Context, e *Exception) error {
	e.ID = uuid.New()
	_, err := conn(ctx, p.pool).Exec(ctx, `
		INSERT INTO availability_exception (id, provider_id, date, start_time, end_time, reason)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.ProviderID, e.Date, e.Start, e.End, e.Reason)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (p *exceptionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, p.pool).Exec(ctx, `DELETE FROM availability_exception WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "exception not found")
	}
	return nil
}

func (p *exceptionRepoPG) ListForDate(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Exception, error) {
	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT `+exceptionCols+` FROM availability_exception
		WHERE date = $1 AND (provider_id = $2 OR provider_id IS NULL)
		ORDER BY start_time NULLS FIRST`,
		date, providerID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*Exception
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (p *exceptionRepoPG) ListByProvider(ctx context.Context, providerID uuid.UUID, limit, offset int) ([]*Exception, int, error) {
	var total int
	if err := conn(ctx, p.pool).QueryRow(ctx, `SELECT COUNT(*) FROM availability_exception
		WHERE provider_id = $1 OR provider_id IS NULL`, providerID).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT `+exceptionCols+` FROM availability_exception
		WHERE provider_id = $1 OR provider_id IS NULL
		ORDER BY date DESC LIMIT $2 OFFSET $3`,
		providerID, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*Exception
	for rows.Next() {
		e, err := scanException(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

// =========== Holidays ===========

type holidayRepoPG struct{ pool *pgxpool.Pool }

func NewHolidayRepoPG(pool *pgxpool.Pool) HolidayRepository { return &holidayRepoPG{pool: pool} }

func (p *holidayRepoPG) Create(ctx context.Context, h *Holiday) error {
	h.ID = uuid.New()
	_, err := conn(ctx, p.pool).Exec(ctx, `
		INSERT INTO business_holiday (id, date, name) VALUES ($1,$2,$3)`,
		h.ID, h.Date, h.Name)
	if err != nil {
		return apperr.Storage(err)
	}
	return nil
}

func (p *holidayRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, p.pool).Exec(ctx, `DELETE FROM business_holiday WHERE id = $1`, id)
	if err != nil {
		return apperr.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, "holiday not found")
	}
	return nil
}

func (p *holidayRepoPG) ExistsOn(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	err := conn(ctx, p.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM business_holiday WHERE date = $1)`, date).Scan(&exists)
	if err != nil {
		return false, apperr.Storage(err)
	}
	return exists, nil
}

func (p *holidayRepoPG) List(ctx context.Context, limit, offset int) ([]*Holiday, int, error) {
	var total int
	if err := conn(ctx, p.pool).QueryRow(ctx, `SELECT COUNT(*) FROM business_holiday`).Scan(&total); err != nil {
		return nil, 0, apperr.Storage(err)
	}
	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT id, date, name, created_at FROM business_holiday
		ORDER BY date LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, apperr.Storage(err)
	}
	defer rows.Close()
	var items []*Holiday
	for rows.Next() {
		var h Holiday
		if err := rows.Scan(&h.ID, &h.Date, &h.Name, &h.CreatedAt); err != nil {
			return nil, 0, apperr.Storage(err)
		}
		items = append(items, &h)
	}
	return items, total, rows.Err()
}
