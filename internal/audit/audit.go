// Package audit appends immutable audit entries for booking state changes.
// Recording is best effort by contract: callers log failures and move on,
// an audit problem never rolls back a booking transition.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Entry is one immutable audit record.
type Entry struct {
	ID        string
	BookingID string
	ActorID   string // Empty for system-attributed actions
	Action    string // e.g. "created", "approved", "bumped"
	Detail    string
	CreatedAt time.Time
}

// Recorder appends audit entries. Entries are never updated or deleted.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	ListByBooking(ctx context.Context, bookingID string) ([]*Entry, error)
}

type pgxRecorder struct {
	pool *pgxpool.Pool
}

func NewPgxRecorder(pool *pgxpool.Pool) Recorder {
	return &pgxRecorder{pool: pool}
}

func (r *pgxRecorder) Record(ctx context.Context, e *Entry) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.audit_entries").
		Columns("booking_id", "actor_id", "action", "detail").
		Values(e.BookingID, e.ActorID, e.Action, e.Detail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build record audit entry query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CreatedAt)
}

func (r *pgxRecorder) ListByBooking(ctx context.Context, bookingID string) ([]*Entry, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "booking_id", "actor_id", "action", "detail", "created_at").
		From("public.audit_entries").
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list audit entries query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries failed: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.BookingID, &e.ActorID, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry failed: %w", err)
		}
		entries = append(entries, &e)
	}

	return entries, nil
}
