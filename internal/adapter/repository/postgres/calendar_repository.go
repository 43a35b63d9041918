package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/tourpad/scheduler/internal/core/domain"
)

// CalendarRepository stores one row per resource and one per reserved
// window. Window bounds are epoch milliseconds so range predicates compare
// plain integers.
type CalendarRepository struct {
	db *sql.DB
}

func NewCalendarRepository(db *sql.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *CalendarRepository) Create(ctx context.Context, cal *domain.ResourceCalendar) error {
	query := `
	INSERT INTO resources (id, owner_id, time_zone, hold_ttl_ms, waitlist_max, version)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		cal.ResourceID,
		cal.OwnerID,
		cal.TimeZone,
		cal.Policy.HoldTTL.Milliseconds(),
		cal.Policy.WaitlistMax,
		cal.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.Error{Code: domain.CodeDuplicateID, Message: "resource " + cal.ResourceID.String() + " already registered"}
		}
		return fmt.Errorf("failed to insert resource: %w", err)
	}

	cal.MarkClean()
	return nil
}

func (r *CalendarRepository) Load(ctx context.Context, resourceID uuid.UUID) (*domain.ResourceCalendar, error) {
	query := `
	SELECT owner_id, time_zone, hold_ttl_ms, waitlist_max, active_profile_id, version
	FROM resources
	WHERE id = $1
	`

	var (
		ownerID       uuid.UUID
		timeZone      string
		holdTTLMillis int64
		waitlistMax   int
		activeProfile uuid.NullUUID
		version       int
	)
	err := r.db.QueryRowContext(ctx, query, resourceID).Scan(
		&ownerID,
		&timeZone,
		&holdTTLMillis,
		&waitlistMax,
		&activeProfile,
		&version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("resource", resourceID)
		}
		return nil, err
	}

	policy := domain.Policy{
		HoldTTL:     time.Duration(holdTTLMillis) * time.Millisecond,
		WaitlistMax: waitlistMax,
	}
	cal := domain.NewResourceCalendar(resourceID, ownerID, timeZone, policy)
	cal.Version = version

	if activeProfile.Valid {
		profile, err := NewProfileRepository(r.db).GetByID(ctx, activeProfile.UUID)
		if err != nil {
			return nil, fmt.Errorf("failed to load active profile: %w", err)
		}
		cal.Profile = profile
	}

	windows, err := r.loadWindows(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	if err := cal.Restore(windows); err != nil {
		return nil, err
	}
	return cal, nil
}

func (r *CalendarRepository) loadWindows(ctx context.Context, resourceID uuid.UUID) ([]domain.ReservedWindow, error) {
	query := `
	SELECT w.id, w.holder_id, w.start_ms, w.end_ms, w.status, w.requested_capacity, w.beds,
		w.seq, w.submitted_at, w.expires_at, w.cancel_reason, w.cancelled_at,
		p.id, p.resource_id, p.version, p.max_occupancy, p.bed_configuration,
		p.base_rate, p.additional_guest_fee, p.cleaning_fee, p.created_at
	FROM reserved_windows w
	JOIN capacity_profiles p ON p.id = w.profile_id
	WHERE w.resource_id = $1
	ORDER BY w.seq
	`

	rows, err := r.db.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var windows []domain.ReservedWindow
	for rows.Next() {
		var (
			w           domain.ReservedWindow
			startMs     int64
			endMs       int64
			beds        []byte
			expiresAt   sql.NullTime
			cancelledAt sql.NullTime
		)
		profile, err := scanProfile(rows,
			&w.ID,
			&w.HolderID,
			&startMs,
			&endMs,
			&w.Status,
			&w.RequestedCapacity,
			&beds,
			&w.Seq,
			&w.SubmittedAt,
			&expiresAt,
			&w.CancelReason,
			&cancelledAt,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(beds, &w.Beds); err != nil {
			return nil, fmt.Errorf("decode beds of window %s: %w", w.ID, err)
		}
		w.ResourceID = resourceID
		w.Start = time.UnixMilli(startMs).UTC()
		w.End = time.UnixMilli(endMs).UTC()
		w.SubmittedAt = w.SubmittedAt.UTC()
		w.Profile = *profile
		if expiresAt.Valid {
			t := expiresAt.Time.UTC()
			w.ExpiresAt = &t
		}
		if cancelledAt.Valid {
			t := cancelledAt.Time.UTC()
			w.CancelledAt = &t
		}

		windows = append(windows, w)
	}

	return windows, rows.Err()
}

// Save bumps the resource version and upserts every changed window in one
// transaction. A version mismatch means another writer got there first.
func (r *CalendarRepository) Save(ctx context.Context, cal *domain.ResourceCalendar) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE resources SET version = version + 1 WHERE id = $1 AND version = $2`,
		cal.ResourceID, cal.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to bump calendar version: %w", err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrConcurrentModification
	}

	query := `
	INSERT INTO reserved_windows (
		id, resource_id, holder_id, start_ms, end_ms, status, requested_capacity, beds,
		profile_id, seq, submitted_at, expires_at, cancel_reason, cancelled_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		status = EXCLUDED.status,
		expires_at = EXCLUDED.expires_at,
		cancel_reason = EXCLUDED.cancel_reason,
		cancelled_at = EXCLUDED.cancelled_at
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare window statement: %w", err)
	}

	defer stmt.Close()

	for _, w := range cal.Changed() {
		beds, err := json.Marshal(w.Beds)
		if err != nil {
			return fmt.Errorf("encode beds of window %s: %w", w.ID, err)
		}
		if w.Beds == nil {
			beds = []byte("[]")
		}

		_, err = stmt.ExecContext(ctx,
			w.ID,
			cal.ResourceID,
			w.HolderID,
			w.Start.UnixMilli(),
			w.End.UnixMilli(),
			w.Status,
			w.RequestedCapacity,
			beds,
			w.Profile.ID,
			w.Seq,
			w.SubmittedAt,
			w.ExpiresAt,
			w.CancelReason,
			w.CancelledAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert window %s: %w", w.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	cal.Version++
	cal.MarkClean()
	return nil
}

func (r *CalendarRepository) ResourceForWindow(ctx context.Context, windowID uuid.UUID) (uuid.UUID, error) {
	var resourceID uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`SELECT resource_id FROM reserved_windows WHERE id = $1`, windowID,
	).Scan(&resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, domain.NotFoundError("window", windowID)
		}
		return uuid.Nil, err
	}
	return resourceID, nil
}

func (r *CalendarRepository) OverdueHolds(ctx context.Context, now time.Time, limit int) ([]uuid.UUID, error) {
	query := `
	SELECT id FROM reserved_windows
	WHERE status = 'PENDING' AND expires_at <= $1
	ORDER BY expires_at
	LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, now.UTC(), limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}
