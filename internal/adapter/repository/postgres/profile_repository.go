package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tourpad/scheduler/internal/core/domain"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `id, resource_id, version, max_occupancy, bed_configuration, base_rate, additional_guest_fee, cleaning_fee, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProfile reads the columns listed in profileColumns, in order, after
// any leading destinations the caller passes in.
func scanProfile(row rowScanner, lead ...any) (*domain.CapacityProfile, error) {
	var p domain.CapacityProfile
	var beds []byte

	dest := append(lead,
		&p.ID,
		&p.ResourceID,
		&p.Version,
		&p.MaxOccupancy,
		&beds,
		&p.BaseRate,
		&p.AdditionalGuestFee,
		&p.CleaningFee,
		&p.CreatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(beds, &p.BedConfiguration); err != nil {
		return nil, fmt.Errorf("decode bed configuration: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, profileID uuid.UUID) (*domain.CapacityProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM capacity_profiles WHERE id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError("capacity profile", profileID)
		}
		return nil, err
	}
	return p, nil
}

// Create stores the profile as the resource's next version and activates it.
func (r *ProfileRepository) Create(ctx context.Context, profile *domain.CapacityProfile) error {
	beds, err := json.Marshal(profile.BedConfiguration)
	if err != nil {
		return fmt.Errorf("encode bed configuration: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer tx.Rollback()

	var locked int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM resources WHERE id = $1 FOR UPDATE`, profile.ResourceID).Scan(&locked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundError("resource", profile.ResourceID)
		}
		return fmt.Errorf("failed to lock resource: %w", err)
	}

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM capacity_profiles WHERE resource_id = $1`,
		profile.ResourceID,
	).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to compute profile version: %w", err)
	}

	query := `
	INSERT INTO capacity_profiles (` + profileColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, query,
		profile.ID,
		profile.ResourceID,
		version,
		profile.MaxOccupancy,
		beds,
		profile.BaseRate,
		profile.AdditionalGuestFee,
		profile.CleaningFee,
		profile.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.Error{Code: domain.CodeDuplicateID, Message: "profile " + profile.ID.String() + " already exists"}
		}
		return fmt.Errorf("failed to insert profile: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE resources SET active_profile_id = $1 WHERE id = $2`, profile.ID, profile.ResourceID)
	if err != nil {
		return fmt.Errorf("failed to activate profile: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	profile.Version = version
	return nil
}
