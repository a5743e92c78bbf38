package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type correctionRepository struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.Repository {
	return &correctionRepository{db: db}
}

const correctionColumns = `
	c.id, c.record_id, c.company_id, c.requested_by,
	c.proposed_check_in, c.proposed_check_out, c.reason, c.status,
	c.decided_by, c.decided_at, c.comments, c.created_at, c.updated_at`

func scanCorrection(row pgx.Row) (correction.Correction, error) {
	var corr correction.Correction
	err := row.Scan(
		&corr.ID, &corr.RecordID, &corr.CompanyID, &corr.RequestedBy,
		&corr.ProposedCheckIn, &corr.ProposedCheckOut, &corr.Reason, &corr.Status,
		&corr.DecidedBy, &corr.DecidedAt, &corr.Comments, &corr.CreatedAt, &corr.UpdatedAt,
	)
	if err != nil {
		return correction.Correction{}, err
	}
	return corr, nil
}

// Create implements correction.Repository.
func (r *correctionRepository) Create(ctx context.Context, corr correction.Correction) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	corr.ID = uuid.NewString()

	query := `
		INSERT INTO attendance_corrections (
			id, record_id, company_id, requested_by,
			proposed_check_in, proposed_check_out, reason, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		corr.ID,
		corr.RecordID,
		corr.CompanyID,
		corr.RequestedBy,
		corr.ProposedCheckIn,
		corr.ProposedCheckOut,
		corr.Reason,
		corr.Status,
	).Scan(&corr.CreatedAt, &corr.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "attendance_corrections_one_pending_key") {
			return correction.Correction{}, correction.ErrCorrectionAlreadyPending
		}
		return correction.Correction{}, fmt.Errorf("failed to create correction: %w", err)
	}

	return corr, nil
}

// GetByID implements correction.Repository.
func (r *correctionRepository) GetByID(ctx context.Context, id string, companyID string) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM attendance_corrections c
		WHERE c.id = $1 AND c.company_id = $2
	`

	corr, err := scanCorrection(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Correction{}, correction.ErrCorrectionNotFound
		}
		return correction.Correction{}, fmt.Errorf("failed to get correction by ID: %w", err)
	}

	return corr, nil
}

// GetByIDForUpdate implements correction.Repository.
func (r *correctionRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM attendance_corrections c
		WHERE c.id = $1 AND c.company_id = $2
		FOR UPDATE OF c
	`

	corr, err := scanCorrection(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.Correction{}, correction.ErrCorrectionNotFound
		}
		return correction.Correction{}, fmt.Errorf("failed to lock correction: %w", err)
	}

	return corr, nil
}

// UpdateDecision implements correction.Repository.
func (r *correctionRepository) UpdateDecision(ctx context.Context, corr correction.Correction) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_corrections
		SET status = $1,
			decided_by = $2,
			decided_at = $3,
			comments = $4,
			updated_at = $5
		WHERE id = $6 AND company_id = $7 AND status = 'pending'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		corr.Status,
		corr.DecidedBy,
		corr.DecidedAt,
		corr.Comments,
		time.Now(),
		corr.ID,
		corr.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row exists but is no longer pending, or does not exist at all.
			// The service has already fetched and checked it under lock, so a
			// miss here means the terminal state was reached by someone else.
			return correction.ErrAlreadyDecided
		}
		return fmt.Errorf("failed to update correction decision: %w", err)
	}

	return nil
}

// ListByRecord implements correction.Repository.
func (r *correctionRepository) ListByRecord(ctx context.Context, recordID string, companyID string) ([]correction.Correction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM attendance_corrections c
		WHERE c.record_id = $1 AND c.company_id = $2
		ORDER BY c.created_at DESC
	`

	rows, err := q.Query(ctx, query, recordID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer rows.Close()

	var corrections []correction.Correction
	for rows.Next() {
		corr, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, corr)
	}

	return corrections, nil
}
