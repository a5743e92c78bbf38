package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

const breakColumns = `
	b.id, b.record_id, b.break_type, b.start_at, b.end_at,
	b.duration_minutes, b.is_exceeding, b.exceeded_minutes,
	b.approval_status, b.approved_by, b.created_at, b.updated_at`

func scanBreak(row pgx.Row) (attendance.Break, error) {
	var brk attendance.Break
	err := row.Scan(
		&brk.ID, &brk.RecordID, &brk.Type, &brk.StartAt, &brk.EndAt,
		&brk.DurationMinutes, &brk.IsExceeding, &brk.ExceededMinutes,
		&brk.ApprovalStatus, &brk.ApprovedBy, &brk.CreatedAt, &brk.UpdatedAt,
	)
	if err != nil {
		return attendance.Break{}, err
	}
	return brk, nil
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, brk attendance.Break) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	brk.ID = uuid.NewString()

	query := `
		INSERT INTO break_records (id, record_id, break_type, start_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query, brk.ID, brk.RecordID, brk.Type, brk.StartAt).
		Scan(&brk.CreatedAt, &brk.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "break_records_one_open_key") {
			return attendance.Break{}, attendance.ErrBreakAlreadyOpen
		}
		return attendance.Break{}, fmt.Errorf("failed to create break record: %w", err)
	}

	return brk, nil
}

// GetByID implements attendance.BreakRepository.
func (r *breakRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_records b
		JOIN attendance_records a ON a.id = b.record_id
		WHERE b.id = $1 AND a.company_id = $2 AND a.deleted_at IS NULL
	`

	brk, err := scanBreak(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Break{}, attendance.ErrBreakNotFound
		}
		return attendance.Break{}, fmt.Errorf("failed to get break record by ID: %w", err)
	}

	return brk, nil
}

// GetOpenByRecord implements attendance.BreakRepository.
func (r *breakRepository) GetOpenByRecord(ctx context.Context, recordID string) (*attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_records b
		WHERE b.record_id = $1 AND b.end_at IS NULL
		LIMIT 1
	`

	brk, err := scanBreak(q.QueryRow(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No open break
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}

	return &brk, nil
}

// Close implements attendance.BreakRepository.
func (r *breakRepository) Close(ctx context.Context, brk attendance.Break) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_records
		SET end_at = $1,
			duration_minutes = $2,
			is_exceeding = $3,
			exceeded_minutes = $4,
			approval_status = $5,
			updated_at = $6
		WHERE id = $7 AND end_at IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		brk.EndAt,
		brk.DurationMinutes,
		brk.IsExceeding,
		brk.ExceededMinutes,
		brk.ApprovalStatus,
		time.Now(),
		brk.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Only the open row matches; a concurrent end already closed it.
			return attendance.ErrBreakAlreadyClosed
		}
		return fmt.Errorf("failed to close break record: %w", err)
	}

	return nil
}

// UpdateDecision implements attendance.BreakRepository.
func (r *breakRepository) UpdateDecision(ctx context.Context, brk attendance.Break) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_records
		SET approval_status = $1,
			approved_by = $2,
			updated_at = $3
		WHERE id = $4 AND approval_status = 'pending'
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		brk.ApprovalStatus,
		brk.ApprovedBy,
		time.Now(),
		brk.ID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Only the pending row matches; losing the race returns no rows.
			return attendance.ErrBreakAlreadyDecided
		}
		return fmt.Errorf("failed to update break decision: %w", err)
	}

	return nil
}

// ListByRecord implements attendance.BreakRepository.
func (r *breakRepository) ListByRecord(ctx context.Context, recordID string) ([]attendance.Break, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + breakColumns + `
		FROM break_records b
		WHERE b.record_id = $1
		ORDER BY b.start_at ASC
	`

	rows, err := q.Query(ctx, query, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to query break records: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.Break
	for rows.Next() {
		brk, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break record: %w", err)
		}
		breaks = append(breaks, brk)
	}

	return breaks, nil
}

// SumClosedMinutes implements attendance.BreakRepository.
func (r *breakRepository) SumClosedMinutes(ctx context.Context, recordID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(duration_minutes), 0)
		FROM break_records
		WHERE record_id = $1 AND end_at IS NOT NULL
	`

	var total int
	if err := q.QueryRow(ctx, query, recordID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum break durations: %w", err)
	}

	return total, nil
}
