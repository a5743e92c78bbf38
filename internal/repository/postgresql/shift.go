package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

// GetByID implements shift.Repository.
func (r *shiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_time::text, standard_minutes, created_at, updated_at
		FROM shifts
		WHERE id = $1 AND company_id = $2
	`

	var s shift.Shift
	var startTime string
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&s.ID, &s.CompanyID, &s.Name, &startTime, &s.StandardMinutes,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift by ID: %w", err)
	}

	s.StartTime, err = time.Parse("15:04:05", startTime)
	if err != nil {
		return shift.Shift{}, fmt.Errorf("failed to parse shift start time %q: %w", startTime, err)
	}

	return s, nil
}
