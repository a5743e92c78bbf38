package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestCorrectionRepository_Create_MapsPendingConflict(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewCorrectionRepository(nil)

	mock.ExpectQuery("INSERT INTO attendance_corrections").
		WithArgs(anyArgs(8)...).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "attendance_corrections_one_pending_key",
		})

	_, err := repo.Create(ctx, correction.Correction{
		RecordID:    "rec-1",
		CompanyID:   "comp-1",
		RequestedBy: "user-1",
		Reason:      "wrong clock",
		Status:      correction.StatusPending,
	})

	assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrectionRepository_UpdateDecision_AlreadyDecided(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewCorrectionRepository(nil)

	// Only the pending row matches; losing the race returns no rows.
	mock.ExpectQuery("UPDATE attendance_corrections").
		WithArgs(anyArgs(7)...).
		WillReturnError(pgx.ErrNoRows)

	decidedBy := "mgr-1"
	decidedAt := time.Date(2025, 3, 11, 10, 0, 0, 0, time.UTC)
	err := repo.UpdateDecision(ctx, correction.Correction{
		ID:        "corr-1",
		CompanyID: "comp-1",
		Status:    correction.StatusApproved,
		DecidedBy: &decidedBy,
		DecidedAt: &decidedAt,
	})

	assert.ErrorIs(t, err, correction.ErrAlreadyDecided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCorrectionRepository_GetByID_NotFound(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewCorrectionRepository(nil)

	mock.ExpectQuery("FROM attendance_corrections c").
		WithArgs("corr-404", "comp-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(ctx, "corr-404", "comp-1")

	assert.ErrorIs(t, err, correction.ErrCorrectionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
