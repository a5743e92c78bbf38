package postgresql

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakRepository_Create_MapsOpenBreakConflict(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	startAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO break_records").
		WithArgs(pgxmock.AnyArg(), "rec-1", attendance.BreakTypeMeal, startAt).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "break_records_one_open_key",
		})

	_, err := repo.Create(ctx, attendance.Break{
		RecordID: "rec-1",
		Type:     attendance.BreakTypeMeal,
		StartAt:  startAt,
	})

	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepository_Close_AlreadyClosed(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	// Only the open row matches; a concurrent end returns no rows.
	mock.ExpectQuery("UPDATE break_records").
		WithArgs(anyArgs(7)...).
		WillReturnError(pgx.ErrNoRows)

	endAt := time.Date(2025, 3, 10, 12, 45, 0, 0, time.UTC)
	duration := 45
	err := repo.Close(ctx, attendance.Break{
		ID:              "brk-1",
		EndAt:           &endAt,
		DurationMinutes: &duration,
	})

	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyClosed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepository_UpdateDecision_AlreadyDecided(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	// Only the pending row matches; losing a decision race returns no rows.
	mock.ExpectQuery("UPDATE break_records").
		WithArgs(anyArgs(4)...).
		WillReturnError(pgx.ErrNoRows)

	approved := attendance.ApprovalApproved
	approver := "mgr-1"
	err := repo.UpdateDecision(ctx, attendance.Break{
		ID:             "brk-1",
		ApprovalStatus: &approved,
		ApprovedBy:     &approver,
	})

	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyDecided)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepository_GetOpenByRecord_NoneOpen(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	mock.ExpectQuery("end_at IS NULL").
		WithArgs("rec-1").
		WillReturnError(pgx.ErrNoRows)

	brk, err := repo.GetOpenByRecord(ctx, "rec-1")

	require.NoError(t, err)
	assert.Nil(t, brk)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepository_SumClosedMinutes(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(duration_minutes\), 0\)`).
		WithArgs("rec-1").
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(75))

	total, err := repo.SumClosedMinutes(ctx, "rec-1")

	require.NoError(t, err)
	assert.Equal(t, 75, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBreakRepository_GetByID_ScopedToCompany(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewBreakRepository(nil)

	mock.ExpectQuery("JOIN attendance_records a ON a.id = b.record_id").
		WithArgs("brk-1", "other-company").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(ctx, "brk-1", "other-company")

	assert.ErrorIs(t, err, attendance.ErrBreakNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
