package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockTxContext opens a mocked transaction and injects it into the context
// the way WithTransaction does, so repositories route queries to the mock.
func newMockTxContext(t *testing.T) (pgxmock.PgxPoolIface, context.Context) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	return mock, context.WithValue(context.Background(), "tx", tx)
}

// anyArgs builds a matcher list for statements whose exact bind values are not
// the subject of the test.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

// recordInsertArgs matches the 15 binds of the attendance record INSERT.
func recordInsertArgs() []interface{} {
	return anyArgs(15)
}

func TestRecordRepository_Create_MapsDuplicateDay(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewRecordRepository(nil)

	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(recordInsertArgs()...).
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			ConstraintName: "attendance_records_employee_date_key",
		})

	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, attendance.Record{
		EmployeeID: "emp-1",
		CompanyID:  "comp-1",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		CheckIn:    &checkIn,
		Status:     attendance.StatusPresent,
	})

	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetByEmployeeAndDate_NoRecord(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewRecordRepository(nil)

	mock.ExpectQuery("FROM attendance_records a").
		WithArgs("emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "comp-1").
		WillReturnError(pgx.ErrNoRows)

	rec, err := repo.GetByEmployeeAndDate(ctx, "emp-1", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), "comp-1")

	require.NoError(t, err)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_GetOpenByEmployee_NoneOpen(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewRecordRepository(nil)

	mock.ExpectQuery("check_out IS NULL").
		WithArgs("emp-1", "comp-1").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetOpenByEmployee(ctx, "emp-1", "comp-1")

	assert.ErrorIs(t, err, attendance.ErrNoOpenRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_SoftDelete(t *testing.T) {
	t.Run("deletes once", func(t *testing.T) {
		mock, ctx := newMockTxContext(t)
		repo := NewRecordRepository(nil)

		mock.ExpectExec("UPDATE attendance_records").
			WithArgs(pgxmock.AnyArg(), "rec-1", "comp-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.SoftDelete(ctx, "rec-1", "comp-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already deleted", func(t *testing.T) {
		mock, ctx := newMockTxContext(t)
		repo := NewRecordRepository(nil)

		mock.ExpectExec("UPDATE attendance_records").
			WithArgs(pgxmock.AnyArg(), "rec-1", "comp-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.SoftDelete(ctx, "rec-1", "comp-1")
		assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordRepository_Update_DeletedRecord(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewRecordRepository(nil)

	mock.ExpectQuery("UPDATE attendance_records").
		WithArgs(anyArgs(13)...).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(ctx, attendance.Record{ID: "rec-1", CompanyID: "comp-1"})

	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Create_PropagatesUnexpectedErrors(t *testing.T) {
	mock, ctx := newMockTxContext(t)
	repo := NewRecordRepository(nil)

	boom := errors.New("connection reset")
	mock.ExpectQuery("INSERT INTO attendance_records").
		WithArgs(recordInsertArgs()...).
		WillReturnError(boom)

	_, err := repo.Create(ctx, attendance.Record{EmployeeID: "emp-1", CompanyID: "comp-1"})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, attendance.ErrDuplicateRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}
