package postgresql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	match := &pgconn.PgError{Code: "23505", ConstraintName: "attendance_records_employee_date_key"}
	assert.True(t, isUniqueViolation(match, "attendance_records_employee_date_key"))

	// A different constraint on the same table must not be swallowed
	other := &pgconn.PgError{Code: "23505", ConstraintName: "break_records_one_open_key"}
	assert.False(t, isUniqueViolation(other, "attendance_records_employee_date_key"))

	notUnique := &pgconn.PgError{Code: "23503", ConstraintName: "attendance_records_employee_date_key"}
	assert.False(t, isUniqueViolation(notUnique, "attendance_records_employee_date_key"))

	assert.False(t, isUniqueViolation(errors.New("connection reset"), "attendance_records_employee_date_key"))

	wrapped := fmt.Errorf("insert failed: %w", match)
	assert.True(t, isUniqueViolation(wrapped, "attendance_records_employee_date_key"))
}

func TestGetQuerier_PrefersContextTransaction(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), "tx", tx)

	q := GetQuerier(ctx, nil)
	assert.Equal(t, tx, q)
}
