package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

const recordColumns = `
	a.id, a.employee_id, a.company_id, a.date, a.shift_id,
	a.check_in, a.check_out, a.status,
	a.late_minutes, a.overtime_minutes, a.work_minutes,
	a.is_manual_entry, a.manual_entry_by, a.location, a.notes,
	a.deleted_at, a.created_at, a.updated_at`

func scanRecord(row pgx.Row, withEmployee bool) (attendance.Record, error) {
	var rec attendance.Record
	dest := []interface{}{
		&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.ShiftID,
		&rec.CheckIn, &rec.CheckOut, &rec.Status,
		&rec.LateMinutes, &rec.OvertimeMinutes, &rec.WorkMinutes,
		&rec.IsManualEntry, &rec.ManualEntryBy, &rec.Location, &rec.Notes,
		&rec.DeletedAt, &rec.CreatedAt, &rec.UpdatedAt,
	}
	if withEmployee {
		dest = append(dest, &rec.EmployeeName)
	}
	if err := row.Scan(dest...); err != nil {
		return attendance.Record{}, err
	}
	return rec, nil
}

// Create implements attendance.RecordRepository.
func (r *recordRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	record.ID = uuid.NewString()

	query := `
		INSERT INTO attendance_records (
			id, employee_id, company_id, date, shift_id,
			check_in, check_out, status,
			late_minutes, overtime_minutes, work_minutes,
			is_manual_entry, manual_entry_by, location, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.CompanyID,
		record.Date,
		record.ShiftID,
		record.CheckIn,
		record.CheckOut,
		record.Status,
		record.LateMinutes,
		record.OvertimeMinutes,
		record.WorkMinutes,
		record.IsManualEntry,
		record.ManualEntryBy,
		record.Location,
		record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err, "attendance_records_employee_date_key") {
			return attendance.Record{}, attendance.ErrDuplicateRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return record, nil
}

// GetByID implements attendance.RecordRepository.
func (r *recordRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `,
			e.full_name AS employee_name
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1 AND a.company_id = $2 AND a.deleted_at IS NULL
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, companyID), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to get attendance record by ID: %w", err)
	}

	return rec, nil
}

// GetByIDForUpdate implements attendance.RecordRepository.
func (r *recordRepository) GetByIDForUpdate(ctx context.Context, id string, companyID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		WHERE a.id = $1 AND a.company_id = $2 AND a.deleted_at IS NULL
		FOR UPDATE OF a
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, id, companyID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrRecordNotFound
		}
		return attendance.Record{}, fmt.Errorf("failed to lock attendance record: %w", err)
	}

	return rec, nil
}

// GetByEmployeeAndDate implements attendance.RecordRepository.
func (r *recordRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		  AND a.deleted_at IS NULL
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, date, companyID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing record
		}
		return nil, fmt.Errorf("failed to get attendance record by employee and date: %w", err)
	}

	return &rec, nil
}

// GetOpenByEmployee implements attendance.RecordRepository.
func (r *recordRepository) GetOpenByEmployee(ctx context.Context, employeeID string, companyID string) (attendance.Record, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + recordColumns + `
		FROM attendance_records a
		WHERE a.employee_id = $1
		  AND a.company_id = $2
		  AND a.check_out IS NULL
		  AND a.deleted_at IS NULL
		ORDER BY a.check_in DESC
		LIMIT 1
	`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, companyID), false)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrNoOpenRecord
		}
		return attendance.Record{}, fmt.Errorf("failed to get open attendance record: %w", err)
	}

	return rec, nil
}

// Update implements attendance.RecordRepository.
func (r *recordRepository) Update(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET check_in = $1,
			check_out = $2,
			status = $3,
			late_minutes = $4,
			overtime_minutes = $5,
			work_minutes = $6,
			is_manual_entry = $7,
			manual_entry_by = $8,
			location = $9,
			notes = $10,
			updated_at = $11
		WHERE id = $12 AND company_id = $13 AND deleted_at IS NULL
		RETURNING id
	`

	var updatedID string
	err := q.QueryRow(ctx, query,
		record.CheckIn,
		record.CheckOut,
		record.Status,
		record.LateMinutes,
		record.OvertimeMinutes,
		record.WorkMinutes,
		record.IsManualEntry,
		record.ManualEntryBy,
		record.Location,
		record.Notes,
		time.Now(),
		record.ID,
		record.CompanyID,
	).Scan(&updatedID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ErrRecordNotFound
		}
		return fmt.Errorf("failed to update attendance record: %w", err)
	}

	return nil
}

// List implements attendance.RecordRepository.
func (r *recordRepository) List(ctx context.Context, filter attendance.RecordFilter, companyID string) ([]attendance.Record, int64, error) {
	q := GetQuerier(ctx, r.db)

	// Build WHERE clause
	baseWhere := "a.company_id = $1 AND a.deleted_at IS NULL"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND e.full_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}

	if filter.BranchID != nil && *filter.BranchID != "" {
		baseWhere += fmt.Sprintf(" AND e.branch_id = $%d", argIdx)
		args = append(args, *filter.BranchID)
		argIdx++
	}

	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}

	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.IsLate != nil {
		if *filter.IsLate {
			baseWhere += " AND a.late_minutes > 0"
		} else {
			baseWhere += " AND a.late_minutes = 0"
		}
	}

	if filter.HasOvertime != nil {
		if *filter.HasOvertime {
			baseWhere += " AND a.overtime_minutes > 0"
		} else {
			baseWhere += " AND a.overtime_minutes = 0"
		}
	}

	if filter.IsManualEntry != nil {
		baseWhere += fmt.Sprintf(" AND a.is_manual_entry = $%d", argIdx)
		args = append(args, *filter.IsManualEntry)
		argIdx++
	}

	// Count total (need to join employees for name/branch/department filters)
	countQuery := `
		SELECT COUNT(*)
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance records: %w", err)
	}

	// Build ORDER BY; default is date descending then employee name ascending
	orderBy := "a.date DESC, e.full_name ASC"
	if filter.SortBy != "" && filter.SortBy != "date" {
		orderByField := "a.date"
		switch filter.SortBy {
		case "employee_name":
			orderByField = "e.full_name"
		case "check_in":
			orderByField = "a.check_in"
		case "check_out":
			orderByField = "a.check_out"
		case "status":
			orderByField = "a.status"
		}
		sortOrder := "DESC"
		if strings.ToLower(filter.SortOrder) == "asc" {
			sortOrder = "ASC"
		}
		orderBy = fmt.Sprintf("%s %s", orderByField, sortOrder)
	} else if strings.ToLower(filter.SortOrder) == "asc" {
		orderBy = "a.date ASC, e.full_name ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+recordColumns+`,
			e.full_name AS employee_name
		FROM attendance_records a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d
	`, baseWhere, orderBy, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (filter.Page - 1) * limit
	args = append(args, limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows, true)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// SoftDelete implements attendance.RecordRepository.
func (r *recordRepository) SoftDelete(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_records
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND company_id = $3 AND deleted_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, time.Now(), id, companyID)
	if err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}
