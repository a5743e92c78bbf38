package attendance

import (
	"context"
	"time"
)

// RecordRepository defines data access methods for attendance records.
// All methods include companyID to prevent cross-company data access.
type RecordRepository interface {
	// Create inserts a new record. The storage layer enforces the
	// (employee_id, date) uniqueness constraint; a violation surfaces as
	// ErrDuplicateRecord.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByID retrieves a record by ID with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Record, error)

	// GetByIDForUpdate locks the record row for the duration of the enclosing
	// transaction. Mutations against the same record serialize on this lock.
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (Record, error)

	// GetByEmployeeAndDate retrieves the record for an employee on a specific
	// date, or nil when none exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Record, error)

	// GetOpenByEmployee retrieves the employee's record that has no check-out yet
	GetOpenByEmployee(ctx context.Context, employeeID string, companyID string) (Record, error)

	// Update persists all mutable fields of an existing record
	Update(ctx context.Context, record Record) error

	// List retrieves records matching the filter with pagination
	List(ctx context.Context, filter RecordFilter, companyID string) ([]Record, int64, error)

	// SoftDelete marks a record deleted; its breaks and corrections go with it
	SoftDelete(ctx context.Context, id string, companyID string) error
}

// BreakRepository defines data access methods for break records.
type BreakRepository interface {
	// Create inserts a new open break. The partial unique index on open breaks
	// surfaces a concurrent double-start as ErrBreakAlreadyOpen.
	Create(ctx context.Context, brk Break) (Break, error)

	// GetByID retrieves a break, scoped through its parent record's company
	GetByID(ctx context.Context, id string, companyID string) (Break, error)

	// GetOpenByRecord retrieves the record's open break, or nil when none exists
	GetOpenByRecord(ctx context.Context, recordID string) (*Break, error)

	// Close persists the end fields of an open break. The UPDATE only matches
	// the still-open row, so a concurrent close surfaces as
	// ErrBreakAlreadyClosed rather than a double mutation.
	Close(ctx context.Context, brk Break) error

	// UpdateDecision persists an exceedance decision. The UPDATE only matches
	// the pending row; losing a decision race surfaces as
	// ErrBreakAlreadyDecided.
	UpdateDecision(ctx context.Context, brk Break) error

	// ListByRecord retrieves all breaks under a record, oldest first
	ListByRecord(ctx context.Context, recordID string) ([]Break, error)

	// SumClosedMinutes totals the durations of the record's closed breaks
	SumClosedMinutes(ctx context.Context, recordID string) (int, error)
}
