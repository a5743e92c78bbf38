package employee

import (
	"time"
)

// Employee is the slice of the employee directory this engine consumes. Master
// data management lives elsewhere; employees are referenced by ID only.
type Employee struct {
	ID           string
	CompanyID    string
	BranchID     string
	DepartmentID *string
	FullName     string
	ShiftID      *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
