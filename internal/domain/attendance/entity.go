package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent  Status = "present"
	StatusLate     Status = "late"
	StatusOnBreak  Status = "on_break"
	StatusComplete Status = "complete"

	// StatusAbsent is never stored. The report surface derives it at query time
	// for active employees with no record on a given day.
	StatusAbsent Status = "absent"
)

type BreakType string

const (
	BreakTypeMeal     BreakType = "meal"
	BreakTypePersonal BreakType = "personal"
	BreakTypeOther    BreakType = "other"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Record is the daily attendance record, one per (employee, date). It is the
// aggregate root for Break records and corrections.
type Record struct {
	ID              string
	EmployeeID      string
	CompanyID       string
	Date            time.Time
	ShiftID         *string
	CheckIn         *time.Time
	CheckOut        *time.Time
	Status          Status
	LateMinutes     int
	OvertimeMinutes int
	WorkMinutes     *int
	IsManualEntry   bool
	ManualEntryBy   *string
	Location        *string
	Notes           *string
	DeletedAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// DTO
	EmployeeName      *string
	TotalBreakMinutes *int
}

// Break is one pause interval owned by a Record. At most one Break per Record
// may be open (EndAt == nil) at any moment; the storage layer enforces this
// with a partial unique index.
type Break struct {
	ID              string
	RecordID        string
	Type            BreakType
	StartAt         time.Time
	EndAt           *time.Time
	DurationMinutes *int
	IsExceeding     bool
	ExceededMinutes int
	ApprovalStatus  *ApprovalStatus
	ApprovedBy      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Open reports whether the break has not been ended yet.
func (b Break) Open() bool {
	return b.EndAt == nil
}
