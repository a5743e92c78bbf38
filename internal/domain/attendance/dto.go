package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Timestamp string  `json:"timestamp"` // RFC3339
	Location  *string `json:"location,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.Timestamp); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an RFC3339 datetime",
		})
	}

	if r.Location != nil && len(*r.Location) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CheckOutRequest struct {
	Timestamp string `json:"timestamp"` // RFC3339
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.Timestamp); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ManualEntryRequest creates or overwrites a record for a past date without the
// live check-in/check-out sequence. Admin/manager only.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`      // YYYY-MM-DD
	CheckIn    string  `json:"check_in"`  // RFC3339
	CheckOut   *string `json:"check_out"` // RFC3339, optional
	Location   *string `json:"location,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.CheckIn) {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: "check_in is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.CheckIn); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: "check_in must be an RFC3339 datetime",
		})
	}

	if r.CheckOut != nil && *r.CheckOut != "" {
		if _, valid := validator.IsValidDateTime(*r.CheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 datetime",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// BREAK DTOs
// ========================================

type StartBreakRequest struct {
	RecordID  string `json:"-"`
	Type      string `json:"type"`      // meal, personal, other
	Timestamp string `json:"timestamp"` // RFC3339
}

func (r *StartBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	validTypes := []string{string(BreakTypeMeal), string(BreakTypePersonal), string(BreakTypeOther)}
	if !validator.IsInSlice(strings.ToLower(r.Type), validTypes) {
		errs = append(errs, validator.ValidationError{
			Field:   "type",
			Message: "type must be one of: meal, personal, other",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.Timestamp); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EndBreakRequest struct {
	BreakID   string `json:"-"`
	Timestamp string `json:"timestamp"` // RFC3339
}

func (r *EndBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BreakID) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_id",
			Message: "break_id is required",
		})
	}

	if validator.IsEmpty(r.Timestamp) {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp is required",
		})
	} else if _, valid := validator.IsValidDateTime(r.Timestamp); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be an RFC3339 datetime",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideBreakRequest struct {
	BreakID  string `json:"-"`
	Decision string `json:"decision"` // approved, rejected
}

func (r *DecideBreakRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BreakID) {
		errs = append(errs, validator.ValidationError{
			Field:   "break_id",
			Message: "break_id is required",
		})
	}

	validDecisions := []string{string(ApprovalApproved), string(ApprovalRejected)}
	if !validator.IsInSlice(strings.ToLower(r.Decision), validDecisions) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSES
// ========================================

type BreakResponse struct {
	ID              string  `json:"id"`
	RecordID        string  `json:"record_id"`
	Type            string  `json:"type"`
	StartAt         string  `json:"start_at"`
	EndAt           *string `json:"end_at,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	IsExceeding     bool    `json:"is_exceeding"`
	ExceededMinutes int     `json:"exceeded_minutes,omitempty"`
	ApprovalStatus  *string `json:"approval_status,omitempty"`
	ApprovedBy      *string `json:"approved_by,omitempty"`
}

type RecordResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      *string         `json:"employee_name,omitempty"`
	Date              string          `json:"date"`
	ShiftID           *string         `json:"shift_id,omitempty"`
	CheckIn           *string         `json:"check_in,omitempty"`
	CheckOut          *string         `json:"check_out,omitempty"`
	Status            string          `json:"status"`
	IsLate            bool            `json:"is_late"`
	LateMinutes       int             `json:"late_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
	WorkMinutes       *int            `json:"work_minutes,omitempty"`
	TotalBreakMinutes *int            `json:"total_break_minutes,omitempty"`
	IsManualEntry     bool            `json:"is_manual_entry"`
	ManualEntryBy     *string         `json:"manual_entry_by,omitempty"`
	Location          *string         `json:"location,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
	Breaks            []BreakResponse `json:"breaks,omitempty"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

type ListRecordsResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Records    []RecordResponse `json:"records"`
}

// ========================================
// SEARCH FILTER
// ========================================

type RecordFilter struct {
	// Search & Filter
	EmployeeID    *string `json:"employee_id,omitempty"`
	EmployeeName  *string `json:"employee_name,omitempty"`
	BranchID      *string `json:"branch_id,omitempty"`
	DepartmentID  *string `json:"department_id,omitempty"`
	StartDate     *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate       *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status        *string `json:"status,omitempty"`
	IsLate        *bool   `json:"is_late,omitempty"`
	HasOvertime   *bool   `json:"has_overtime,omitempty"`
	IsManualEntry *bool   `json:"is_manual_entry,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, check_in, check_out, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *RecordFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Status validation (only stored statuses are searchable)
	if f.Status != nil {
		validStatuses := []string{
			string(StatusPresent), string(StatusLate),
			string(StatusOnBreak), string(StatusComplete),
		}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, late, on_break, complete",
			})
		}
	}

	// Date validation
	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_name", "check_in", "check_out", "status"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, employee_name, check_in, check_out, status",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
