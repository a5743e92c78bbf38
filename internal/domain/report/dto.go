package report

import (
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// DailyCountsRequest selects one branch-day to aggregate.
type DailyCountsRequest struct {
	BranchID string `json:"branch_id"`
	Date     string `json:"date"` // YYYY-MM-DD
}

func (r *DailyCountsRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.BranchID) {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id is required",
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

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// DailyCountsResponse is recomputed on demand, never cached. Absent is derived
// as active employees minus present; it is not a stored status.
type DailyCountsResponse struct {
	BranchID string `json:"branch_id"`
	Date     string `json:"date"`
	Present  int64  `json:"present"`
	Absent   int64  `json:"absent"`
	Late     int64  `json:"late"`
	OnBreak  int64  `json:"on_break"`
}
