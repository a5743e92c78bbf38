package correction

import (
	"strings"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

const maxReasonLength = 500

type RequestCorrectionRequest struct {
	RecordID         string  `json:"-"`
	ProposedCheckIn  *string `json:"proposed_check_in,omitempty"`  // RFC3339
	ProposedCheckOut *string `json:"proposed_check_out,omitempty"` // RFC3339
	Reason           string  `json:"reason"`
}

func (r *RequestCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RecordID) {
		errs = append(errs, validator.ValidationError{
			Field:   "record_id",
			Message: "record_id is required",
		})
	}

	if r.ProposedCheckIn == nil && r.ProposedCheckOut == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "proposed_check_in",
			Message: "at least one of proposed_check_in or proposed_check_out is required",
		})
	}

	if r.ProposedCheckIn != nil {
		if _, valid := validator.IsValidDateTime(*r.ProposedCheckIn); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "proposed_check_in",
				Message: "proposed_check_in must be an RFC3339 datetime",
			})
		}
	}

	if r.ProposedCheckOut != nil {
		if _, valid := validator.IsValidDateTime(*r.ProposedCheckOut); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "proposed_check_out",
				Message: "proposed_check_out must be an RFC3339 datetime",
			})
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	} else if len(r.Reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DecideCorrectionRequest struct {
	CorrectionID string  `json:"-"`
	Decision     string  `json:"decision"` // approved, rejected
	Comments     *string `json:"comments,omitempty"`
}

func (r *DecideCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CorrectionID) {
		errs = append(errs, validator.ValidationError{
			Field:   "correction_id",
			Message: "correction_id is required",
		})
	}

	validDecisions := []string{string(StatusApproved), string(StatusRejected)}
	if !validator.IsInSlice(strings.ToLower(r.Decision), validDecisions) {
		errs = append(errs, validator.ValidationError{
			Field:   "decision",
			Message: "decision must be one of: approved, rejected",
		})
	}

	if r.Comments != nil && len(*r.Comments) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "comments",
			Message: "comments must not exceed 500 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type CorrectionResponse struct {
	ID               string  `json:"id"`
	RecordID         string  `json:"record_id"`
	RequestedBy      string  `json:"requested_by"`
	ProposedCheckIn  *string `json:"proposed_check_in,omitempty"`
	ProposedCheckOut *string `json:"proposed_check_out,omitempty"`
	Reason           string  `json:"reason"`
	Status           string  `json:"status"`
	DecidedBy        *string `json:"decided_by,omitempty"`
	DecidedAt        *string `json:"decided_at,omitempty"`
	Comments         *string `json:"comments,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

// DecisionResponse returns both terminal correction state and, on approval, the
// record with its replayed derived fields.
type DecisionResponse struct {
	Correction CorrectionResponse         `json:"correction"`
	Record     *attendance.RecordResponse `json:"record,omitempty"`
}
