package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authorization errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrBreakNotFound):
		NotFound(w, "Break not found")
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this date")
	case errors.Is(err, attendance.ErrNoOpenRecord):
		Conflict(w, "No open attendance record to check out")
	case errors.Is(err, attendance.ErrOpenBreakExists):
		Conflict(w, "An open break must be ended first")
	case errors.Is(err, attendance.ErrBreakAlreadyOpen):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrBreakAlreadyClosed):
		Conflict(w, "Break has already been ended")
	case errors.Is(err, attendance.ErrBreakNotPending):
		Conflict(w, "Break has no pending approval")
	case errors.Is(err, attendance.ErrBreakAlreadyDecided):
		Conflict(w, "Break approval has already been decided")
	case errors.Is(err, attendance.ErrInvalidStateTransition):
		Conflict(w, "Operation not allowed in the record's current state")
	case errors.Is(err, attendance.ErrInvalidTimestamp):
		BadRequest(w, "Timestamp is outside the allowed range", nil)

	// Correction domain errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction not found")
	case errors.Is(err, correction.ErrCorrectionAlreadyPending):
		Conflict(w, "A pending correction already exists for this record")
	case errors.Is(err, correction.ErrAlreadyDecided):
		Conflict(w, "Correction has already been decided")
	case errors.Is(err, correction.ErrNoChangeRequested):
		BadRequest(w, "Proposed timestamps match the stored values", nil)

	// Collaborator errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, policy.ErrPolicyNotFound):
		NotFound(w, "Attendance policy not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
