package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrDuplicateRecord        = errors.New("attendance record already exists for this date")
	ErrNoOpenRecord           = errors.New("no open attendance record to check out of")
	ErrOpenBreakExists        = errors.New("an open break must be ended before checking out")
	ErrInvalidTimestamp       = errors.New("timestamp is outside the allowed window")
	ErrInvalidStateTransition = errors.New("operation not allowed in the record's current state")

	// Break errors
	ErrBreakAlreadyOpen    = errors.New("an open break already exists for this record")
	ErrBreakAlreadyClosed  = errors.New("break has already been ended")
	ErrBreakNotPending     = errors.New("break is not awaiting approval")
	ErrBreakAlreadyDecided = errors.New("break approval has already been decided")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrBreakNotFound  = errors.New("break record not found")
)
