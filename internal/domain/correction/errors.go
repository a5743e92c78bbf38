package correction

import "errors"

// Correction domain errors
var (
	ErrCorrectionAlreadyPending = errors.New("a pending correction already exists for this record")
	ErrNoChangeRequested        = errors.New("proposed timestamps do not differ from the stored values")
	ErrAlreadyDecided           = errors.New("correction has already been decided")
	ErrCorrectionNotFound       = errors.New("correction not found")
)
