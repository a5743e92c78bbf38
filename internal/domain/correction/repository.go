package correction

import (
	"context"
)

// Repository defines data access methods for attendance corrections.
type Repository interface {
	// Create inserts a new pending correction. The partial unique index on
	// pending corrections surfaces a concurrent duplicate as
	// ErrCorrectionAlreadyPending.
	Create(ctx context.Context, corr Correction) (Correction, error)

	// GetByID retrieves a correction with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Correction, error)

	// GetByIDForUpdate locks the correction row for the enclosing transaction
	GetByIDForUpdate(ctx context.Context, id string, companyID string) (Correction, error)

	// UpdateDecision persists the terminal status, approver, decision time and
	// comments of a correction
	UpdateDecision(ctx context.Context, corr Correction) error

	// ListByRecord retrieves all corrections filed against a record, newest first
	ListByRecord(ctx context.Context, recordID string, companyID string) ([]Correction, error)
}
