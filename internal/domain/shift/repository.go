package shift

import (
	"context"
)

// Repository defines read access to shift definitions.
type Repository interface {
	// GetByID retrieves a shift with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)
}
