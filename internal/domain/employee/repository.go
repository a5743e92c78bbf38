package employee

import (
	"context"
)

// Repository defines read access to the employee directory.
type Repository interface {
	// GetByID retrieves an employee with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)

	// CountActiveByBranch counts active employees in a branch; the absent-count
	// denominator for daily aggregates
	CountActiveByBranch(ctx context.Context, branchID string, companyID string) (int64, error)
}
