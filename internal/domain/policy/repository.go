package policy

import (
	"context"
)

// Repository defines data access for branch-level policy rows.
type Repository interface {
	// GetByBranch retrieves the policy row for a branch, or ErrPolicyNotFound
	// when the branch has none
	GetByBranch(ctx context.Context, branchID string, companyID string) (Policy, error)
}

// Provider resolves the effective policy for an employee's branch, falling back
// to the configured company defaults. Pure lookup; no state.
type Provider interface {
	Resolve(ctx context.Context, branchID string, companyID string) (Policy, error)
}
