package report

import (
	"context"
	"time"
)

// BranchDayStats are the stored-fact counts for one branch-day.
type BranchDayStats struct {
	Present int64
	Late    int64
	OnBreak int64
}

// Repository defines the read-only aggregate queries over attendance facts.
type Repository interface {
	// GetBranchDayStats counts records for a branch on a date: present is every
	// non-deleted record, late those with a positive late duration, on-break
	// those currently in an open break
	GetBranchDayStats(ctx context.Context, branchID string, date time.Time, companyID string) (BranchDayStats, error)
}
