package policy

import (
	"time"
)

// Policy is the attendance policy effective for a branch. A branch without its
// own row falls back to the company defaults from configuration.
type Policy struct {
	ID                  string
	CompanyID           string
	BranchID            *string
	GraceMinutes        int
	StandardWorkMinutes int
	ToleranceMinutes    int
	BreakLimitMinutes   map[string]int
	WorkingDays         []string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// Grace is the lateness tolerance after shift start.
func (p Policy) Grace() time.Duration {
	return time.Duration(p.GraceMinutes) * time.Minute
}

// StandardShift is the standard working duration used for overtime.
func (p Policy) StandardShift() time.Duration {
	return time.Duration(p.StandardWorkMinutes) * time.Minute
}

// Tolerance is the allowed drift of a timestamp around its calendar date.
func (p Policy) Tolerance() time.Duration {
	return time.Duration(p.ToleranceMinutes) * time.Minute
}

// BreakLimit returns the duration limit for a break type. Unknown types fall
// back to the "other" limit.
func (p Policy) BreakLimit(breakType string) time.Duration {
	if limit, ok := p.BreakLimitMinutes[breakType]; ok {
		return time.Duration(limit) * time.Minute
	}
	if limit, ok := p.BreakLimitMinutes["other"]; ok {
		return time.Duration(limit) * time.Minute
	}
	return 0
}
