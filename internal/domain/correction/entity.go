package correction

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Correction is a post-hoc request to alter a record's check-in/check-out
// timestamps. At most one pending correction may exist per record; decided
// corrections are immutable.
type Correction struct {
	ID               string
	RecordID         string
	CompanyID        string
	RequestedBy      string
	ProposedCheckIn  *time.Time
	ProposedCheckOut *time.Time
	Reason           string
	Status           Status
	DecidedBy        *string
	DecidedAt        *time.Time
	Comments         *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Decided reports whether the correction has reached a terminal state.
func (c Correction) Decided() bool {
	return c.Status != StatusPending
}
