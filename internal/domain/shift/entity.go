package shift

import (
	"time"
)

// Shift carries the two facts this engine needs from a shift definition: the
// scheduled start time-of-day and the standard working duration. Shift template
// management and rotating-schedule generation live elsewhere.
type Shift struct {
	ID              string
	CompanyID       string
	Name            string
	StartTime       time.Time // time-of-day; date component is ignored
	StandardMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
