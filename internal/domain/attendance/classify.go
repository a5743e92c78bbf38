package attendance

import (
	"time"
)

// Derived holds every field of a Record that is computed from its timestamps.
type Derived struct {
	Status          Status
	LateMinutes     int
	OvertimeMinutes int
	WorkMinutes     *int
}

// ClassifyArrival classifies a check-in against the scheduled shift start.
// The grace boundary is inclusive of on-time: a check-in exactly at
// shiftStart+grace is still present.
func ClassifyArrival(checkIn, shiftStart time.Time, grace time.Duration) (Status, int) {
	lateBy := checkIn.Sub(shiftStart) - grace
	if lateBy > 0 {
		return StatusLate, int(lateBy.Minutes())
	}
	return StatusPresent, 0
}

// Classify recomputes all derived fields from a record's timestamps as if they
// were the original live events. It is the single source of truth shared by
// check-in, check-out, manual entry and correction replay.
func Classify(checkIn time.Time, checkOut *time.Time, totalBreak time.Duration, shiftStart time.Time, standard, grace time.Duration) Derived {
	status, lateMinutes := ClassifyArrival(checkIn, shiftStart, grace)
	derived := Derived{Status: status, LateMinutes: lateMinutes}

	if checkOut == nil {
		return derived
	}

	worked := checkOut.Sub(checkIn) - totalBreak
	overtime := worked - standard
	if overtime < 0 {
		overtime = 0
	}
	workMinutes := int(worked.Minutes())

	derived.Status = StatusComplete
	derived.OvertimeMinutes = int(overtime.Minutes())
	derived.WorkMinutes = &workMinutes
	return derived
}

// ClassifyBreak compares a closed break's duration against its policy limit.
// A duration exactly at the limit is not exceeding.
func ClassifyBreak(duration, limit time.Duration) (isExceeding bool, exceededMinutes int) {
	if duration > limit {
		return true, int((duration - limit).Minutes())
	}
	return false, 0
}

// WithinDate reports whether t falls inside the calendar day starting at
// dayStart, extended by the policy tolerance on both sides.
func WithinDate(t, dayStart time.Time, tolerance time.Duration) bool {
	start := dayStart.Add(-tolerance)
	end := dayStart.Add(24 * time.Hour).Add(tolerance)
	return !t.Before(start) && !t.After(end)
}

// DayStart returns midnight of ref's calendar day, in ref's location.
func DayStart(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
}

// ShiftStartOn places a shift's start time-of-day onto ref's calendar day, in
// ref's location. Timestamps carry their own offsets, so classification stays
// consistent without a separate branch-timezone lookup.
func ShiftStartOn(ref time.Time, startOfDay time.Time) time.Time {
	return time.Date(
		ref.Year(), ref.Month(), ref.Day(),
		startOfDay.Hour(), startOfDay.Minute(), startOfDay.Second(), 0,
		ref.Location(),
	)
}
