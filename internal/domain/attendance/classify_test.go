package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func tstamp(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestClassifyArrival(t *testing.T) {
	shiftStart := tstamp(9, 0)
	grace := 15 * time.Minute

	tests := []struct {
		name        string
		checkIn     time.Time
		wantStatus  Status
		wantMinutes int
	}{
		{
			name:        "on time",
			checkIn:     tstamp(8, 55),
			wantStatus:  StatusPresent,
			wantMinutes: 0,
		},
		{
			name:        "exactly at shift start",
			checkIn:     tstamp(9, 0),
			wantStatus:  StatusPresent,
			wantMinutes: 0,
		},
		{
			name:        "exactly at grace boundary is still present",
			checkIn:     tstamp(9, 15),
			wantStatus:  StatusPresent,
			wantMinutes: 0,
		},
		{
			name:        "one second past grace is late",
			checkIn:     tstamp(9, 15).Add(time.Second),
			wantStatus:  StatusLate,
			wantMinutes: 0,
		},
		{
			name:        "half hour past start",
			checkIn:     tstamp(9, 30),
			wantStatus:  StatusLate,
			wantMinutes: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, minutes := ClassifyArrival(tt.checkIn, shiftStart, grace)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestClassify_OpenRecord(t *testing.T) {
	shiftStart := tstamp(9, 0)
	checkIn := tstamp(9, 30)

	derived := Classify(checkIn, nil, 0, shiftStart, 8*time.Hour, 15*time.Minute)

	assert.Equal(t, StatusLate, derived.Status)
	assert.Equal(t, 15, derived.LateMinutes)
	assert.Equal(t, 0, derived.OvertimeMinutes)
	assert.Nil(t, derived.WorkMinutes)
}

func TestClassify_CompletedDay(t *testing.T) {
	shiftStart := tstamp(9, 0)
	checkIn := tstamp(9, 5)
	checkOut := tstamp(18, 0)

	// 9:05 to 18:00 is 535 minutes; minus a 45 minute break leaves 490 worked,
	// which is 10 minutes over an 8 hour standard.
	derived := Classify(checkIn, &checkOut, 45*time.Minute, shiftStart, 8*time.Hour, 15*time.Minute)

	assert.Equal(t, StatusComplete, derived.Status)
	assert.Equal(t, 0, derived.LateMinutes)
	assert.Equal(t, 10, derived.OvertimeMinutes)
	if assert.NotNil(t, derived.WorkMinutes) {
		assert.Equal(t, 490, *derived.WorkMinutes)
	}
}

func TestClassify_LateMinutesPreservedOnCompletion(t *testing.T) {
	shiftStart := tstamp(9, 0)
	checkIn := tstamp(10, 0)
	checkOut := tstamp(17, 0)

	derived := Classify(checkIn, &checkOut, 0, shiftStart, 8*time.Hour, 15*time.Minute)

	assert.Equal(t, StatusComplete, derived.Status)
	assert.Equal(t, 45, derived.LateMinutes)
	assert.Equal(t, 0, derived.OvertimeMinutes)
}

func TestClassify_CorrectionFlipsLateness(t *testing.T) {
	shiftStart := tstamp(9, 0)
	grace := 15 * time.Minute

	// Recorded at 09:30 the employee is late; a corrected 09:00 check-in
	// replayed through the same classifier is present again.
	before, beforeMinutes := ClassifyArrival(tstamp(9, 30), shiftStart, grace)
	assert.Equal(t, StatusLate, before)
	assert.Equal(t, 15, beforeMinutes)

	after, afterMinutes := ClassifyArrival(tstamp(9, 0), shiftStart, grace)
	assert.Equal(t, StatusPresent, after)
	assert.Equal(t, 0, afterMinutes)
}

func TestClassifyBreak(t *testing.T) {
	limit := 60 * time.Minute

	tests := []struct {
		name         string
		duration     time.Duration
		wantExceed   bool
		wantExceeded int
	}{
		{"under limit", 30 * time.Minute, false, 0},
		{"exactly at limit", 60 * time.Minute, false, 0},
		{"one minute over", 61 * time.Minute, true, 1},
		{"well over", 90 * time.Minute, true, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isExceeding, exceeded := ClassifyBreak(tt.duration, limit)
			assert.Equal(t, tt.wantExceed, isExceeding)
			assert.Equal(t, tt.wantExceeded, exceeded)
		})
	}
}

func TestWithinDate(t *testing.T) {
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tolerance := 2 * time.Hour

	assert.True(t, WithinDate(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), dayStart, tolerance))
	assert.True(t, WithinDate(time.Date(2025, 3, 9, 22, 0, 0, 0, time.UTC), dayStart, tolerance))
	assert.True(t, WithinDate(time.Date(2025, 3, 11, 2, 0, 0, 0, time.UTC), dayStart, tolerance))
	assert.False(t, WithinDate(time.Date(2025, 3, 9, 21, 59, 0, 0, time.UTC), dayStart, tolerance))
	assert.False(t, WithinDate(time.Date(2025, 3, 11, 2, 1, 0, 0, time.UTC), dayStart, tolerance))
}

func TestDayStart_KeepsLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ref := time.Date(2025, 3, 10, 8, 45, 12, 0, jakarta)

	got := DayStart(ref)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta), got)
	assert.Equal(t, jakarta, got.Location())
}

func TestShiftStartOn_UsesCheckInDayAndLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	ref := time.Date(2025, 3, 10, 8, 45, 0, 0, jakarta)
	startOfDay := time.Date(2000, 1, 1, 9, 0, 0, 0, time.UTC)

	got := ShiftStartOn(ref, startOfDay)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, jakarta), got)
}
