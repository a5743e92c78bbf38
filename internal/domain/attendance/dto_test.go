package attendance

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		req       CheckInRequest
		wantField string
	}{
		{
			name: "valid",
			req:  CheckInRequest{Timestamp: "2025-03-10T09:00:00+07:00"},
		},
		{
			name:      "missing timestamp",
			req:       CheckInRequest{},
			wantField: "timestamp",
		},
		{
			name:      "not RFC3339",
			req:       CheckInRequest{Timestamp: "2025-03-10 09:00"},
			wantField: "timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tt.wantField)
		})
	}
}

func TestStartBreakRequest_Validate(t *testing.T) {
	valid := StartBreakRequest{
		RecordID:  "rec-1",
		Type:      "meal",
		Timestamp: "2025-03-10T12:00:00+07:00",
	}
	assert.NoError(t, valid.Validate())

	badType := valid
	badType.Type = "siesta"
	err := badType.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "type")

	// Break types are case-insensitive
	upper := valid
	upper.Type = "MEAL"
	assert.NoError(t, upper.Validate())
}

func TestDecideBreakRequest_Validate(t *testing.T) {
	valid := DecideBreakRequest{BreakID: "brk-1", Decision: "approved"}
	assert.NoError(t, valid.Validate())

	pending := DecideBreakRequest{BreakID: "brk-1", Decision: "pending"}
	err := pending.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "decision")
}

func TestManualEntryRequest_Validate(t *testing.T) {
	checkOut := "2025-03-10T17:00:00+07:00"
	valid := ManualEntryRequest{
		EmployeeID: "emp-1",
		Date:       "2025-03-10",
		CheckIn:    "2025-03-10T09:00:00+07:00",
		CheckOut:   &checkOut,
	}
	assert.NoError(t, valid.Validate())

	badDate := valid
	badDate.Date = "10-03-2025"
	err := badDate.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "date")
}

func TestRecordFilter_Validate_Defaults(t *testing.T) {
	filter := RecordFilter{}
	require.NoError(t, filter.Validate())

	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 20, filter.Limit)
	assert.Equal(t, "date", filter.SortBy)
	assert.Equal(t, "desc", filter.SortOrder)
}

func TestRecordFilter_Validate_Rejections(t *testing.T) {
	absent := "absent"
	tests := []struct {
		name      string
		filter    RecordFilter
		wantField string
	}{
		{
			name:      "limit over cap",
			filter:    RecordFilter{Limit: 500},
			wantField: "limit",
		},
		{
			// Absent is derived at query time, never stored
			name:      "derived status not searchable",
			filter:    RecordFilter{Status: &absent},
			wantField: "status",
		},
		{
			name:      "unknown sort field",
			filter:    RecordFilter{SortBy: "salary"},
			wantField: "sort_by",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filter.Validate()
			var errs validator.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Contains(t, errs.ToMap(), tt.wantField)
		})
	}
}

func TestValidationErrors_Message(t *testing.T) {
	req := CheckInRequest{}
	err := req.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "timestamp"))
}
