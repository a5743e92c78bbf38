package correction

import (
	"strings"
	"testing"

	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCorrectionRequest_Validate(t *testing.T) {
	proposed := "2025-03-10T09:00:00+07:00"

	valid := RequestCorrectionRequest{
		RecordID:        "rec-1",
		ProposedCheckIn: &proposed,
		Reason:          "forgot to check in on arrival",
	}
	assert.NoError(t, valid.Validate())

	noProposal := RequestCorrectionRequest{RecordID: "rec-1", Reason: "nothing"}
	err := noProposal.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "proposed_check_in")

	longReason := valid
	longReason.Reason = strings.Repeat("x", maxReasonLength+1)
	err = longReason.Validate()
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "reason")
}

func TestDecideCorrectionRequest_Validate(t *testing.T) {
	valid := DecideCorrectionRequest{CorrectionID: "corr-1", Decision: "rejected"}
	assert.NoError(t, valid.Validate())

	pending := DecideCorrectionRequest{CorrectionID: "corr-1", Decision: "pending"}
	err := pending.Validate()
	var errs validator.ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.ToMap(), "decision")
}
