package policy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPolicyRepo struct {
	policy policy.Policy
	err    error
}

func (s stubPolicyRepo) GetByBranch(ctx context.Context, branchID string, companyID string) (policy.Policy, error) {
	if s.err != nil {
		return policy.Policy{}, s.err
	}
	return s.policy, nil
}

func testDefaults() config.PolicyDefaults {
	return config.PolicyDefaults{
		GraceMinutes:        10,
		StandardWorkMinutes: 480,
		ToleranceMinutes:    120,
		BreakLimitMinutes:   map[string]int{"meal": 60, "personal": 15, "other": 30},
		WorkingDays:         []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
	}
}

func TestProvider_Resolve_BranchPolicyWins(t *testing.T) {
	stored := policy.Policy{
		ID:                  "pol-1",
		CompanyID:           "comp-1",
		GraceMinutes:        20,
		StandardWorkMinutes: 420,
		ToleranceMinutes:    60,
		BreakLimitMinutes:   map[string]int{"meal": 90, "personal": 10, "other": 30},
	}
	provider := NewProvider(stubPolicyRepo{policy: stored}, testDefaults())

	pol, err := provider.Resolve(context.Background(), "branch-1", "comp-1")

	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, pol.Grace())
	assert.Equal(t, 7*time.Hour, pol.StandardShift())
	assert.Equal(t, 90*time.Minute, pol.BreakLimit("meal"))
}

func TestProvider_Resolve_FallsBackToDefaults(t *testing.T) {
	provider := NewProvider(stubPolicyRepo{err: policy.ErrPolicyNotFound}, testDefaults())

	pol, err := provider.Resolve(context.Background(), "branch-1", "comp-1")

	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, pol.Grace())
	assert.Equal(t, 8*time.Hour, pol.StandardShift())
	assert.Equal(t, 2*time.Hour, pol.Tolerance())
	assert.Equal(t, 60*time.Minute, pol.BreakLimit("meal"))
}

func TestProvider_Resolve_PropagatesOtherErrors(t *testing.T) {
	boom := errors.New("connection refused")
	provider := NewProvider(stubPolicyRepo{err: boom}, testDefaults())

	_, err := provider.Resolve(context.Background(), "branch-1", "comp-1")

	assert.ErrorIs(t, err, boom)
}

func TestPolicy_BreakLimit_UnknownTypeFallsBack(t *testing.T) {
	provider := NewProvider(stubPolicyRepo{err: policy.ErrPolicyNotFound}, testDefaults())
	pol, err := provider.Resolve(context.Background(), "branch-1", "comp-1")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Minute, pol.BreakLimit("nap"))
}
