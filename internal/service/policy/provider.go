package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/config"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
)

type ProviderImpl struct {
	repo     policy.Repository
	defaults config.PolicyDefaults
}

func NewProvider(repo policy.Repository, defaults config.PolicyDefaults) policy.Provider {
	return &ProviderImpl{repo: repo, defaults: defaults}
}

// Resolve implements policy.Provider. A branch without its own policy row gets
// the company defaults from configuration.
func (p *ProviderImpl) Resolve(ctx context.Context, branchID string, companyID string) (policy.Policy, error) {
	pol, err := p.repo.GetByBranch(ctx, branchID, companyID)
	if err != nil {
		if errors.Is(err, policy.ErrPolicyNotFound) {
			return p.defaultPolicy(branchID, companyID), nil
		}
		return policy.Policy{}, fmt.Errorf("failed to resolve policy for branch: %w", err)
	}
	return pol, nil
}

func (p *ProviderImpl) defaultPolicy(branchID string, companyID string) policy.Policy {
	limits := make(map[string]int, len(p.defaults.BreakLimitMinutes))
	for breakType, limit := range p.defaults.BreakLimitMinutes {
		limits[breakType] = limit
	}

	return policy.Policy{
		CompanyID:           companyID,
		BranchID:            &branchID,
		GraceMinutes:        p.defaults.GraceMinutes,
		StandardWorkMinutes: p.defaults.StandardWorkMinutes,
		ToleranceMinutes:    p.defaults.ToleranceMinutes,
		BreakLimitMinutes:   limits,
		WorkingDays:         p.defaults.WorkingDays,
	}
}
