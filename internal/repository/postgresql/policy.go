package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) policy.Repository {
	return &policyRepository{db: db}
}

// GetByBranch implements policy.Repository.
func (r *policyRepository) GetByBranch(ctx context.Context, branchID string, companyID string) (policy.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, branch_id,
			grace_minutes, standard_work_minutes, tolerance_minutes,
			meal_limit_minutes, personal_limit_minutes, other_limit_minutes,
			working_days, created_at, updated_at
		FROM attendance_policies
		WHERE branch_id = $1 AND company_id = $2
	`

	var pol policy.Policy
	var mealLimit, personalLimit, otherLimit int
	err := q.QueryRow(ctx, query, branchID, companyID).Scan(
		&pol.ID, &pol.CompanyID, &pol.BranchID,
		&pol.GraceMinutes, &pol.StandardWorkMinutes, &pol.ToleranceMinutes,
		&mealLimit, &personalLimit, &otherLimit,
		&pol.WorkingDays, &pol.CreatedAt, &pol.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return policy.Policy{}, policy.ErrPolicyNotFound
		}
		return policy.Policy{}, fmt.Errorf("failed to get policy by branch: %w", err)
	}

	pol.BreakLimitMinutes = map[string]int{
		string(attendance.BreakTypeMeal):     mealLimit,
		string(attendance.BreakTypePersonal): personalLimit,
		string(attendance.BreakTypeOther):    otherLimit,
	}

	return pol, nil
}
