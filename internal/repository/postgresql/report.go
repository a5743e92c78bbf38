package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.Repository {
	return &reportRepository{db: db}
}

// GetBranchDayStats implements report.Repository. On-break is detected from the
// open break rows rather than a cached flag; the stored facts are the source.
func (r *reportRepository) GetBranchDayStats(ctx context.Context, branchID string, date time.Time, companyID string) (report.BranchDayStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS present,
			COALESCE(SUM(CASE WHEN a.late_minutes > 0 THEN 1 ELSE 0 END), 0) AS late,
			COALESCE(SUM(CASE WHEN EXISTS (
				SELECT 1 FROM break_records b
				WHERE b.record_id = a.id AND b.end_at IS NULL
			) THEN 1 ELSE 0 END), 0) AS on_break
		FROM attendance_records a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.branch_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		  AND a.deleted_at IS NULL
	`

	var stats report.BranchDayStats
	err := q.QueryRow(ctx, query, branchID, date, companyID).Scan(
		&stats.Present, &stats.Late, &stats.OnBreak,
	)
	if err != nil {
		return report.BranchDayStats{}, fmt.Errorf("failed to get branch day stats: %w", err)
	}

	return stats, nil
}
