package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/report"
	"github.com/go-chi/jwtauth/v5"
)

type ServiceImpl struct {
	stats     report.Repository
	records   attendance.RecordRepository
	employees employee.Repository
}

func NewService(
	statsRepo report.Repository,
	recordRepo attendance.RecordRepository,
	employeeRepo employee.Repository,
) report.Service {
	return &ServiceImpl{
		stats:     statsRepo,
		records:   recordRepo,
		employees: employeeRepo,
	}
}

func companyIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", fmt.Errorf("company_id claim is missing or invalid")
	}

	return companyID, nil
}

// GetDailyCounts implements report.Service.
func (s *ServiceImpl) GetDailyCounts(ctx context.Context, req report.DailyCountsRequest) (report.DailyCountsResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DailyCountsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return report.DailyCountsResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	stats, err := s.stats.GetBranchDayStats(ctx, req.BranchID, date, companyID)
	if err != nil {
		return report.DailyCountsResponse{}, fmt.Errorf("failed to aggregate branch day stats: %w", err)
	}

	active, err := s.employees.CountActiveByBranch(ctx, req.BranchID, companyID)
	if err != nil {
		return report.DailyCountsResponse{}, fmt.Errorf("failed to count active employees: %w", err)
	}

	absent := active - stats.Present
	if absent < 0 {
		absent = 0
	}

	return report.DailyCountsResponse{
		BranchID: req.BranchID,
		Date:     req.Date,
		Present:  stats.Present,
		Absent:   absent,
		Late:     stats.Late,
		OnBreak:  stats.OnBreak,
	}, nil
}

// ListManualEntries implements report.Service.
func (s *ServiceImpl) ListManualEntries(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	// The audit view only ever shows manual entries.
	manual := true
	filter.IsManualEntry = &manual

	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	companyID, err := companyIDFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := s.records.List(ctx, filter, companyID)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list manual entries: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, attendance.RecordResponse{
			ID:              rec.ID,
			EmployeeID:      rec.EmployeeID,
			EmployeeName:    rec.EmployeeName,
			Date:            rec.Date.Format("2006-01-02"),
			ShiftID:         rec.ShiftID,
			CheckIn:         formatTimePtr(rec.CheckIn),
			CheckOut:        formatTimePtr(rec.CheckOut),
			Status:          string(rec.Status),
			IsLate:          rec.LateMinutes > 0,
			LateMinutes:     rec.LateMinutes,
			OvertimeMinutes: rec.OvertimeMinutes,
			WorkMinutes:     rec.WorkMinutes,
			IsManualEntry:   rec.IsManualEntry,
			ManualEntryBy:   rec.ManualEntryBy,
			Location:        rec.Location,
			Notes:           rec.Notes,
			CreatedAt:       rec.CreatedAt.Format("2006-01-02 15:04:05"),
			UpdatedAt:       rec.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Records:    responses,
	}, nil
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}
