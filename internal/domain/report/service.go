package report

import (
	"context"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
)

// Service defines the read-only reporting surface.
type Service interface {
	// GetDailyCounts aggregates present/absent/late/on-break for a branch-day
	GetDailyCounts(ctx context.Context, req DailyCountsRequest) (DailyCountsResponse, error)

	// ListManualEntries lists manually entered records for audit, with the
	// entry author, paginated
	ListManualEntries(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error)
}
