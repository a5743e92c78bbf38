package attendance

import (
	"context"
)

// Service defines business logic for the attendance record lifecycle and its
// nested break tracking.
type Service interface {
	// CheckIn opens the authenticated employee's record for the day
	CheckIn(ctx context.Context, req CheckInRequest) (RecordResponse, error)

	// CheckOut finalizes the employee's open record and its derived durations
	CheckOut(ctx context.Context, req CheckOutRequest) (RecordResponse, error)

	// StartBreak opens a break under a record; the record becomes on_break
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakResponse, error)

	// EndBreak closes a break, computes its duration and policy exceedance, and
	// reverts the record to its pre-break status
	EndBreak(ctx context.Context, req EndBreakRequest) (BreakResponse, error)

	// DecideBreak approves or rejects an exceeding break, exactly once
	DecideBreak(ctx context.Context, req DecideBreakRequest) (BreakResponse, error)

	// CreateManualEntry creates or overwrites a past-date record (admin/manager)
	CreateManualEntry(ctx context.Context, req ManualEntryRequest) (RecordResponse, error)

	// GetRecord retrieves a single record with its breaks
	GetRecord(ctx context.Context, id string) (RecordResponse, error)

	// ListRecords searches records with filters, sorting and pagination
	ListRecords(ctx context.Context, filter RecordFilter) (ListRecordsResponse, error)

	// DeleteRecord soft deletes a record and, through it, its children
	DeleteRecord(ctx context.Context, id string) error
}
