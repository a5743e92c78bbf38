package correction

import (
	"context"
)

// Service defines business logic for the correction approval workflow.
type Service interface {
	// Request files a correction against a record
	Request(ctx context.Context, req RequestCorrectionRequest) (CorrectionResponse, error)

	// Decide approves or rejects a pending correction. Approval replays the
	// attendance classification over the proposed timestamps in the same
	// transaction that marks the correction terminal.
	Decide(ctx context.Context, req DecideCorrectionRequest) (DecisionResponse, error)

	// Get retrieves a single correction
	Get(ctx context.Context, id string) (CorrectionResponse, error)

	// ListByRecord retrieves the corrections filed against a record
	ListByRecord(ctx context.Context, recordID string) ([]CorrectionResponse, error)
}
