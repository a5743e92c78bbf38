package correction

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/correction"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type ServiceImpl struct {
	db          *database.DB
	corrections correction.Repository
	records     attendance.RecordRepository
	breaks      attendance.BreakRepository
	employees   employee.Repository
	shifts      shift.Repository
	policies    policy.Provider
}

func NewService(
	db *database.DB,
	correctionRepo correction.Repository,
	recordRepo attendance.RecordRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	policyProvider policy.Provider,
) correction.Service {
	return &ServiceImpl{
		db:          db,
		corrections: correctionRepo,
		records:     recordRepo,
		breaks:      breakRepo,
		employees:   employeeRepo,
		shifts:      shiftRepo,
		policies:    policyProvider,
	}
}

type identity struct {
	CompanyID  string
	EmployeeID string
	UserID     string
}

func identityFromContext(ctx context.Context) (identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return identity{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return identity{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return identity{}, fmt.Errorf("user_id claim is missing or invalid")
	}

	employeeID, _ := claims["employee_id"].(string)

	return identity{CompanyID: companyID, EmployeeID: employeeID, UserID: userID}, nil
}

// Request implements correction.Service.
func (s *ServiceImpl) Request(ctx context.Context, req correction.RequestCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, req.RecordID, id.CompanyID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	var proposedCheckIn, proposedCheckOut *time.Time
	if req.ProposedCheckIn != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ProposedCheckIn)
		proposedCheckIn = &parsed
	}
	if req.ProposedCheckOut != nil {
		parsed, _ := time.Parse(time.RFC3339, *req.ProposedCheckOut)
		proposedCheckOut = &parsed
	}

	if proposedCheckIn != nil && proposedCheckOut != nil && proposedCheckOut.Before(*proposedCheckIn) {
		return correction.CorrectionResponse{}, attendance.ErrInvalidTimestamp
	}

	// A correction that proposes exactly the stored values changes nothing.
	if !proposesChange(rec, proposedCheckIn, proposedCheckOut) {
		return correction.CorrectionResponse{}, correction.ErrNoChangeRequested
	}

	corr := correction.Correction{
		RecordID:         rec.ID,
		CompanyID:        id.CompanyID,
		RequestedBy:      id.UserID,
		ProposedCheckIn:  proposedCheckIn,
		ProposedCheckOut: proposedCheckOut,
		Reason:           req.Reason,
		Status:           correction.StatusPending,
	}

	created, err := s.corrections.Create(ctx, corr)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return mapCorrectionToResponse(created), nil
}

// proposesChange reports whether at least one proposed timestamp differs from
// the stored value it would replace.
func proposesChange(rec attendance.Record, proposedIn, proposedOut *time.Time) bool {
	if proposedIn != nil && (rec.CheckIn == nil || !proposedIn.Equal(*rec.CheckIn)) {
		return true
	}
	if proposedOut != nil && (rec.CheckOut == nil || !proposedOut.Equal(*rec.CheckOut)) {
		return true
	}
	return false
}

// Decide implements correction.Service.
func (s *ServiceImpl) Decide(ctx context.Context, req correction.DecideCorrectionRequest) (correction.DecisionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.DecisionResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return correction.DecisionResponse{}, err
	}

	decision := correction.Status(req.Decision)

	var (
		decided       correction.Correction
		updatedRecord *attendance.Record
	)
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		corr, err := s.corrections.GetByIDForUpdate(txCtx, req.CorrectionID, id.CompanyID)
		if err != nil {
			return err
		}
		if corr.Decided() {
			return correction.ErrAlreadyDecided
		}

		now := time.Now()
		corr.Status = decision
		corr.DecidedBy = &id.UserID
		corr.DecidedAt = &now
		corr.Comments = req.Comments

		if decision == correction.StatusApproved {
			rec, err := s.replayRecord(txCtx, corr, id.CompanyID)
			if err != nil {
				return err
			}
			updatedRecord = &rec
		}

		// UpdateDecision only matches the pending row, so a concurrent decider
		// that already won surfaces here as ErrAlreadyDecided.
		if err := s.corrections.UpdateDecision(txCtx, corr); err != nil {
			return err
		}

		decided = corr
		return nil
	})
	if err != nil {
		return correction.DecisionResponse{}, err
	}

	resp := correction.DecisionResponse{Correction: mapCorrectionToResponse(decided)}
	if updatedRecord != nil {
		recResp := mapRecordToResponse(*updatedRecord)
		resp.Record = &recResp
	}

	return resp, nil
}

// replayRecord applies the correction's proposed timestamps to the locked
// record and recomputes every derived field from scratch.
func (s *ServiceImpl) replayRecord(ctx context.Context, corr correction.Correction, companyID string) (attendance.Record, error) {
	rec, err := s.records.GetByIDForUpdate(ctx, corr.RecordID, companyID)
	if err != nil {
		return attendance.Record{}, err
	}

	checkIn := rec.CheckIn
	checkOut := rec.CheckOut
	if corr.ProposedCheckIn != nil {
		checkIn = corr.ProposedCheckIn
	}
	if corr.ProposedCheckOut != nil {
		checkOut = corr.ProposedCheckOut
	}
	if checkIn == nil {
		return attendance.Record{}, attendance.ErrInvalidTimestamp
	}
	if checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.Record{}, attendance.ErrInvalidTimestamp
	}

	// The record's date is immutable; a correction cannot move the check-in
	// onto another calendar day.
	if checkIn.Format("2006-01-02") != rec.Date.Format("2006-01-02") {
		return attendance.Record{}, attendance.ErrInvalidTimestamp
	}

	emp, err := s.employees.GetByID(ctx, rec.EmployeeID, companyID)
	if err != nil {
		return attendance.Record{}, err
	}
	if emp.ShiftID == nil {
		return attendance.Record{}, shift.ErrShiftNotFound
	}
	sh, err := s.shifts.GetByID(ctx, *emp.ShiftID, companyID)
	if err != nil {
		return attendance.Record{}, err
	}
	pol, err := s.policies.Resolve(ctx, emp.BranchID, companyID)
	if err != nil {
		return attendance.Record{}, err
	}

	// Same tolerance window the live check-out path enforces.
	if checkOut != nil && !attendance.WithinDate(*checkOut, attendance.DayStart(*checkIn), pol.Tolerance()) {
		return attendance.Record{}, attendance.ErrInvalidTimestamp
	}

	openBreak, err := s.breaks.GetOpenByRecord(ctx, rec.ID)
	if err != nil {
		return attendance.Record{}, err
	}
	if openBreak != nil && checkOut != nil {
		// A record cannot complete while a break is still running.
		return attendance.Record{}, attendance.ErrOpenBreakExists
	}

	breakMinutes, err := s.breaks.SumClosedMinutes(ctx, rec.ID)
	if err != nil {
		return attendance.Record{}, err
	}

	shiftStart := attendance.ShiftStartOn(*checkIn, sh.StartTime)
	derived := attendance.Classify(
		*checkIn, checkOut,
		time.Duration(breakMinutes)*time.Minute,
		shiftStart, pol.StandardShift(), pol.Grace(),
	)
	if openBreak != nil {
		// The open break still owns the record's status.
		derived.Status = attendance.StatusOnBreak
	}

	rec.CheckIn = checkIn
	rec.CheckOut = checkOut
	rec.Status = derived.Status
	rec.LateMinutes = derived.LateMinutes
	rec.OvertimeMinutes = derived.OvertimeMinutes
	rec.WorkMinutes = derived.WorkMinutes

	if err := s.records.Update(ctx, rec); err != nil {
		return attendance.Record{}, err
	}

	return rec, nil
}

// Get implements correction.Service.
func (s *ServiceImpl) Get(ctx context.Context, id string) (correction.CorrectionResponse, error) {
	identity, err := identityFromContext(ctx)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	corr, err := s.corrections.GetByID(ctx, id, identity.CompanyID)
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return mapCorrectionToResponse(corr), nil
}

// ListByRecord implements correction.Service.
func (s *ServiceImpl) ListByRecord(ctx context.Context, recordID string) ([]correction.CorrectionResponse, error) {
	identity, err := identityFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Record existence doubles as the company scope check.
	if _, err := s.records.GetByID(ctx, recordID, identity.CompanyID); err != nil {
		return nil, err
	}

	corrections, err := s.corrections.ListByRecord(ctx, recordID, identity.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}

	responses := make([]correction.CorrectionResponse, 0, len(corrections))
	for _, corr := range corrections {
		responses = append(responses, mapCorrectionToResponse(corr))
	}

	return responses, nil
}

func timePtrToRFC3339(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func mapCorrectionToResponse(corr correction.Correction) correction.CorrectionResponse {
	return correction.CorrectionResponse{
		ID:               corr.ID,
		RecordID:         corr.RecordID,
		RequestedBy:      corr.RequestedBy,
		ProposedCheckIn:  timePtrToRFC3339(corr.ProposedCheckIn),
		ProposedCheckOut: timePtrToRFC3339(corr.ProposedCheckOut),
		Reason:           corr.Reason,
		Status:           string(corr.Status),
		DecidedBy:        corr.DecidedBy,
		DecidedAt:        timePtrToRFC3339(corr.DecidedAt),
		Comments:         corr.Comments,
		CreatedAt:        corr.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:              rec.ID,
		EmployeeID:      rec.EmployeeID,
		EmployeeName:    rec.EmployeeName,
		Date:            rec.Date.Format("2006-01-02"),
		ShiftID:         rec.ShiftID,
		CheckIn:         timePtrToRFC3339(rec.CheckIn),
		CheckOut:        timePtrToRFC3339(rec.CheckOut),
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
	}
}
