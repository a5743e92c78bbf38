package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-engine-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
)

type ServiceImpl struct {
	db        *database.DB
	records   attendance.RecordRepository
	breaks    attendance.BreakRepository
	employees employee.Repository
	shifts    shift.Repository
	policies  policy.Provider
}

func NewService(
	db *database.DB,
	recordRepo attendance.RecordRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.Repository,
	shiftRepo shift.Repository,
	policyProvider policy.Provider,
) attendance.Service {
	return &ServiceImpl{
		db:        db,
		records:   recordRepo,
		breaks:    breakRepo,
		employees: employeeRepo,
		shifts:    shiftRepo,
		policies:  policyProvider,
	}
}

// identity is the audit context carried by the JWT claims.
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

// shiftContext bundles the external collaborator lookups the classifier needs.
type shiftContext struct {
	Shift  shift.Shift
	Policy policy.Policy
}

func (s *ServiceImpl) resolveShiftContext(ctx context.Context, employeeID, companyID string) (shiftContext, error) {
	emp, err := s.employees.GetByID(ctx, employeeID, companyID)
	if err != nil {
		return shiftContext{}, err
	}

	if emp.ShiftID == nil {
		return shiftContext{}, shift.ErrShiftNotFound
	}

	sh, err := s.shifts.GetByID(ctx, *emp.ShiftID, companyID)
	if err != nil {
		return shiftContext{}, err
	}

	pol, err := s.policies.Resolve(ctx, emp.BranchID, companyID)
	if err != nil {
		return shiftContext{}, err
	}

	return shiftContext{Shift: sh, Policy: pol}, nil
}

// CheckIn implements attendance.Service.
func (s *ServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	t, _ := time.Parse(time.RFC3339, req.Timestamp)

	sc, err := s.resolveShiftContext(ctx, id.EmployeeID, id.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	date := attendance.DayStart(t)

	existing, err := s.records.GetByEmployeeAndDate(ctx, id.EmployeeID, date, id.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to check for existing record: %w", err)
	}
	if existing != nil {
		return attendance.RecordResponse{}, attendance.ErrDuplicateRecord
	}

	shiftStart := attendance.ShiftStartOn(t, sc.Shift.StartTime)
	status, lateMinutes := attendance.ClassifyArrival(t, shiftStart, sc.Policy.Grace())

	record := attendance.Record{
		EmployeeID:  id.EmployeeID,
		CompanyID:   id.CompanyID,
		Date:        date,
		ShiftID:     &sc.Shift.ID,
		CheckIn:     &t,
		Status:      status,
		LateMinutes: lateMinutes,
		Location:    req.Location,
		Notes:       req.Notes,
	}

	// The (employee, date) unique index is the real guard; a concurrent
	// duplicate that slipped past the existence check still fails here.
	created, err := s.records.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrDuplicateRecord) {
			return attendance.RecordResponse{}, attendance.ErrDuplicateRecord
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return mapRecordToResponse(created, nil), nil
}

// CheckOut implements attendance.Service.
func (s *ServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	t, _ := time.Parse(time.RFC3339, req.Timestamp)

	open, err := s.records.GetOpenByEmployee(ctx, id.EmployeeID, id.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	sc, err := s.resolveShiftContext(ctx, id.EmployeeID, id.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	var result attendance.Record
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		rec, err := s.records.GetByIDForUpdate(txCtx, open.ID, id.CompanyID)
		if err != nil {
			return err
		}

		if rec.Status == attendance.StatusOnBreak {
			return attendance.ErrOpenBreakExists
		}
		if rec.Status != attendance.StatusPresent && rec.Status != attendance.StatusLate {
			return attendance.ErrInvalidStateTransition
		}

		openBreak, err := s.breaks.GetOpenByRecord(txCtx, rec.ID)
		if err != nil {
			return err
		}
		if openBreak != nil {
			return attendance.ErrOpenBreakExists
		}

		if rec.CheckIn == nil || t.Before(*rec.CheckIn) {
			return attendance.ErrInvalidTimestamp
		}
		if !attendance.WithinDate(t, attendance.DayStart(*rec.CheckIn), sc.Policy.Tolerance()) {
			return attendance.ErrInvalidTimestamp
		}

		breakMinutes, err := s.breaks.SumClosedMinutes(txCtx, rec.ID)
		if err != nil {
			return err
		}

		shiftStart := attendance.ShiftStartOn(*rec.CheckIn, sc.Shift.StartTime)
		derived := attendance.Classify(
			*rec.CheckIn, &t,
			time.Duration(breakMinutes)*time.Minute,
			shiftStart, sc.Policy.StandardShift(), sc.Policy.Grace(),
		)

		rec.CheckOut = &t
		rec.Status = derived.Status
		rec.LateMinutes = derived.LateMinutes
		rec.OvertimeMinutes = derived.OvertimeMinutes
		rec.WorkMinutes = derived.WorkMinutes

		if err := s.records.Update(txCtx, rec); err != nil {
			return err
		}

		result = rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return mapRecordToResponse(result, nil), nil
}

// StartBreak implements attendance.Service.
func (s *ServiceImpl) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BreakResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	t, _ := time.Parse(time.RFC3339, req.Timestamp)

	var result attendance.Break
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		rec, err := s.records.GetByIDForUpdate(txCtx, req.RecordID, id.CompanyID)
		if err != nil {
			return err
		}

		if rec.Status == attendance.StatusOnBreak {
			return attendance.ErrBreakAlreadyOpen
		}
		if rec.Status != attendance.StatusPresent && rec.Status != attendance.StatusLate {
			return attendance.ErrInvalidStateTransition
		}

		if rec.CheckIn == nil || t.Before(*rec.CheckIn) {
			return attendance.ErrInvalidTimestamp
		}

		openBreak, err := s.breaks.GetOpenByRecord(txCtx, rec.ID)
		if err != nil {
			return err
		}
		if openBreak != nil {
			return attendance.ErrBreakAlreadyOpen
		}

		brk := attendance.Break{
			RecordID: rec.ID,
			Type:     attendance.BreakType(strings.ToLower(req.Type)),
			StartAt:  t,
		}

		// Backed by the one-open-break partial unique index.
		created, err := s.breaks.Create(txCtx, brk)
		if err != nil {
			return err
		}

		rec.Status = attendance.StatusOnBreak
		if err := s.records.Update(txCtx, rec); err != nil {
			return err
		}

		result = created
		return nil
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return mapBreakToResponse(result), nil
}

// EndBreak implements attendance.Service.
func (s *ServiceImpl) EndBreak(ctx context.Context, req attendance.EndBreakRequest) (attendance.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BreakResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	t, _ := time.Parse(time.RFC3339, req.Timestamp)

	var result attendance.Break
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		brk, err := s.breaks.GetByID(txCtx, req.BreakID, id.CompanyID)
		if err != nil {
			return err
		}
		if !brk.Open() {
			return attendance.ErrBreakAlreadyClosed
		}

		rec, err := s.records.GetByIDForUpdate(txCtx, brk.RecordID, id.CompanyID)
		if err != nil {
			return err
		}

		if t.Before(brk.StartAt) {
			return attendance.ErrInvalidTimestamp
		}

		sc, err := s.resolveShiftContext(txCtx, rec.EmployeeID, id.CompanyID)
		if err != nil {
			return err
		}

		duration := t.Sub(brk.StartAt)
		durationMinutes := int(duration.Minutes())
		isExceeding, exceededMinutes := attendance.ClassifyBreak(duration, sc.Policy.BreakLimit(string(brk.Type)))

		brk.EndAt = &t
		brk.DurationMinutes = &durationMinutes
		brk.IsExceeding = isExceeding
		brk.ExceededMinutes = exceededMinutes
		if isExceeding {
			pending := attendance.ApprovalPending
			brk.ApprovalStatus = &pending
		}

		// The guarded close serializes concurrent end attempts: the openness
		// check above reads a snapshot, so the losing writer must fail here.
		if err := s.breaks.Close(txCtx, brk); err != nil {
			return err
		}

		// Revert to the pre-break status by replaying arrival classification.
		if rec.CheckIn != nil {
			shiftStart := attendance.ShiftStartOn(*rec.CheckIn, sc.Shift.StartTime)
			status, _ := attendance.ClassifyArrival(*rec.CheckIn, shiftStart, sc.Policy.Grace())
			rec.Status = status
		}
		if err := s.records.Update(txCtx, rec); err != nil {
			return err
		}

		result = brk
		return nil
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return mapBreakToResponse(result), nil
}

// DecideBreak implements attendance.Service.
func (s *ServiceImpl) DecideBreak(ctx context.Context, req attendance.DecideBreakRequest) (attendance.BreakResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.BreakResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	var result attendance.Break
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		brk, err := s.breaks.GetByID(txCtx, req.BreakID, id.CompanyID)
		if err != nil {
			return err
		}

		if brk.ApprovalStatus == nil {
			return attendance.ErrBreakNotPending
		}
		if *brk.ApprovalStatus != attendance.ApprovalPending {
			return attendance.ErrBreakAlreadyDecided
		}

		decision := attendance.ApprovalStatus(strings.ToLower(req.Decision))
		brk.ApprovalStatus = &decision
		brk.ApprovedBy = &id.UserID

		// UpdateDecision only matches the pending row, so a concurrent decider
		// that already won surfaces here as ErrBreakAlreadyDecided.
		if err := s.breaks.UpdateDecision(txCtx, brk); err != nil {
			return err
		}

		result = brk
		return nil
	})
	if err != nil {
		return attendance.BreakResponse{}, err
	}

	return mapBreakToResponse(result), nil
}

// CreateManualEntry implements attendance.Service.
func (s *ServiceImpl) CreateManualEntry(ctx context.Context, req attendance.ManualEntryRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	checkIn, _ := time.Parse(time.RFC3339, req.CheckIn)
	var checkOut *time.Time
	if req.CheckOut != nil && *req.CheckOut != "" {
		parsed, _ := time.Parse(time.RFC3339, *req.CheckOut)
		checkOut = &parsed
	}

	// The entered date is authoritative; the check-in must fall on it.
	if checkIn.Format("2006-01-02") != req.Date {
		return attendance.RecordResponse{}, attendance.ErrInvalidTimestamp
	}
	date := attendance.DayStart(checkIn)
	if date.After(time.Now()) {
		return attendance.RecordResponse{}, attendance.ErrInvalidTimestamp
	}

	sc, err := s.resolveShiftContext(ctx, req.EmployeeID, id.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	if checkOut != nil {
		if checkOut.Before(checkIn) {
			return attendance.RecordResponse{}, attendance.ErrInvalidTimestamp
		}
		if !attendance.WithinDate(*checkOut, date, sc.Policy.Tolerance()) {
			return attendance.RecordResponse{}, attendance.ErrInvalidTimestamp
		}
	}

	var result attendance.Record
	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.records.GetByEmployeeAndDate(txCtx, req.EmployeeID, date, id.CompanyID)
		if err != nil {
			return fmt.Errorf("failed to check for existing record: %w", err)
		}

		shiftStart := attendance.ShiftStartOn(checkIn, sc.Shift.StartTime)

		if existing == nil {
			derived := attendance.Classify(checkIn, checkOut, 0, shiftStart, sc.Policy.StandardShift(), sc.Policy.Grace())
			record := attendance.Record{
				EmployeeID:      req.EmployeeID,
				CompanyID:       id.CompanyID,
				Date:            date,
				ShiftID:         &sc.Shift.ID,
				CheckIn:         &checkIn,
				CheckOut:        checkOut,
				Status:          derived.Status,
				LateMinutes:     derived.LateMinutes,
				OvertimeMinutes: derived.OvertimeMinutes,
				WorkMinutes:     derived.WorkMinutes,
				IsManualEntry:   true,
				ManualEntryBy:   &id.UserID,
				Location:        req.Location,
				Notes:           req.Notes,
			}
			result, err = s.records.Create(txCtx, record)
			return err
		}

		// Overwrite path: existing breaks keep counting against the new times.
		rec, err := s.records.GetByIDForUpdate(txCtx, existing.ID, id.CompanyID)
		if err != nil {
			return err
		}

		breakMinutes, err := s.breaks.SumClosedMinutes(txCtx, rec.ID)
		if err != nil {
			return err
		}

		derived := attendance.Classify(
			checkIn, checkOut,
			time.Duration(breakMinutes)*time.Minute,
			shiftStart, sc.Policy.StandardShift(), sc.Policy.Grace(),
		)

		rec.CheckIn = &checkIn
		rec.CheckOut = checkOut
		rec.Status = derived.Status
		rec.LateMinutes = derived.LateMinutes
		rec.OvertimeMinutes = derived.OvertimeMinutes
		rec.WorkMinutes = derived.WorkMinutes
		rec.IsManualEntry = true
		rec.ManualEntryBy = &id.UserID
		if req.Location != nil {
			rec.Location = req.Location
		}
		if req.Notes != nil {
			rec.Notes = req.Notes
		}

		if err := s.records.Update(txCtx, rec); err != nil {
			return err
		}

		result = rec
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return mapRecordToResponse(result, nil), nil
}

// GetRecord implements attendance.Service.
func (s *ServiceImpl) GetRecord(ctx context.Context, id string) (attendance.RecordResponse, error) {
	identity, err := identityFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.records.GetByID(ctx, id, identity.CompanyID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	breaks, err := s.breaks.ListByRecord(ctx, rec.ID)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to list breaks: %w", err)
	}

	return mapRecordToResponse(rec, breaks), nil
}

// ListRecords implements attendance.Service.
func (s *ServiceImpl) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	id, err := identityFromContext(ctx)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := s.records.List(ctx, filter, id.CompanyID)
	if err != nil {
		return attendance.ListRecordsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec, nil))
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

// DeleteRecord implements attendance.Service.
func (s *ServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	identity, err := identityFromContext(ctx)
	if err != nil {
		return err
	}

	if err := s.records.SoftDelete(ctx, id, identity.CompanyID); err != nil {
		return err
	}

	return nil
}

// timePtrToRFC3339 safely converts a *time.Time to a string.
func timePtrToRFC3339(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func mapBreakToResponse(brk attendance.Break) attendance.BreakResponse {
	var approvalStatus *string
	if brk.ApprovalStatus != nil {
		v := string(*brk.ApprovalStatus)
		approvalStatus = &v
	}

	return attendance.BreakResponse{
		ID:              brk.ID,
		RecordID:        brk.RecordID,
		Type:            string(brk.Type),
		StartAt:         brk.StartAt.Format(time.RFC3339),
		EndAt:           timePtrToRFC3339(brk.EndAt),
		DurationMinutes: brk.DurationMinutes,
		IsExceeding:     brk.IsExceeding,
		ExceededMinutes: brk.ExceededMinutes,
		ApprovalStatus:  approvalStatus,
		ApprovedBy:      brk.ApprovedBy,
	}
}

func mapRecordToResponse(rec attendance.Record, breaks []attendance.Break) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		EmployeeName:      rec.EmployeeName,
		Date:              rec.Date.Format("2006-01-02"),
		ShiftID:           rec.ShiftID,
		CheckIn:           timePtrToRFC3339(rec.CheckIn),
		CheckOut:          timePtrToRFC3339(rec.CheckOut),
		Status:            string(rec.Status),
		IsLate:            rec.LateMinutes > 0,
		LateMinutes:       rec.LateMinutes,
		OvertimeMinutes:   rec.OvertimeMinutes,
		WorkMinutes:       rec.WorkMinutes,
		TotalBreakMinutes: rec.TotalBreakMinutes,
		IsManualEntry:     rec.IsManualEntry,
		ManualEntryBy:     rec.ManualEntryBy,
		Location:          rec.Location,
		Notes:             rec.Notes,
		CreatedAt:         rec.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:         rec.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if len(breaks) > 0 {
		total := 0
		responses := make([]attendance.BreakResponse, 0, len(breaks))
		for _, brk := range breaks {
			if brk.DurationMinutes != nil {
				total += *brk.DurationMinutes
			}
			responses = append(responses, mapBreakToResponse(brk))
		}
		resp.Breaks = responses
		resp.TotalBreakMinutes = &total
	}

	return resp
}
