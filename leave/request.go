package leave

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bokra/hrms/generic"
)

// =============================================================================
// REQUEST SERVICE - Submission and approval workflow
// =============================================================================

// RequestService runs the leave request lifecycle:
//
//	Submit  -> PENDING
//	Approve -> PENDING to APPROVED
//	Reject  -> PENDING to REJECTED
//
// No other transition exists.
type RequestService struct {
	Repo       Repository
	Calculator *Calculator
	Clock      generic.Clock
	Logger     *zap.Logger

	// EnforceBalance rejects approvals that would leave a negative balance.
	// Off by default: over-use is displayed, not prevented.
	EnforceBalance bool

	Now   func() time.Time
	NewID func() generic.RequestID

	// serializes read-modify-write of request status
	mu sync.Mutex
}

// NewRequestService builds a service sharing the calculator's clock.
func NewRequestService(repo Repository, calc *Calculator, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := generic.Clock(generic.SystemClock{})
	if calc != nil && calc.Clock != nil {
		clock = calc.Clock
	}
	return &RequestService{
		Repo:       repo,
		Calculator: calc,
		Clock:      clock,
		Logger:     logger,
		Now:        time.Now,
		NewID:      func() generic.RequestID { return generic.RequestID(uuid.NewString()) },
	}
}

// SubmitInput is what an employee fills in on the leave form.
// A zero Days is computed from the date range.
type SubmitInput struct {
	EmployeeID generic.EmployeeID
	LeaveType  LeaveTypeName
	StartDate  generic.TimePoint
	EndDate    generic.TimePoint
	Days       generic.Amount
	Reason     string
}

// CalculateDays returns the inclusive calendar day count of [start, end].
func CalculateDays(start, end generic.TimePoint) (generic.Amount, error) {
	if end.Before(start) {
		return generic.Amount{}, generic.ErrInvalidPeriod
	}
	return generic.NewAmountFromInt(generic.DaysBetween(start, end)+1, generic.UnitDays), nil
}

// Submit validates and stores a new PENDING request.
func (rs *RequestService) Submit(ctx context.Context, in SubmitInput) (LeaveRequest, error) {
	span, err := CalculateDays(in.StartDate, in.EndDate)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("submit leave request: %w", err)
	}
	days := in.Days
	if days.Value.IsZero() {
		days = span
	}
	days.Unit = generic.UnitDays
	if !days.IsPositive() {
		return LeaveRequest{}, fmt.Errorf("submit leave request: %w: days must be positive", generic.ErrInvalidPeriod)
	}

	emp, err := rs.Repo.GetEmployee(ctx, in.EmployeeID)
	if err != nil {
		return LeaveRequest{}, err
	}
	settings, err := rs.leaveTypes(ctx)
	if err != nil {
		return LeaveRequest{}, err
	}
	setting, ok := FindSetting(settings, in.LeaveType)
	if !ok {
		return LeaveRequest{}, fmt.Errorf("%w: %s", generic.ErrLeaveTypeNotFound, in.LeaveType)
	}
	history, err := rs.Repo.ListLeaveRequests(ctx)
	if err != nil {
		return LeaveRequest{}, fmt.Errorf("list leave requests: %w", err)
	}

	req := LeaveRequest{
		ID:         rs.NewID(),
		EmployeeID: emp.ID,
		LeaveType:  setting.Name,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		Days:       days,
		Status:     StatusPending,
		Reason:     in.Reason,
		CreatedAt:  rs.Now().UTC(),
	}

	if err := CheckEligibility(emp, setting, req, history, rs.Clock.Today()); err != nil {
		rs.Logger.Info("leave request rejected by policy",
			zap.String("employee_id", string(emp.ID)),
			zap.String("leave_type", string(setting.Name)),
			zap.Error(err),
		)
		return LeaveRequest{}, err
	}

	if err := rs.Repo.SaveLeaveRequest(ctx, req); err != nil {
		return LeaveRequest{}, fmt.Errorf("save leave request: %w", err)
	}
	rs.Logger.Info("leave request submitted",
		zap.String("request_id", string(req.ID)),
		zap.String("employee_id", string(emp.ID)),
		zap.String("leave_type", string(req.LeaveType)),
		zap.String("days", req.Days.Value.String()),
	)
	return req, nil
}

// Approve moves a PENDING request to APPROVED. The times-in-service limit
// is checked again against the current history, since several requests
// of the same type may be pending at once.
func (rs *RequestService) Approve(ctx context.Context, id generic.RequestID, approverID string) (LeaveRequest, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	req, err := rs.pending(ctx, id, StatusApproved)
	if err != nil {
		return LeaveRequest{}, err
	}

	if err := rs.checkTimesInService(ctx, req); err != nil {
		return LeaveRequest{}, err
	}

	if rs.EnforceBalance && rs.Calculator != nil {
		if err := rs.checkBalance(ctx, req); err != nil {
			return LeaveRequest{}, err
		}
	}

	return rs.decide(ctx, req, StatusApproved, approverID, "")
}

// Reject moves a PENDING request to REJECTED.
func (rs *RequestService) Reject(ctx context.Context, id generic.RequestID, approverID, reason string) (LeaveRequest, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	req, err := rs.pending(ctx, id, StatusRejected)
	if err != nil {
		return LeaveRequest{}, err
	}
	return rs.decide(ctx, req, StatusRejected, approverID, reason)
}

// ListForEmployee returns the employee's requests ordered by start date.
func (rs *RequestService) ListForEmployee(ctx context.Context, employeeID generic.EmployeeID) ([]LeaveRequest, error) {
	if _, err := rs.Repo.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	all, err := rs.Repo.ListLeaveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}
	var out []LeaveRequest
	for _, r := range all {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

func (rs *RequestService) pending(ctx context.Context, id generic.RequestID, target RequestStatus) (LeaveRequest, error) {
	req, err := rs.Repo.GetLeaveRequest(ctx, id)
	if err != nil {
		return LeaveRequest{}, err
	}
	if req.Status != StatusPending {
		return LeaveRequest{}, fmt.Errorf("%w: %s -> %s", generic.ErrInvalidTransition, req.Status, target)
	}
	return req, nil
}

func (rs *RequestService) decide(ctx context.Context, req LeaveRequest, status RequestStatus, approverID, reason string) (LeaveRequest, error) {
	now := rs.Now().UTC()
	req.Status = status
	req.DecidedBy = approverID
	req.DecidedAt = &now
	req.DecisionReason = reason

	if err := rs.Repo.SaveLeaveRequest(ctx, req); err != nil {
		return LeaveRequest{}, fmt.Errorf("save leave request: %w", err)
	}
	rs.Logger.Info("leave request decided",
		zap.String("request_id", string(req.ID)),
		zap.String("status", string(status)),
		zap.String("decided_by", approverID),
	)
	return req, nil
}

func (rs *RequestService) checkTimesInService(ctx context.Context, req LeaveRequest) error {
	settings, err := rs.leaveTypes(ctx)
	if err != nil {
		return err
	}
	setting, ok := FindSetting(settings, req.LeaveType)
	if !ok {
		// type removed from the table after submission
		return nil
	}
	history, err := rs.Repo.ListLeaveRequests(ctx)
	if err != nil {
		return fmt.Errorf("list leave requests: %w", err)
	}
	if err := CheckTimesInService(req.EmployeeID, setting, req, history); err != nil {
		rs.Logger.Info("approval rejected by policy",
			zap.String("request_id", string(req.ID)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (rs *RequestService) checkBalance(ctx context.Context, req LeaveRequest) error {
	emp, err := rs.Repo.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return err
	}
	balances, err := rs.Calculator.Calculate(ctx, emp)
	if err != nil {
		return err
	}
	for _, b := range balances {
		if b.Type != req.LeaveType {
			continue
		}
		if b.Remaining.Sub(req.Days).IsNegative() {
			return &generic.InsufficientBalanceError{
				EmployeeID: emp.ID,
				LeaveType:  string(req.LeaveType),
				Available:  b.Remaining,
				Requested:  req.Days,
			}
		}
	}
	return nil
}

func (rs *RequestService) leaveTypes(ctx context.Context) ([]LeaveTypeSetting, error) {
	settings, err := rs.Repo.ListLeaveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	if len(settings) == 0 {
		return DefaultLeaveTypes(), nil
	}
	return settings, nil
}
