package leave_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
	"github.com/bokra/hrms/store/memory"
)

func newTestRequestService(t *testing.T) (*leave.RequestService, *memory.Store) {
	t.Helper()
	calc, store := newTestCalculator(t)
	svc := leave.NewRequestService(store, calc, nil)

	seq := 0
	svc.NewID = func() generic.RequestID {
		seq++
		return generic.RequestID(fmt.Sprintf("req-%d", seq))
	}
	svc.Now = func() time.Time { return time.Date(2024, time.June, 15, 9, 0, 0, 0, time.UTC) }

	ctx := context.Background()
	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{
		ID:          "emp-1",
		Name:        "Karim Hassan",
		BranchID:    "cairo",
		HireDate:    date(2018, time.September, 1),
		DateOfBirth: date(1990, time.March, 3),
	}))
	return svc, store
}

func submit(typ leave.LeaveTypeName, start, end generic.TimePoint) leave.SubmitInput {
	return leave.SubmitInput{EmployeeID: "emp-1", LeaveType: typ, StartDate: start, EndDate: end}
}

// =============================================================================
// SUBMIT
// =============================================================================

func TestCalculateDays_IsInclusive(t *testing.T) {
	days, err := leave.CalculateDays(date(2024, time.July, 1), date(2024, time.July, 5))
	require.NoError(t, err)
	assertDays(t, 5, days, "five days")

	days, err = leave.CalculateDays(date(2024, time.July, 1), date(2024, time.July, 1))
	require.NoError(t, err)
	assertDays(t, 1, days, "single day")

	_, err = leave.CalculateDays(date(2024, time.July, 2), date(2024, time.July, 1))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)
}

func TestSubmit_CreatesPendingRequest(t *testing.T) {
	svc, store := newTestRequestService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, submit(leave.TypeVacation, date(2024, time.July, 1), date(2024, time.July, 4)))
	require.NoError(t, err)

	assert.Equal(t, generic.RequestID("req-1"), req.ID)
	assert.Equal(t, leave.StatusPending, req.Status)
	assertDays(t, 4, req.Days, "computed days")

	stored, err := store.GetLeaveRequest(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, stored.ID)
}

func TestSubmit_ExplicitHalfDay(t *testing.T) {
	svc, _ := newTestRequestService(t)

	in := submit(leave.TypeCasual, date(2024, time.July, 1), date(2024, time.July, 1))
	in.Days = generic.Days(0.5)
	req, err := svc.Submit(context.Background(), in)
	require.NoError(t, err)
	assertDays(t, 0.5, req.Days, "half day")
}

func TestSubmit_Errors(t *testing.T) {
	svc, _ := newTestRequestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, submit(leave.TypeVacation, date(2024, time.July, 4), date(2024, time.July, 1)))
	assert.ErrorIs(t, err, generic.ErrInvalidPeriod)

	in := submit(leave.TypeVacation, date(2024, time.July, 1), date(2024, time.July, 1))
	in.EmployeeID = "ghost"
	_, err = svc.Submit(ctx, in)
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	_, err = svc.Submit(ctx, submit("SABBATICAL", date(2024, time.July, 1), date(2024, time.July, 1)))
	assert.ErrorIs(t, err, generic.ErrLeaveTypeNotFound)

	_, err = svc.Submit(ctx, submit(leave.TypeCasual, date(2024, time.July, 1), date(2024, time.July, 3)))
	assert.ErrorIs(t, err, generic.ErrNotEligible)
}

func TestSubmit_PilgrimageOnceInService(t *testing.T) {
	svc, _ := newTestRequestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, submit(leave.TypePilgrimage, date(2024, time.July, 1), date(2024, time.July, 14)))
	require.NoError(t, err)
	_, err = svc.Approve(ctx, first.ID, "hr-1")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, submit(leave.TypePilgrimage, date(2025, time.July, 1), date(2025, time.July, 14)))
	var eligErr *leave.EligibilityError
	require.ErrorAs(t, err, &eligErr)
	assert.Equal(t, leave.RuleMaxTimesInService, eligErr.Rule)
}

func TestApprove_PilgrimageTwoPending(t *testing.T) {
	// GIVEN: Two pilgrimage requests filed before either is decided
	// WHEN: HR approves both
	// THEN: The second approval fails and the request stays pending

	svc, store := newTestRequestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, submit(leave.TypePilgrimage, date(2024, time.July, 1), date(2024, time.July, 14)))
	require.NoError(t, err)
	second, err := svc.Submit(ctx, submit(leave.TypePilgrimage, date(2025, time.July, 1), date(2025, time.July, 14)))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID, "hr-1")
	require.NoError(t, err)

	_, err = svc.Approve(ctx, second.ID, "hr-1")
	var eligErr *leave.EligibilityError
	require.ErrorAs(t, err, &eligErr)
	assert.Equal(t, leave.RuleMaxTimesInService, eligErr.Rule)
	assert.ErrorIs(t, err, generic.ErrNotEligible)

	stored, err := store.GetLeaveRequest(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)

	all, err := store.ListLeaveRequests(ctx)
	require.NoError(t, err)
	approved := 0
	for _, r := range all {
		if r.LeaveType == leave.TypePilgrimage && r.Status == leave.StatusApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}

// =============================================================================
// APPROVE / REJECT
// =============================================================================

func TestApprove_UpdatesBalance(t *testing.T) {
	// GIVEN: A pending 4-day vacation
	// WHEN: HR approves it
	// THEN: The request records the decision and the balance drops by 4

	svc, store := newTestRequestService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, submit(leave.TypeVacation, date(2024, time.July, 1), date(2024, time.July, 4)))
	require.NoError(t, err)

	decided, err := svc.Approve(ctx, req.ID, "hr-1")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, decided.Status)
	assert.Equal(t, "hr-1", decided.DecidedBy)
	require.NotNil(t, decided.DecidedAt)

	emp, err := store.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	balances, err := svc.Calculator.Calculate(ctx, emp)
	require.NoError(t, err)
	assertDays(t, 17, findBalance(t, balances, leave.TypeVacation).Remaining, "remaining")
}

func TestDecisions_OnlyFromPending(t *testing.T) {
	svc, _ := newTestRequestService(t)
	ctx := context.Background()

	req, err := svc.Submit(ctx, submit(leave.TypeSick, date(2024, time.July, 1), date(2024, time.July, 2)))
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, req.ID, "hr-1", "overlaps audit week")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, "overlaps audit week", rejected.DecisionReason)

	_, err = svc.Approve(ctx, req.ID, "hr-1")
	assert.ErrorIs(t, err, generic.ErrInvalidTransition)
	_, err = svc.Reject(ctx, req.ID, "hr-1", "again")
	assert.ErrorIs(t, err, generic.ErrInvalidTransition)

	_, err = svc.Approve(ctx, "missing", "hr-1")
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)
}

func TestApprove_EnforceBalance(t *testing.T) {
	svc, _ := newTestRequestService(t)
	ctx := context.Background()

	// BEREAVEMENT: 3 days total, 3 days max per request
	first, err := svc.Submit(ctx, submit(leave.TypeBereavement, date(2024, time.July, 1), date(2024, time.July, 3)))
	require.NoError(t, err)
	second, err := svc.Submit(ctx, submit(leave.TypeBereavement, date(2024, time.August, 1), date(2024, time.August, 2)))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID, "hr-1")
	require.NoError(t, err)

	svc.EnforceBalance = true
	_, err = svc.Approve(ctx, second.ID, "hr-1")
	var balErr *generic.InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.ErrorIs(t, err, generic.ErrInsufficientBalance)
	assertDays(t, 0, balErr.Available, "available")

	svc.EnforceBalance = false
	_, err = svc.Approve(ctx, second.ID, "hr-1")
	assert.NoError(t, err, "over-use is allowed when enforcement is off")
}

func TestListForEmployee_OrderedByStart(t *testing.T) {
	svc, store := newTestRequestService(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEmployee(ctx, leave.Employee{ID: "emp-2", HireDate: date(2015, time.January, 1)}))
	_, err := svc.Submit(ctx, submit(leave.TypeSick, date(2024, time.September, 1), date(2024, time.September, 1)))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, submit(leave.TypeSick, date(2024, time.July, 1), date(2024, time.July, 1)))
	require.NoError(t, err)
	_, err = svc.Submit(ctx, leave.SubmitInput{EmployeeID: "emp-2", LeaveType: leave.TypeSick, StartDate: date(2024, time.July, 1), EndDate: date(2024, time.July, 1)})
	require.NoError(t, err)

	list, err := svc.ListForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, time.July, list[0].StartDate.Month())
	assert.Equal(t, time.September, list[1].StartDate.Month())

	_, err = svc.ListForEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
}
