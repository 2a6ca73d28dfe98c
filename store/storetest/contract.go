// Package storetest holds the behaviour every repository implementation
// must share. Store packages call Run from their own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// Repository is the union of the leave and attendance repositories.
type Repository interface {
	leave.Repository
	attendance.Repository
}

// Run exercises repo implementations returned by newRepo. Each subtest gets
// a fresh repository.
func Run(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("employees", func(t *testing.T) { testEmployees(t, newRepo(t)) })
	t.Run("leave types", func(t *testing.T) { testLeaveTypes(t, newRepo(t)) })
	t.Run("leave requests", func(t *testing.T) { testLeaveRequests(t, newRepo(t)) })
	t.Run("attendance settings", func(t *testing.T) { testAttendanceSettings(t, newRepo(t)) })
	t.Run("branch overrides", func(t *testing.T) { testBranchOverrides(t, newRepo(t)) })
}

func day(y int, m time.Month, d int) generic.TimePoint { return generic.NewTimePoint(y, m, d) }

func testEmployees(t *testing.T, repo Repository) {
	ctx := context.Background()

	_, err := repo.GetEmployee(ctx, "nobody")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)

	first := leave.Employee{
		ID:                     "emp-1",
		Name:                   "Mona Adel",
		BranchID:               "cairo",
		HireDate:               day(2015, time.January, 1),
		DateOfBirth:            day(1979, time.January, 1),
		IsPersonWithDisability: true,
	}
	second := leave.Employee{ID: "emp-2", Name: "Ahmed Fathy", HireDate: day(2024, time.March, 1)}
	require.NoError(t, repo.SaveEmployee(ctx, first))
	require.NoError(t, repo.SaveEmployee(ctx, second))

	got, err := repo.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, first.Name, got.Name)
	assert.Equal(t, first.BranchID, got.BranchID)
	assert.True(t, first.HireDate.Equal(got.HireDate))
	assert.True(t, first.DateOfBirth.Equal(got.DateOfBirth))
	assert.True(t, got.IsPersonWithDisability)

	first.Name = "Mona Adel Saleh"
	require.NoError(t, repo.SaveEmployee(ctx, first))

	all, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2, "save is an upsert")
	assert.Equal(t, generic.EmployeeID("emp-1"), all[0].ID, "insertion order is kept")
	assert.Equal(t, "Mona Adel Saleh", all[0].Name)
}

func testLeaveTypes(t *testing.T, repo Repository) {
	ctx := context.Background()

	empty, err := repo.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	table := leave.DefaultLeaveTypes()
	require.NoError(t, repo.ReplaceLeaveTypes(ctx, table))

	got, err := repo.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, got)

	require.NoError(t, repo.ReplaceLeaveTypes(ctx, table[:2]))
	got, err = repo.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got[0].BalanceDays = 1000
	again, err := repo.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21, again[0].BalanceDays, "callers get copies")
}

func testLeaveRequests(t *testing.T, repo Repository) {
	ctx := context.Background()
	require.NoError(t, repo.SaveEmployee(ctx, leave.Employee{ID: "emp-1", Name: "Mona", HireDate: day(2015, time.January, 1)}))

	_, err := repo.GetLeaveRequest(ctx, "missing")
	assert.ErrorIs(t, err, generic.ErrRequestNotFound)

	created := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	req := leave.LeaveRequest{
		ID:         "req-1",
		EmployeeID: "emp-1",
		LeaveType:  leave.TypeCasual,
		StartDate:  day(2024, time.June, 10),
		EndDate:    day(2024, time.June, 10),
		Days:       generic.Days(0.5),
		Status:     leave.StatusPending,
		Reason:     "clinic visit",
		CreatedAt:  created,
	}
	require.NoError(t, repo.SaveLeaveRequest(ctx, req))
	require.NoError(t, repo.SaveLeaveRequest(ctx, leave.LeaveRequest{
		ID: "req-2", EmployeeID: "emp-1", LeaveType: leave.TypeSick,
		StartDate: day(2024, time.May, 1), EndDate: day(2024, time.May, 2),
		Days: generic.Days(2), Status: leave.StatusApproved, CreatedAt: created,
	}))

	got, err := repo.GetLeaveRequest(ctx, "req-1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("0.5").Equal(got.Days.Value), "half days survive storage")
	assert.Equal(t, generic.UnitDays, got.Days.Unit)
	assert.Equal(t, "clinic visit", got.Reason)
	assert.True(t, req.StartDate.Equal(got.StartDate))
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Nil(t, got.DecidedAt)

	decided := created.Add(time.Hour)
	got.Status = leave.StatusApproved
	got.DecidedBy = "hr-1"
	got.DecidedAt = &decided
	require.NoError(t, repo.SaveLeaveRequest(ctx, got))

	all, err := repo.ListLeaveRequests(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, generic.RequestID("req-1"), all[0].ID)
	assert.Equal(t, leave.StatusApproved, all[0].Status)
	assert.Equal(t, "hr-1", all[0].DecidedBy)
	require.NotNil(t, all[0].DecidedAt)
	assert.True(t, decided.Equal(*all[0].DecidedAt))
}

func testAttendanceSettings(t *testing.T, repo Repository) {
	ctx := context.Background()

	_, err := repo.GetAttendanceSettings(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotConfigured)

	s := attendance.DefaultSettings()
	s.LateGracePeriodMinutes = 10
	s.Overtime.Weekday = decimal.RequireFromString("1.5")
	require.NoError(t, repo.SaveAttendanceSettings(ctx, s))

	got, err := repo.GetAttendanceSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, got.LateGracePeriodMinutes)
	assert.Equal(t, s.LateDeductionRules, got.LateDeductionRules)
	assert.Equal(t, s.WeekendDays, got.WeekendDays)
	assert.True(t, s.Overtime.Weekday.Equal(got.Overtime.Weekday))
	assert.True(t, s.Overtime.Holiday.Equal(got.Overtime.Holiday))
}

func testBranchOverrides(t *testing.T, repo Repository) {
	ctx := context.Background()

	none, err := repo.GetBranchOverride(ctx, "alex")
	require.NoError(t, err)
	assert.Nil(t, none)

	grace := 30
	holiday := decimal.RequireFromString("3.5")
	require.NoError(t, repo.SaveBranchOverride(ctx, attendance.BranchOverride{
		BranchID:               "alex",
		Customized:             true,
		LateGracePeriodMinutes: &grace,
		Overtime:               &attendance.OvertimeOverride{Holiday: &holiday},
	}))

	got, err := repo.GetBranchOverride(ctx, "alex")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Customized)
	require.NotNil(t, got.LateGracePeriodMinutes)
	assert.Equal(t, 30, *got.LateGracePeriodMinutes)
	assert.Nil(t, got.LateDeductionRules, "unset fields stay unset")
	assert.Nil(t, got.WeekendDays)
	require.NotNil(t, got.Overtime)
	assert.Nil(t, got.Overtime.Weekday)
	require.NotNil(t, got.Overtime.Holiday)
	assert.True(t, holiday.Equal(*got.Overtime.Holiday))

	resolved := attendance.Resolve(attendance.DefaultSettings(), got)
	assert.Equal(t, 30, resolved.LateGracePeriodMinutes)
	assert.Equal(t, attendance.DefaultSettings().WeekendDays, resolved.WeekendDays)
}
