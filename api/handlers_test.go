/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Employee CRUD and balances
- Leave request submission, approval and error mapping
- Leave type table replacement
- Attendance settings, branch overrides and shift evaluation
- Scenarios and the overdraft audit
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
	"github.com/bokra/hrms/store/memory"
)

var testToday = generic.NewTimePoint(2024, time.June, 15)

type testEnv struct {
	handler *Handler
	router  http.Handler
	store   *memory.Store
}

func setupTestHandler(t *testing.T) *testEnv {
	t.Helper()
	store := memory.New()

	calc := leave.NewCalculator(store, store, nil)
	calc.Clock = generic.FixedClock(testToday)

	requests := leave.NewRequestService(store, calc, nil)
	seq := 0
	requests.NewID = func() generic.RequestID {
		seq++
		return generic.RequestID(fmt.Sprintf("req-%d", seq))
	}
	requests.Now = func() time.Time { return time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC) }

	holidays := generic.HolidayList{
		{ID: "h-revolution", Date: generic.NewTimePoint(2024, time.July, 23), Name: "Revolution Day", Recurring: true},
	}
	att := attendance.NewService(store, holidays, nil)

	h := NewHandler(store, calc, requests, att, nil)
	return &testEnv{handler: h, router: NewRouter(h, Options{}), store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e *testEnv) createEmployee(t *testing.T, req CreateEmployeeRequest) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/employees", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func standardEmployee() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		ID:          "emp-1",
		Name:        "Nour Khaled",
		BranchID:    "cairo",
		HireDate:    "2015-01-01",
		DateOfBirth: "1985-04-10",
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestHealth(t *testing.T) {
	env := setupTestHandler(t)
	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEmployees_CreateGetList(t *testing.T) {
	env := setupTestHandler(t)

	// GIVEN: a new employee
	env.createEmployee(t, standardEmployee())

	// WHEN: it is fetched
	rec := env.do(t, http.MethodGet, "/api/employees/emp-1", nil)

	// THEN: the stored fields come back
	require.Equal(t, http.StatusOK, rec.Code)
	emp := decodeAs[EmployeeDTO](t, rec)
	assert.Equal(t, "Nour Khaled", emp.Name)
	assert.Equal(t, "2015-01-01", emp.HireDate)
	assert.Equal(t, "1985-04-10", emp.DateOfBirth)

	list := decodeAs[[]EmployeeDTO](t, env.do(t, http.MethodGet, "/api/employees", nil))
	assert.Len(t, list, 1)

	// Duplicate id
	rec = env.do(t, http.MethodPost, "/api/employees", standardEmployee())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetEmployee_NotFound(t *testing.T) {
	env := setupTestHandler(t)
	rec := env.do(t, http.MethodGet, "/api/employees/ghost", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeAs[ErrorResponse](t, rec)
	assert.NotEmpty(t, resp.Error)
	assert.Contains(t, resp.Details, "employee not found")
}

func TestCreateEmployee_Validation(t *testing.T) {
	env := setupTestHandler(t)

	missingName := standardEmployee()
	missingName.Name = ""
	rec := env.do(t, http.MethodPost, "/api/employees", missingName)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeAs[ErrorResponse](t, rec).Details, "Name")

	badDate := standardEmployee()
	badDate.HireDate = "01/01/2015"
	rec = env.do(t, http.MethodPost, "/api/employees", badDate)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/employees", bytes.NewBufferString("{not json"))
	raw := httptest.NewRecorder()
	env.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestGetBalances(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	rec := env.do(t, http.MethodGet, "/api/employees/emp-1/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeAs[EmployeeBalancesDTO](t, rec)
	assert.Equal(t, "2024-06-15", got.AsOf)
	require.NotEmpty(t, got.Balances)

	// 9 years of service, age 39: standard tier
	assert.Equal(t, "VACATION", got.Balances[0].Type)
	assert.Equal(t, 21.0, got.Balances[0].Total)
	assert.Equal(t, 21.0, got.Balances[0].Remaining)

	for _, b := range got.Balances {
		assert.NotEqual(t, "DISABILITY", b.Type)
	}
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func TestLeaveRequestLifecycle(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	// GIVEN: a submitted vacation request without explicit days
	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/requests", SubmitLeaveRequest{
		LeaveType: "VACATION",
		StartDate: "2024-07-01",
		EndDate:   "2024-07-05",
		Reason:    "Summer",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decodeAs[LeaveRequestDTO](t, rec)
	assert.Equal(t, "req-1", submitted.ID)
	assert.Equal(t, 5.0, submitted.Days)
	assert.Equal(t, "PENDING", submitted.Status)

	pending := decodeAs[[]LeaveRequestDTO](t, env.do(t, http.MethodGet, "/api/requests/pending", nil))
	assert.Len(t, pending, 1)

	// Pending requests do not count
	balances := decodeAs[EmployeeBalancesDTO](t, env.do(t, http.MethodGet, "/api/employees/emp-1/balances", nil))
	assert.Equal(t, 21.0, balances.Balances[0].Remaining)

	// WHEN: it is approved
	rec = env.do(t, http.MethodPost, "/api/requests/req-1/approve", DecisionRequest{ApproverID: "mgr-1"})

	// THEN: it is APPROVED and counts against the balance
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decodeAs[LeaveRequestDTO](t, rec)
	assert.Equal(t, "APPROVED", approved.Status)
	assert.Equal(t, "mgr-1", approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	balances = decodeAs[EmployeeBalancesDTO](t, env.do(t, http.MethodGet, "/api/employees/emp-1/balances", nil))
	assert.Equal(t, 5.0, balances.Balances[0].Used)
	assert.Equal(t, 16.0, balances.Balances[0].Remaining)

	// A decided request cannot be decided again
	rec = env.do(t, http.MethodPost, "/api/requests/req-1/reject", DecisionRequest{ApproverID: "mgr-1", Reason: "late"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	mine := decodeAs[[]LeaveRequestDTO](t, env.do(t, http.MethodGet, "/api/employees/emp-1/requests", nil))
	require.Len(t, mine, 1)
	assert.Equal(t, "APPROVED", mine[0].Status)
}

func TestRejectRequest(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	rec := env.do(t, http.MethodPost, "/api/employees/emp-1/requests", SubmitLeaveRequest{
		LeaveType: "SICK", StartDate: "2024-06-17", EndDate: "2024-06-18",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// approver is required
	rec = env.do(t, http.MethodPost, "/api/requests/req-1/reject", DecisionRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/requests/req-1/reject", DecisionRequest{ApproverID: "mgr-1", Reason: "no cover"})
	require.Equal(t, http.StatusOK, rec.Code)
	rejected := decodeAs[LeaveRequestDTO](t, rec)
	assert.Equal(t, "REJECTED", rejected.Status)
	assert.Equal(t, "no cover", rejected.DecisionReason)

	rec = env.do(t, http.MethodPost, "/api/requests/req-404/approve", DecisionRequest{ApproverID: "mgr-1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitRequest_ErrorMapping(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	tests := []struct {
		name   string
		path   string
		body   SubmitLeaveRequest
		status int
	}{
		{
			name:   "casual over per-request cap",
			path:   "/api/employees/emp-1/requests",
			body:   SubmitLeaveRequest{LeaveType: "CASUAL", StartDate: "2024-06-17", EndDate: "2024-06-19"},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "disability leave for unflagged employee",
			path:   "/api/employees/emp-1/requests",
			body:   SubmitLeaveRequest{LeaveType: "DISABILITY", StartDate: "2024-06-17", EndDate: "2024-06-17"},
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "end before start",
			path:   "/api/employees/emp-1/requests",
			body:   SubmitLeaveRequest{LeaveType: "SICK", StartDate: "2024-06-20", EndDate: "2024-06-17"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown leave type",
			path:   "/api/employees/emp-1/requests",
			body:   SubmitLeaveRequest{LeaveType: "NAP", StartDate: "2024-06-17", EndDate: "2024-06-17"},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown employee",
			path:   "/api/employees/ghost/requests",
			body:   SubmitLeaveRequest{LeaveType: "SICK", StartDate: "2024-06-17", EndDate: "2024-06-17"},
			status: http.StatusNotFound,
		},
		{
			name:   "missing dates",
			path:   "/api/employees/emp-1/requests",
			body:   SubmitLeaveRequest{LeaveType: "SICK"},
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestApprove_EnforceBalance(t *testing.T) {
	env := setupTestHandler(t)
	env.handler.Requests.EnforceBalance = true
	env.createEmployee(t, standardEmployee())

	// Two 2-day casual requests approved leaves 2 of 6; a third 2-day fits,
	// a fourth does not.
	days := []string{"2024-06-17", "2024-06-19", "2024-06-23", "2024-06-25"}
	for i, start := range days {
		s, _ := generic.ParseDate(start)
		rec := env.do(t, http.MethodPost, "/api/employees/emp-1/requests", SubmitLeaveRequest{
			LeaveType: "CASUAL", StartDate: start, EndDate: s.AddDays(1).String(),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/requests/req-%d/approve", i+1), DecisionRequest{ApproverID: "mgr-1"})
		if i < 3 {
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			continue
		}
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, decodeAs[ErrorResponse](t, rec).Details, "insufficient")
	}
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func TestLeaveTypes_DefaultsAndReplace(t *testing.T) {
	env := setupTestHandler(t)

	// GIVEN: nothing configured, the built-in table is served
	types := decodeAs[[]LeaveTypeDTO](t, env.do(t, http.MethodGet, "/api/leave-types", nil))
	require.Len(t, types, len(leave.DefaultLeaveTypes()))
	assert.Equal(t, "VACATION", types[0].Name)

	// WHEN: a two-row table is saved
	limit := 1
	rec := env.do(t, http.MethodPut, "/api/leave-types", ReplaceLeaveTypesRequest{LeaveTypes: []LeaveTypeDTO{
		{ID: "lt-sick", Name: "SICK", BalanceDays: 30, Color: "#ef4444", Category: "sick"},
		{ID: "lt-vac", Name: "VACATION", BalanceDays: 21, Color: "#3b82f6", Category: "annual", MaxDaysPerRequest: &limit},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: the table order is kept
	types = decodeAs[[]LeaveTypeDTO](t, env.do(t, http.MethodGet, "/api/leave-types", nil))
	require.Len(t, types, 2)
	assert.Equal(t, "SICK", types[0].Name)
	require.NotNil(t, types[1].MaxDaysPerRequest)
	assert.Equal(t, 1, *types[1].MaxDaysPerRequest)
}

func TestLeaveTypes_RejectsInvalidTable(t *testing.T) {
	env := setupTestHandler(t)

	bad := []ReplaceLeaveTypesRequest{
		{},
		{LeaveTypes: []LeaveTypeDTO{{ID: "x", Name: "NAP", Category: "other"}}},
		{LeaveTypes: []LeaveTypeDTO{{ID: "x", Name: "SICK", Category: "medical"}}},
		{LeaveTypes: []LeaveTypeDTO{
			{ID: "a", Name: "SICK", Category: "sick"},
			{ID: "b", Name: "SICK", Category: "sick"},
		}},
	}
	for i, body := range bad {
		rec := env.do(t, http.MethodPut, "/api/leave-types", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "case %d: %s", i, rec.Body.String())
	}

	types := decodeAs[[]LeaveTypeDTO](t, env.do(t, http.MethodGet, "/api/leave-types", nil))
	assert.Len(t, types, len(leave.DefaultLeaveTypes()))
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestAttendanceSettings_Defaults(t *testing.T) {
	env := setupTestHandler(t)

	rec := env.do(t, http.MethodGet, "/api/attendance/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	s := decodeAs[AttendanceSettingsDTO](t, rec)
	assert.Equal(t, 15, s.LateGracePeriodMinutes)
	assert.Len(t, s.LateDeductionRules, 4)
	assert.Equal(t, 1.35, s.Overtime.Weekday)
	assert.Equal(t, []string{"Friday", "Saturday"}, s.WeekendDays)
}

func TestAttendanceSettings_Update(t *testing.T) {
	env := setupTestHandler(t)

	body := AttendanceSettingsDTO{
		LateGracePeriodMinutes: 10,
		LateDeductionRules: []DeductionRuleDTO{
			{FromMinutes: 11, ToMinutes: 60, DeductMinutes: 60},
			{FromMinutes: 61, DeductMinutes: 480},
		},
		Overtime:    OvertimeDTO{Weekday: 1.5, Weekend: 2, Holiday: 3},
		WeekendDays: []string{"friday"},
	}
	rec := env.do(t, http.MethodPut, "/api/attendance/settings", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Branches without overrides follow the new company policy
	branch := decodeAs[BranchSettingsDTO](t, env.do(t, http.MethodGet, "/api/attendance/branches/cairo/settings", nil))
	assert.False(t, branch.Customized)
	assert.Equal(t, 10, branch.Settings.LateGracePeriodMinutes)
	assert.Equal(t, []string{"Friday"}, branch.Settings.WeekendDays)

	// Overlapping brackets
	body.LateDeductionRules = []DeductionRuleDTO{
		{FromMinutes: 11, ToMinutes: 60, DeductMinutes: 60},
		{FromMinutes: 50, ToMinutes: 90, DeductMinutes: 90},
	}
	rec = env.do(t, http.MethodPut, "/api/attendance/settings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body.LateDeductionRules = nil
	body.WeekendDays = []string{"Funday"}
	rec = env.do(t, http.MethodPut, "/api/attendance/settings", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBranchOverride(t *testing.T) {
	env := setupTestHandler(t)

	grace := 5
	weekend := 2.5
	rec := env.do(t, http.MethodPut, "/api/attendance/branches/alexandria/override", BranchOverrideRequest{
		Customized:             true,
		LateGracePeriodMinutes: &grace,
		Overtime:               &OvertimeOverrideDTO{Weekend: &weekend},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decodeAs[BranchSettingsDTO](t, rec)
	assert.True(t, got.Customized)
	assert.Equal(t, 5, got.Settings.LateGracePeriodMinutes)
	assert.Equal(t, 2.5, got.Settings.Overtime.Weekend)
	// unset fields inherit
	assert.Equal(t, 1.35, got.Settings.Overtime.Weekday)
	assert.Len(t, got.Settings.LateDeductionRules, 4)

	other := decodeAs[BranchSettingsDTO](t, env.do(t, http.MethodGet, "/api/attendance/branches/giza/settings", nil))
	assert.False(t, other.Customized)
	assert.Equal(t, 15, other.Settings.LateGracePeriodMinutes)
}

func TestBranchOverride_InvalidMergedResult(t *testing.T) {
	env := setupTestHandler(t)

	rec := env.do(t, http.MethodPut, "/api/attendance/branches/alexandria/override", BranchOverrideRequest{
		Customized: true,
		LateDeductionRules: []DeductionRuleDTO{
			{FromMinutes: 16, DeductMinutes: 60},
			{FromMinutes: 30, ToMinutes: 40, DeductMinutes: 30},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestEvaluateShift(t *testing.T) {
	env := setupTestHandler(t)

	tests := []struct {
		name       string
		shiftStart string
		checkIn    string
		overtime   int
		want       EvaluationDTO
	}{
		{
			name:       "sunday, late past grace",
			shiftStart: "2024-06-16T09:00:00Z",
			checkIn:    "2024-06-16T09:40:00Z",
			overtime:   60,
			want: EvaluationDTO{
				BranchID: "cairo", MinutesLate: 40, DeductMinutes: 30,
				DayKind: "weekday", OvertimeMultiplier: 1.35, OvertimeCredit: 81,
			},
		},
		{
			name:       "friday, within grace",
			shiftStart: "2024-06-21T09:00:00Z",
			checkIn:    "2024-06-21T09:10:00Z",
			overtime:   30,
			want: EvaluationDTO{
				BranchID: "cairo", MinutesLate: 10, WithinGrace: true,
				DayKind: "weekend", OvertimeMultiplier: 2, OvertimeCredit: 60,
			},
		},
		{
			name:       "recurring holiday beats weekday",
			shiftStart: "2024-07-23T09:00:00Z",
			checkIn:    "2024-07-23T08:55:00Z",
			overtime:   120,
			want: EvaluationDTO{
				BranchID: "cairo", WithinGrace: true,
				DayKind: "holiday", OvertimeMultiplier: 3, OvertimeCredit: 360,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/attendance/branches/cairo/evaluate", EvaluateShiftRequest{
				ShiftStart: tt.shiftStart, CheckIn: tt.checkIn, OvertimeMinutes: tt.overtime,
			})
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decodeAs[EvaluationDTO](t, rec))
		})
	}

	rec := env.do(t, http.MethodPost, "/api/attendance/branches/cairo/evaluate", EvaluateShiftRequest{
		ShiftStart: "09:00", CheckIn: "2024-06-16T09:40:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// SCENARIOS & REPORTS
// =============================================================================

func TestScenarios_LoadTwice(t *testing.T) {
	env := setupTestHandler(t)

	list := decodeAs[[]ScenarioDTO](t, env.do(t, http.MethodGet, "/api/scenarios", nil))
	require.NotEmpty(t, list)

	for _, s := range list {
		for i := 0; i < 2; i++ {
			rec := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: s.ID})
			require.Equal(t, http.StatusOK, rec.Code, "%s: %s", s.ID, rec.Body.String())
		}
	}

	current := decodeAs[ScenarioDTO](t, env.do(t, http.MethodGet, "/api/scenarios/current", nil))
	assert.Equal(t, list[len(list)-1].ID, current.ID)

	// loading twice leaves one pending request
	pending := decodeAs[[]LeaveRequestDTO](t, env.do(t, http.MethodGet, "/api/requests/pending", nil))
	assert.Len(t, pending, 1)

	alex := decodeAs[BranchSettingsDTO](t, env.do(t, http.MethodGet, "/api/attendance/branches/alexandria/settings", nil))
	assert.True(t, alex.Customized)
	assert.Equal(t, []string{"Friday"}, alex.Settings.WeekendDays)

	giza := decodeAs[BranchSettingsDTO](t, env.do(t, http.MethodGet, "/api/attendance/branches/giza/settings", nil))
	assert.False(t, giza.Customized)
	assert.Equal(t, 15, giza.Settings.LateGracePeriodMinutes)

	rec := env.do(t, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBalanceReport(t *testing.T) {
	env := setupTestHandler(t)
	require.NoError(t, env.handler.Load(context.Background(), "cairo-office"))

	rec := env.do(t, http.MethodGet, "/api/reports/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeAs[[]EmployeeBalancesDTO](t, rec)
	require.Len(t, report, 5)

	totals := map[string]float64{}
	for _, eb := range report {
		totals[eb.Employee.ID] = eb.Balances[0].Total
	}
	assert.Equal(t, 30.0, totals["emp-mona"])  // 12 years of service
	assert.Equal(t, 30.0, totals["emp-karim"]) // age 53
	assert.Equal(t, 21.0, totals["emp-salma"])
	assert.Equal(t, 15.0, totals["emp-omar"])

	// only the flagged employee gets the disability row
	for _, eb := range report {
		hasDisability := false
		for _, b := range eb.Balances {
			if b.Type == "DISABILITY" {
				hasDisability = true
			}
		}
		assert.Equal(t, eb.Employee.ID == "emp-youssef", hasDisability, eb.Employee.ID)
	}
}

func TestOverdraftAudit(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	// over-use is stored directly; the service would only show it
	end := testToday.AddDays(-1)
	require.NoError(t, env.store.SaveLeaveRequest(context.Background(), leave.LeaveRequest{
		ID:         "req-old",
		EmployeeID: "emp-1",
		LeaveType:  leave.TypeBereavement,
		StartDate:  end.AddDays(-4),
		EndDate:    end,
		Days:       generic.Days(5),
		Status:     leave.StatusApproved,
	}))

	audit := NewAuditScheduler(env.handler, 0)
	router := NewRouter(env.handler, Options{Audit: audit})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/overdrafts", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decodeAs[AuditReportDTO](t, rec)
	assert.Equal(t, 1, report.Employees)
	require.Len(t, report.Overdrafts, 1)
	assert.Equal(t, "BEREAVEMENT", report.Overdrafts[0].Type)
	assert.Equal(t, -2.0, report.Overdrafts[0].Remaining)

	last, ok := audit.Last()
	require.True(t, ok)
	assert.Equal(t, report, last)
}

func TestAuditScheduler_StartStop(t *testing.T) {
	env := setupTestHandler(t)
	env.createEmployee(t, standardEmployee())

	audit := NewAuditScheduler(env.handler, time.Hour)
	audit.Start()
	require.Eventually(t, func() bool {
		_, ok := audit.Last()
		return ok
	}, time.Second, 10*time.Millisecond)
	audit.Stop()
	audit.Stop()

	disabled := NewAuditScheduler(env.handler, 0)
	disabled.Start()
	disabled.Stop()
	_, ok := disabled.Last()
	assert.False(t, ok)
}

func TestRateLimit(t *testing.T) {
	env := setupTestHandler(t)
	router := NewRouter(env.handler, Options{RateLimit: 2})

	codes := make([]int, 3)
	for i := range codes {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes[i] = rec.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
