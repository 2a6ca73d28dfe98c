/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model from the API contract: dates travel as YYYY-MM-DD
  strings, day counts and multipliers as JSON numbers.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry go-playground/validator tags. Handlers call
  decode before touching the domain.

SEE ALSO:
  - handlers.go: Uses these types
  - convert.go: DTO <-> domain mapping
*/
package api

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	BranchID               string `json:"branch_id,omitempty"`
	HireDate               string `json:"hire_date"`
	DateOfBirth            string `json:"date_of_birth,omitempty"`
	IsPersonWithDisability bool   `json:"is_person_with_disability"`
}

// CreateEmployeeRequest is the body of POST /api/employees.
type CreateEmployeeRequest struct {
	ID                     string `json:"id" validate:"required,max=64"`
	Name                   string `json:"name" validate:"required,max=200"`
	BranchID               string `json:"branch_id" validate:"max=64"`
	HireDate               string `json:"hire_date" validate:"required,datetime=2006-01-02"`
	DateOfBirth            string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	IsPersonWithDisability bool   `json:"is_person_with_disability"`
}

// =============================================================================
// BALANCES
// =============================================================================

// BalanceDTO is one progress bar on the profile screen.
type BalanceDTO struct {
	Type      string  `json:"type"`
	Used      float64 `json:"used"`
	Total     float64 `json:"total"`
	Remaining float64 `json:"remaining"`
	Color     string  `json:"color"`
}

// EmployeeBalancesDTO pairs an employee with its balances.
type EmployeeBalancesDTO struct {
	Employee EmployeeDTO  `json:"employee"`
	AsOf     string       `json:"as_of"`
	Balances []BalanceDTO `json:"balances"`
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SubmitLeaveRequest is the body of POST /api/employees/{id}/requests.
// Days is optional; it defaults to the inclusive day count of the range.
type SubmitLeaveRequest struct {
	LeaveType string   `json:"leave_type" validate:"required"`
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	Days      *float64 `json:"days" validate:"omitempty,gt=0"`
	Reason    string   `json:"reason" validate:"max=500"`
}

// DecisionRequest is the body of approve/reject calls.
type DecisionRequest struct {
	ApproverID string `json:"approver_id" validate:"required"`
	Reason     string `json:"reason" validate:"max=500"`
}

// LeaveRequestDTO represents a leave request in API responses.
type LeaveRequestDTO struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	LeaveType      string  `json:"leave_type"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Days           float64 `json:"days"`
	Status         string  `json:"status"`
	Reason         string  `json:"reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
	DecidedBy      string  `json:"decided_by,omitempty"`
	DecidedAt      *string `json:"decided_at,omitempty"`
	DecisionReason string  `json:"decision_reason,omitempty"`
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveTypeDTO is one row of the policy table, used for reads and writes.
type LeaveTypeDTO struct {
	ID                   string `json:"id" validate:"required"`
	Name                 string `json:"name" validate:"required"`
	BalanceDays          int    `json:"balance_days" validate:"gte=0"`
	Color                string `json:"color" validate:"omitempty,hexcolor"`
	Category             string `json:"category" validate:"required,oneof=annual casual sick family religious disability other"`
	IsDeductedFromAnnual bool   `json:"is_deducted_from_annual"`
	MaxDaysPerRequest    *int   `json:"max_days_per_request,omitempty" validate:"omitempty,gt=0"`
	MaxTimesInService    *int   `json:"max_times_in_service,omitempty" validate:"omitempty,gt=0"`
	EligibilityYears     *int   `json:"eligibility_years,omitempty" validate:"omitempty,gt=0"`
	UsableAfterMonths    *int   `json:"usable_after_months,omitempty" validate:"omitempty,gt=0"`
}

// ReplaceLeaveTypesRequest is the body of PUT /api/leave-types.
type ReplaceLeaveTypesRequest struct {
	LeaveTypes []LeaveTypeDTO `json:"leave_types" validate:"required,min=1,dive"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type DeductionRuleDTO struct {
	FromMinutes   int `json:"from_minutes" validate:"gte=0"`
	ToMinutes     int `json:"to_minutes" validate:"gte=0"`
	DeductMinutes int `json:"deduct_minutes" validate:"gte=0"`
}

type OvertimeDTO struct {
	Weekday float64 `json:"weekday" validate:"gt=0"`
	Weekend float64 `json:"weekend" validate:"gt=0"`
	Holiday float64 `json:"holiday" validate:"gt=0"`
}

// AttendanceSettingsDTO is the full company or resolved branch policy.
type AttendanceSettingsDTO struct {
	LateGracePeriodMinutes int                `json:"late_grace_period_minutes" validate:"gte=0"`
	LateDeductionRules     []DeductionRuleDTO `json:"late_deduction_rules" validate:"dive"`
	Overtime               OvertimeDTO        `json:"overtime"`
	WeekendDays            []string           `json:"weekend_days"`
}

// OvertimeOverrideDTO sets individual multipliers; null inherits.
type OvertimeOverrideDTO struct {
	Weekday *float64 `json:"weekday,omitempty" validate:"omitempty,gt=0"`
	Weekend *float64 `json:"weekend,omitempty" validate:"omitempty,gt=0"`
	Holiday *float64 `json:"holiday,omitempty" validate:"omitempty,gt=0"`
}

// BranchOverrideRequest is the body of PUT /api/attendance/branches/{id}/override.
type BranchOverrideRequest struct {
	Customized             bool                 `json:"customized"`
	LateGracePeriodMinutes *int                 `json:"late_grace_period_minutes,omitempty" validate:"omitempty,gte=0"`
	LateDeductionRules     []DeductionRuleDTO   `json:"late_deduction_rules,omitempty" validate:"omitempty,dive"`
	Overtime               *OvertimeOverrideDTO `json:"overtime,omitempty"`
	WeekendDays            []string             `json:"weekend_days,omitempty"`
}

// BranchSettingsDTO is the resolved policy of a branch.
type BranchSettingsDTO struct {
	BranchID   string                `json:"branch_id"`
	Customized bool                  `json:"customized"`
	Settings   AttendanceSettingsDTO `json:"settings"`
}

// EvaluateShiftRequest previews lateness and overtime for one shift.
// Times are RFC3339.
type EvaluateShiftRequest struct {
	ShiftStart      string `json:"shift_start" validate:"required"`
	CheckIn         string `json:"check_in" validate:"required"`
	OvertimeMinutes int    `json:"overtime_minutes" validate:"gte=0"`
}

// EvaluationDTO is the outcome of EvaluateShiftRequest.
type EvaluationDTO struct {
	BranchID           string  `json:"branch_id"`
	MinutesLate        int     `json:"minutes_late"`
	WithinGrace        bool    `json:"within_grace"`
	DeductMinutes      int     `json:"deduct_minutes"`
	DayKind            string  `json:"day_kind"`
	OvertimeMultiplier float64 `json:"overtime_multiplier"`
	OvertimeCredit     float64 `json:"overtime_credit_minutes"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a demo data set.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the body of POST /api/scenarios/load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id" validate:"required"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
