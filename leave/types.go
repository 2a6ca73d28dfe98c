// Package leave implements the leave policy table, the balance calculator
// and the request lifecycle on top of the generic primitives.
package leave

import (
	"time"

	"github.com/bokra/hrms/generic"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveTypeName identifies a leave category in the policy table.
type LeaveTypeName string

const (
	TypeVacation    LeaveTypeName = "VACATION"
	TypeCasual      LeaveTypeName = "CASUAL"
	TypeSick        LeaveTypeName = "SICK"
	TypeMaternity   LeaveTypeName = "MATERNITY"
	TypePilgrimage  LeaveTypeName = "PILGRIMAGE"
	TypeBereavement LeaveTypeName = "BEREAVEMENT"
	TypeDisability  LeaveTypeName = "DISABILITY"
)

var knownTypes = map[LeaveTypeName]bool{
	TypeVacation:    true,
	TypeCasual:      true,
	TypeSick:        true,
	TypeMaternity:   true,
	TypePilgrimage:  true,
	TypeBereavement: true,
	TypeDisability:  true,
}

// IsKnown reports whether n is one of the supported leave types.
func (n LeaveTypeName) IsKnown() bool { return knownTypes[n] }

// Category groups leave types for display and for special handling.
type Category string

const (
	CategoryAnnual     Category = "annual"
	CategoryCasual     Category = "casual"
	CategorySick       Category = "sick"
	CategoryFamily     Category = "family"
	CategoryReligious  Category = "religious"
	CategoryDisability Category = "disability"
	CategoryOther      Category = "other"
)

// LeaveTypeSetting is one row of the admin-configured policy table.
//
// The optional limits are pointers; nil means the rule does not apply.
// They are enforced at submission time by CheckEligibility, never by the
// balance calculator.
type LeaveTypeSetting struct {
	ID                   string
	Name                 LeaveTypeName
	BalanceDays          int
	Color                string
	Category             Category
	IsDeductedFromAnnual bool
	MaxDaysPerRequest    *int
	MaxTimesInService    *int
	EligibilityYears     *int
	UsableAfterMonths    *int
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type RequestStatus string

const (
	StatusPending  RequestStatus = "PENDING"
	StatusApproved RequestStatus = "APPROVED"
	StatusRejected RequestStatus = "REJECTED"
)

// LeaveRequest is an employee's application for leave.
type LeaveRequest struct {
	ID         generic.RequestID
	EmployeeID generic.EmployeeID
	LeaveType  LeaveTypeName
	StartDate  generic.TimePoint
	EndDate    generic.TimePoint
	Days       generic.Amount
	Status     RequestStatus
	Reason     string

	CreatedAt      time.Time
	DecidedBy      string
	DecidedAt      *time.Time
	DecisionReason string
}

// =============================================================================
// EMPLOYEE
// =============================================================================

// Employee carries the attributes the leave rules look at.
type Employee struct {
	ID                     generic.EmployeeID
	Name                   string
	BranchID               generic.BranchID
	HireDate               generic.TimePoint
	DateOfBirth            generic.TimePoint
	IsPersonWithDisability bool
}

// Tenure is the whole years/months of service as of asOf.
func (e Employee) Tenure(asOf generic.TimePoint) generic.Elapsed {
	return generic.ElapsedBetween(e.HireDate, asOf)
}

// Age is the employee's age in whole years as of asOf.
func (e Employee) Age(asOf generic.TimePoint) int {
	return generic.ElapsedBetween(e.DateOfBirth, asOf).Years
}

// =============================================================================
// BALANCE - Derived, never stored
// =============================================================================

// Balance is the per-type figure shown on the profile screen.
// Remaining is always Total - Used and may be negative.
type Balance struct {
	Type      LeaveTypeName
	Used      generic.Amount
	Total     generic.Amount
	Remaining generic.Amount
	Color     string
}
