package leave

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bokra/hrms/generic"
)

// EligibilityRule names the policy limit a request failed.
type EligibilityRule string

const (
	RuleDisabilityOnly    EligibilityRule = "disability_only"
	RuleMaxDaysPerRequest EligibilityRule = "max_days_per_request"
	RuleEligibilityYears  EligibilityRule = "eligibility_years"
	RuleUsableAfterMonths EligibilityRule = "usable_after_months"
	RuleMaxTimesInService EligibilityRule = "max_times_in_service"
)

// EligibilityError reports which limit rejected a request.
type EligibilityError struct {
	Rule      EligibilityRule
	LeaveType LeaveTypeName
	Limit     int
	Actual    decimal.Decimal
}

func (e *EligibilityError) Error() string {
	switch e.Rule {
	case RuleDisabilityOnly:
		return fmt.Sprintf("%s leave is reserved for persons with disability", e.LeaveType)
	case RuleMaxDaysPerRequest:
		return fmt.Sprintf("%s leave allows at most %d days per request, got %s", e.LeaveType, e.Limit, e.Actual)
	case RuleEligibilityYears:
		return fmt.Sprintf("%s leave requires %d years of service, have %s", e.LeaveType, e.Limit, e.Actual)
	case RuleUsableAfterMonths:
		return fmt.Sprintf("%s leave is usable after %d months of service, have %s", e.LeaveType, e.Limit, e.Actual)
	case RuleMaxTimesInService:
		return fmt.Sprintf("%s leave may be taken %d times in service, already taken %s", e.LeaveType, e.Limit, e.Actual)
	default:
		return fmt.Sprintf("%s leave: %s", e.LeaveType, e.Rule)
	}
}

func (e *EligibilityError) Unwrap() error {
	return generic.ErrNotEligible
}

// CheckEligibility applies the optional limits of setting to req.
// history is the company-wide request list; only the employee's approved
// requests of the same type count towards MaxTimesInService.
// Balance sufficiency is not checked here.
func CheckEligibility(emp Employee, setting LeaveTypeSetting, req LeaveRequest, history []LeaveRequest, asOf generic.TimePoint) error {
	if setting.Category == CategoryDisability && !emp.IsPersonWithDisability {
		return &EligibilityError{Rule: RuleDisabilityOnly, LeaveType: setting.Name}
	}

	if limit := setting.MaxDaysPerRequest; limit != nil {
		if req.Days.Value.GreaterThan(decimal.NewFromInt(int64(*limit))) {
			return &EligibilityError{Rule: RuleMaxDaysPerRequest, LeaveType: setting.Name, Limit: *limit, Actual: req.Days.Value}
		}
	}

	tenure := emp.Tenure(asOf)
	if years := setting.EligibilityYears; years != nil && tenure.Years < *years {
		return &EligibilityError{Rule: RuleEligibilityYears, LeaveType: setting.Name, Limit: *years, Actual: decimal.NewFromInt(int64(tenure.Years))}
	}
	if months := setting.UsableAfterMonths; months != nil && tenure.TotalMonths() < *months {
		return &EligibilityError{Rule: RuleUsableAfterMonths, LeaveType: setting.Name, Limit: *months, Actual: decimal.NewFromInt(int64(tenure.TotalMonths()))}
	}

	return CheckTimesInService(emp.ID, setting, req, history)
}

// CheckTimesInService rejects req when the employee already has
// MaxTimesInService approved requests of the same type. req itself is
// never counted.
func CheckTimesInService(employeeID generic.EmployeeID, setting LeaveTypeSetting, req LeaveRequest, history []LeaveRequest) error {
	times := setting.MaxTimesInService
	if times == nil {
		return nil
	}
	taken := 0
	for _, h := range history {
		if h.ID != req.ID && h.EmployeeID == employeeID && h.LeaveType == setting.Name && h.Status == StatusApproved {
			taken++
		}
	}
	if taken >= *times {
		return &EligibilityError{Rule: RuleMaxTimesInService, LeaveType: setting.Name, Limit: *times, Actual: decimal.NewFromInt(int64(taken))}
	}
	return nil
}
