package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/factory"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// =============================================================================
// DOMAIN -> DTO
// =============================================================================

func toEmployeeDTO(e leave.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:                     string(e.ID),
		Name:                   e.Name,
		BranchID:               string(e.BranchID),
		HireDate:               e.HireDate.String(),
		IsPersonWithDisability: e.IsPersonWithDisability,
	}
	if !e.DateOfBirth.IsZero() {
		dto.DateOfBirth = e.DateOfBirth.String()
	}
	return dto
}

func toBalanceDTOs(balances []leave.Balance) []BalanceDTO {
	out := make([]BalanceDTO, len(balances))
	for i, b := range balances {
		out[i] = BalanceDTO{
			Type:      string(b.Type),
			Used:      b.Used.Float64(),
			Total:     b.Total.Float64(),
			Remaining: b.Remaining.Float64(),
			Color:     b.Color,
		}
	}
	return out
}

func toLeaveRequestDTO(r leave.LeaveRequest) LeaveRequestDTO {
	dto := LeaveRequestDTO{
		ID:             string(r.ID),
		EmployeeID:     string(r.EmployeeID),
		LeaveType:      string(r.LeaveType),
		StartDate:      r.StartDate.String(),
		EndDate:        r.EndDate.String(),
		Days:           r.Days.Float64(),
		Status:         string(r.Status),
		Reason:         r.Reason,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		DecidedBy:      r.DecidedBy,
		DecisionReason: r.DecisionReason,
	}
	if r.DecidedAt != nil {
		s := r.DecidedAt.Format(time.RFC3339)
		dto.DecidedAt = &s
	}
	return dto
}

func toLeaveRequestDTOs(reqs []leave.LeaveRequest) []LeaveRequestDTO {
	out := make([]LeaveRequestDTO, len(reqs))
	for i, r := range reqs {
		out[i] = toLeaveRequestDTO(r)
	}
	return out
}

func toLeaveTypeDTO(s leave.LeaveTypeSetting) LeaveTypeDTO {
	return LeaveTypeDTO{
		ID:                   s.ID,
		Name:                 string(s.Name),
		BalanceDays:          s.BalanceDays,
		Color:                s.Color,
		Category:             string(s.Category),
		IsDeductedFromAnnual: s.IsDeductedFromAnnual,
		MaxDaysPerRequest:    s.MaxDaysPerRequest,
		MaxTimesInService:    s.MaxTimesInService,
		EligibilityYears:     s.EligibilityYears,
		UsableAfterMonths:    s.UsableAfterMonths,
	}
}

func toAttendanceSettingsDTO(s attendance.Settings) AttendanceSettingsDTO {
	rules := make([]DeductionRuleDTO, len(s.LateDeductionRules))
	for i, r := range s.LateDeductionRules {
		rules[i] = DeductionRuleDTO{FromMinutes: r.FromMinutes, ToMinutes: r.ToMinutes, DeductMinutes: r.DeductMinutes}
	}
	days := make([]string, len(s.WeekendDays))
	for i, d := range s.WeekendDays {
		days[i] = d.String()
	}
	return AttendanceSettingsDTO{
		LateGracePeriodMinutes: s.LateGracePeriodMinutes,
		LateDeductionRules:     rules,
		Overtime: OvertimeDTO{
			Weekday: s.Overtime.Weekday.InexactFloat64(),
			Weekend: s.Overtime.Weekend.InexactFloat64(),
			Holiday: s.Overtime.Holiday.InexactFloat64(),
		},
		WeekendDays: days,
	}
}

// =============================================================================
// DTO -> DOMAIN
// =============================================================================

func fromCreateEmployee(req CreateEmployeeRequest) (leave.Employee, error) {
	hired, err := generic.ParseDate(req.HireDate)
	if err != nil {
		return leave.Employee{}, fmt.Errorf("hire_date: %w", err)
	}
	emp := leave.Employee{
		ID:                     generic.EmployeeID(req.ID),
		Name:                   req.Name,
		BranchID:               generic.BranchID(req.BranchID),
		HireDate:               hired,
		IsPersonWithDisability: req.IsPersonWithDisability,
	}
	if req.DateOfBirth != "" {
		dob, err := generic.ParseDate(req.DateOfBirth)
		if err != nil {
			return leave.Employee{}, fmt.Errorf("date_of_birth: %w", err)
		}
		emp.DateOfBirth = dob
	}
	return emp, nil
}

func fromSubmitRequest(employeeID string, req SubmitLeaveRequest) (leave.SubmitInput, error) {
	start, err := generic.ParseDate(req.StartDate)
	if err != nil {
		return leave.SubmitInput{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := generic.ParseDate(req.EndDate)
	if err != nil {
		return leave.SubmitInput{}, fmt.Errorf("end_date: %w", err)
	}
	in := leave.SubmitInput{
		EmployeeID: generic.EmployeeID(employeeID),
		LeaveType:  leave.LeaveTypeName(req.LeaveType),
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}
	if req.Days != nil {
		in.Days = generic.Days(*req.Days)
	}
	return in, nil
}

func fromLeaveTypeDTO(dto LeaveTypeDTO) leave.LeaveTypeSetting {
	return leave.LeaveTypeSetting{
		ID:                   dto.ID,
		Name:                 leave.LeaveTypeName(dto.Name),
		BalanceDays:          dto.BalanceDays,
		Color:                dto.Color,
		Category:             leave.Category(dto.Category),
		IsDeductedFromAnnual: dto.IsDeductedFromAnnual,
		MaxDaysPerRequest:    dto.MaxDaysPerRequest,
		MaxTimesInService:    dto.MaxTimesInService,
		EligibilityYears:     dto.EligibilityYears,
		UsableAfterMonths:    dto.UsableAfterMonths,
	}
}

func fromDeductionRules(dtos []DeductionRuleDTO) []attendance.DeductionRule {
	if dtos == nil {
		return nil
	}
	out := make([]attendance.DeductionRule, len(dtos))
	for i, d := range dtos {
		out[i] = attendance.DeductionRule{FromMinutes: d.FromMinutes, ToMinutes: d.ToMinutes, DeductMinutes: d.DeductMinutes}
	}
	return out
}

func fromWeekdays(names []string) ([]time.Weekday, error) {
	if names == nil {
		return nil, nil
	}
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := factory.ParseWeekday(n)
		if err != nil {
			return nil, &generic.PolicyError{Field: "weekend_days", Reason: err.Error()}
		}
		out = append(out, d)
	}
	return out, nil
}

func fromAttendanceSettings(dto AttendanceSettingsDTO) (attendance.Settings, error) {
	days, err := fromWeekdays(dto.WeekendDays)
	if err != nil {
		return attendance.Settings{}, err
	}
	if days == nil {
		days = []time.Weekday{}
	}
	rules := fromDeductionRules(dto.LateDeductionRules)
	if rules == nil {
		rules = []attendance.DeductionRule{}
	}
	return attendance.Settings{
		LateGracePeriodMinutes: dto.LateGracePeriodMinutes,
		LateDeductionRules:     rules,
		Overtime: attendance.OvertimeRates{
			Weekday: decimal.NewFromFloat(dto.Overtime.Weekday),
			Weekend: decimal.NewFromFloat(dto.Overtime.Weekend),
			Holiday: decimal.NewFromFloat(dto.Overtime.Holiday),
		},
		WeekendDays: days,
	}, nil
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func fromBranchOverride(branchID string, req BranchOverrideRequest) (attendance.BranchOverride, error) {
	days, err := fromWeekdays(req.WeekendDays)
	if err != nil {
		return attendance.BranchOverride{}, err
	}
	o := attendance.BranchOverride{
		BranchID:               generic.BranchID(branchID),
		Customized:             req.Customized,
		LateGracePeriodMinutes: req.LateGracePeriodMinutes,
		LateDeductionRules:     fromDeductionRules(req.LateDeductionRules),
		WeekendDays:            days,
	}
	if ot := req.Overtime; ot != nil {
		o.Overtime = &attendance.OvertimeOverride{
			Weekday: decimalPtr(ot.Weekday),
			Weekend: decimalPtr(ot.Weekend),
			Holiday: decimalPtr(ot.Holiday),
		}
	}
	return o, nil
}
