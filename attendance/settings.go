/*
settings.go - Attendance policy settings and their evaluation

PURPOSE:
  Company-wide rules for late arrival and overtime. Every branch uses these
  unless it has a customized override (branch.go).

LATENESS:
  Arriving within the grace period costs nothing. Past it, the deduction
  ladder is walked in order and the first bracket containing the lateness
  decides how many minutes are deducted:

    grace 15
    16-30   -> 15
    31-60   -> 30
    61-120  -> 60
    121+    -> 240   (ToMinutes 0 = open-ended, last bracket only)

  Lateness that falls in no bracket deducts nothing.

OVERTIME:
  Overtime minutes are credited at a multiplier chosen by the kind of day.
  Holiday beats weekend beats weekday.

SEE ALSO:
  - branch.go: Per-branch overrides
  - generic/time.go: HolidayCalendar
*/
package attendance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bokra/hrms/generic"
)

// DeductionRule is one bracket of the late deduction ladder.
type DeductionRule struct {
	FromMinutes   int
	ToMinutes     int
	DeductMinutes int
}

// OpenEnded reports whether the bracket has no upper bound.
func (r DeductionRule) OpenEnded() bool { return r.ToMinutes == 0 }

// Contains reports whether minutesLate falls in the bracket.
func (r DeductionRule) Contains(minutesLate int) bool {
	if minutesLate < r.FromMinutes {
		return false
	}
	return r.OpenEnded() || minutesLate <= r.ToMinutes
}

// OvertimeRates are the overtime multipliers per kind of day.
type OvertimeRates struct {
	Weekday decimal.Decimal
	Weekend decimal.Decimal
	Holiday decimal.Decimal
}

// Settings is the attendance policy of a company or branch.
type Settings struct {
	LateGracePeriodMinutes int
	LateDeductionRules     []DeductionRule
	Overtime               OvertimeRates
	WeekendDays            []time.Weekday
}

// DefaultSettings returns the built-in company policy.
func DefaultSettings() Settings {
	return Settings{
		LateGracePeriodMinutes: 15,
		LateDeductionRules: []DeductionRule{
			{FromMinutes: 16, ToMinutes: 30, DeductMinutes: 15},
			{FromMinutes: 31, ToMinutes: 60, DeductMinutes: 30},
			{FromMinutes: 61, ToMinutes: 120, DeductMinutes: 60},
			{FromMinutes: 121, DeductMinutes: 240},
		},
		Overtime: OvertimeRates{
			Weekday: decimal.RequireFromString("1.35"),
			Weekend: decimal.NewFromInt(2),
			Holiday: decimal.NewFromInt(3),
		},
		WeekendDays: []time.Weekday{time.Friday, time.Saturday},
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	out.LateDeductionRules = append([]DeductionRule(nil), s.LateDeductionRules...)
	out.WeekendDays = append([]time.Weekday(nil), s.WeekendDays...)
	return out
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the grace period, the ladder shape and the multipliers.
func (s Settings) Validate() error {
	if s.LateGracePeriodMinutes < 0 {
		return &generic.PolicyError{Field: "late_grace_period_minutes", Reason: "must not be negative"}
	}

	for i, r := range s.LateDeductionRules {
		field := fmt.Sprintf("late_deduction_rules[%d]", i)
		if r.FromMinutes < 0 || r.ToMinutes < 0 || r.DeductMinutes < 0 {
			return &generic.PolicyError{Field: field, Reason: "minutes must not be negative"}
		}
		if r.OpenEnded() {
			if i != len(s.LateDeductionRules)-1 {
				return &generic.PolicyError{Field: field, Reason: "open-ended bracket must be last"}
			}
		} else if r.FromMinutes > r.ToMinutes {
			return &generic.PolicyError{Field: field, Reason: "from_minutes exceeds to_minutes"}
		}
		if i > 0 {
			prev := s.LateDeductionRules[i-1]
			if r.FromMinutes <= prev.ToMinutes {
				return &generic.PolicyError{Field: field, Reason: "brackets must be ordered and not overlap"}
			}
		}
	}

	rates := []struct {
		field string
		value decimal.Decimal
	}{
		{"overtime.weekday", s.Overtime.Weekday},
		{"overtime.weekend", s.Overtime.Weekend},
		{"overtime.holiday", s.Overtime.Holiday},
	}
	for _, r := range rates {
		if !r.value.IsPositive() {
			return &generic.PolicyError{Field: r.field, Reason: "multiplier must be positive"}
		}
	}

	seen := make(map[time.Weekday]bool, len(s.WeekendDays))
	for _, d := range s.WeekendDays {
		if d < time.Sunday || d > time.Saturday {
			return &generic.PolicyError{Field: "weekend_days", Reason: fmt.Sprintf("invalid weekday %d", d)}
		}
		if seen[d] {
			return &generic.PolicyError{Field: "weekend_days", Reason: "duplicate " + d.String()}
		}
		seen[d] = true
	}
	return nil
}

// =============================================================================
// LATENESS
// =============================================================================

// Lateness is the outcome of a check-in.
type Lateness struct {
	MinutesLate   int
	WithinGrace   bool
	DeductMinutes int
}

// LateDeduction returns the minutes to deduct for arriving minutesLate late.
func (s Settings) LateDeduction(minutesLate int) int {
	if minutesLate <= s.LateGracePeriodMinutes {
		return 0
	}
	for _, r := range s.LateDeductionRules {
		if r.Contains(minutesLate) {
			return r.DeductMinutes
		}
	}
	return 0
}

// EvaluateCheckIn measures a check-in against the shift start.
// Early arrival counts as zero minutes late.
func (s Settings) EvaluateCheckIn(shiftStart, checkIn time.Time) Lateness {
	late := int(checkIn.Sub(shiftStart) / time.Minute)
	if late < 0 {
		late = 0
	}
	return Lateness{
		MinutesLate:   late,
		WithinGrace:   late <= s.LateGracePeriodMinutes,
		DeductMinutes: s.LateDeduction(late),
	}
}

// =============================================================================
// OVERTIME
// =============================================================================

// DayKind classifies a day for overtime purposes.
type DayKind string

const (
	DayWeekday DayKind = "weekday"
	DayWeekend DayKind = "weekend"
	DayHoliday DayKind = "holiday"
)

// IsWeekend reports whether d is one of the configured weekend days.
func (s Settings) IsWeekend(d time.Weekday) bool {
	for _, w := range s.WeekendDays {
		if w == d {
			return true
		}
	}
	return false
}

// Classify returns the kind of day. A nil calendar has no holidays.
func (s Settings) Classify(branchID generic.BranchID, day generic.TimePoint, cal generic.HolidayCalendar) DayKind {
	if cal != nil && cal.IsHoliday(branchID, day) {
		return DayHoliday
	}
	if s.IsWeekend(day.Weekday()) {
		return DayWeekend
	}
	return DayWeekday
}

// OvertimeMultiplier returns the rate for overtime worked on day.
func (s Settings) OvertimeMultiplier(branchID generic.BranchID, day generic.TimePoint, cal generic.HolidayCalendar) decimal.Decimal {
	switch s.Classify(branchID, day, cal) {
	case DayHoliday:
		return s.Overtime.Holiday
	case DayWeekend:
		return s.Overtime.Weekend
	default:
		return s.Overtime.Weekday
	}
}

// OvertimeCredit returns the credited minutes for minutes of overtime.
func (s Settings) OvertimeCredit(minutes int, branchID generic.BranchID, day generic.TimePoint, cal generic.HolidayCalendar) generic.Amount {
	if minutes <= 0 {
		return generic.NewAmountFromInt(0, generic.UnitMinutes)
	}
	return generic.NewAmountFromInt(minutes, generic.UnitMinutes).Mul(s.OvertimeMultiplier(branchID, day, cal))
}
