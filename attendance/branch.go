package attendance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bokra/hrms/generic"
)

// =============================================================================
// BRANCH OVERRIDES
// =============================================================================

// BranchOverride customizes the company policy for one branch.
// Nil fields inherit the company value.
type BranchOverride struct {
	BranchID   generic.BranchID
	Customized bool

	LateGracePeriodMinutes *int
	LateDeductionRules     []DeductionRule
	Overtime               *OvertimeOverride
	WeekendDays            []time.Weekday
}

// OvertimeOverride sets individual multipliers.
type OvertimeOverride struct {
	Weekday *decimal.Decimal
	Weekend *decimal.Decimal
	Holiday *decimal.Decimal
}

// Resolve returns the effective settings for a branch.
// Without an override, or when it is not customized, the defaults apply
// unchanged. Otherwise each field the override sets replaces the default;
// the ladder and weekend days are replaced whole when present.
func Resolve(defaults Settings, override *BranchOverride) Settings {
	out := defaults.Clone()
	if override == nil || !override.Customized {
		return out
	}

	if override.LateGracePeriodMinutes != nil {
		out.LateGracePeriodMinutes = *override.LateGracePeriodMinutes
	}
	if override.LateDeductionRules != nil {
		out.LateDeductionRules = append([]DeductionRule(nil), override.LateDeductionRules...)
	}
	if override.WeekendDays != nil {
		out.WeekendDays = append([]time.Weekday(nil), override.WeekendDays...)
	}
	if ot := override.Overtime; ot != nil {
		if ot.Weekday != nil {
			out.Overtime.Weekday = *ot.Weekday
		}
		if ot.Weekend != nil {
			out.Overtime.Weekend = *ot.Weekend
		}
		if ot.Holiday != nil {
			out.Overtime.Holiday = *ot.Holiday
		}
	}
	return out
}

// FullOverride builds a customized override that sets every field of s.
func FullOverride(branchID generic.BranchID, s Settings) BranchOverride {
	grace := s.LateGracePeriodMinutes
	weekday, weekend, holiday := s.Overtime.Weekday, s.Overtime.Weekend, s.Overtime.Holiday
	c := s.Clone()
	return BranchOverride{
		BranchID:               branchID,
		Customized:             true,
		LateGracePeriodMinutes: &grace,
		LateDeductionRules:     c.LateDeductionRules,
		Overtime:               &OvertimeOverride{Weekday: &weekday, Weekend: &weekend, Holiday: &holiday},
		WeekendDays:            c.WeekendDays,
	}
}
