/*
Package factory builds policy objects from a YAML or JSON document.

PURPOSE:
  Leave types, annual leave tiers, attendance rules, holidays and branch
  overrides are admin-owned data. The factory turns a policy file into the
  Go structs the leave and attendance packages work with, so HR can change
  the rules without a release.

DOCUMENT SCHEMA (YAML; JSON is accepted as well):
  leave_types:
    - id: lt-vacation
      name: VACATION
      balance_days: 21
      color: "#3b82f6"
      category: annual
      usable_after_months: 6
  entitlement_rules:
    - {name: senior, min_tenure_years: 10, min_age_years: 50, days: 30}
    - {name: standard, min_tenure_years: 1, days: 21}
    - {name: first-year, days: 15}
  attendance:
    late_grace_period_minutes: 15
    late_deduction_rules:
      - {from_minutes: 16, to_minutes: 30, deduct_minutes: 15}
    overtime: {weekday: "1.35", weekend: "2", holiday: "3"}
    weekend_days: [friday, saturday]
  holidays:
    - {id: h-1, date: 2024-07-23, name: Revolution Day, recurring: true}
  branches:
    - {branch_id: alex, customized: true, late_grace_period_minutes: 30}

DEFAULTS:
  A missing section keeps the built-in value (leave.DefaultLeaveTypes,
  leave.DefaultEntitlementRules, attendance.DefaultSettings).

SEE ALSO:
  - leave/policies.go: Built-in leave type table
  - attendance/settings.go: Built-in attendance policy
*/
package factory

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// =============================================================================
// DOCUMENT SCHEMA TYPES
// =============================================================================

// Document is the on-disk representation of a policy file.
type Document struct {
	LeaveTypes       []LeaveTypeDoc       `yaml:"leave_types"`
	EntitlementRules []EntitlementRuleDoc `yaml:"entitlement_rules"`
	Attendance       *AttendanceDoc       `yaml:"attendance"`
	Holidays         []HolidayDoc         `yaml:"holidays"`
	Branches         []BranchDoc          `yaml:"branches"`
}

type LeaveTypeDoc struct {
	ID                   string `yaml:"id"`
	Name                 string `yaml:"name"`
	BalanceDays          int    `yaml:"balance_days"`
	Color                string `yaml:"color"`
	Category             string `yaml:"category"`
	IsDeductedFromAnnual bool   `yaml:"is_deducted_from_annual"`
	MaxDaysPerRequest    *int   `yaml:"max_days_per_request"`
	MaxTimesInService    *int   `yaml:"max_times_in_service"`
	EligibilityYears     *int   `yaml:"eligibility_years"`
	UsableAfterMonths    *int   `yaml:"usable_after_months"`
}

type EntitlementRuleDoc struct {
	Name           string `yaml:"name"`
	MinTenureYears *int   `yaml:"min_tenure_years"`
	MinAgeYears    *int   `yaml:"min_age_years"`
	Days           int    `yaml:"days"`
}

type DeductionRuleDoc struct {
	FromMinutes   int `yaml:"from_minutes"`
	ToMinutes     int `yaml:"to_minutes"` // 0 = open-ended
	DeductMinutes int `yaml:"deduct_minutes"`
}

// OvertimeDoc carries multipliers as decimal strings ("1.35").
type OvertimeDoc struct {
	Weekday string `yaml:"weekday"`
	Weekend string `yaml:"weekend"`
	Holiday string `yaml:"holiday"`
}

type AttendanceDoc struct {
	LateGracePeriodMinutes *int               `yaml:"late_grace_period_minutes"`
	LateDeductionRules     []DeductionRuleDoc `yaml:"late_deduction_rules"`
	Overtime               *OvertimeDoc       `yaml:"overtime"`
	WeekendDays            []string           `yaml:"weekend_days"`
}

type HolidayDoc struct {
	ID        string `yaml:"id"`
	BranchID  string `yaml:"branch_id"`
	Date      string `yaml:"date"`
	Name      string `yaml:"name"`
	Recurring bool   `yaml:"recurring"`
}

// BranchDoc is a branch override; unset fields inherit the company value.
type BranchDoc struct {
	BranchID      string `yaml:"branch_id"`
	Customized    bool   `yaml:"customized"`
	AttendanceDoc `yaml:",inline"`
}

// =============================================================================
// POLICY
// =============================================================================

// Policy is a fully parsed and validated policy document.
type Policy struct {
	LeaveTypes       []leave.LeaveTypeSetting
	EntitlementRules leave.EntitlementRules
	Attendance       attendance.Settings
	Holidays         generic.HolidayList
	Overrides        []attendance.BranchOverride
}

// Default returns the built-in policy.
func Default() *Policy {
	return &Policy{
		LeaveTypes:       leave.DefaultLeaveTypes(),
		EntitlementRules: leave.DefaultEntitlementRules(),
		Attendance:       attendance.DefaultSettings(),
	}
}

// LoadFile reads and parses a policy file.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML or JSON document and validates the result.
func Parse(data []byte) (*Policy, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse policy document: %w", err)
	}
	return FromDocument(doc)
}

// FromDocument converts a Document, filling missing sections with defaults.
func FromDocument(doc Document) (*Policy, error) {
	p := Default()

	if len(doc.LeaveTypes) > 0 {
		p.LeaveTypes = make([]leave.LeaveTypeSetting, 0, len(doc.LeaveTypes))
		for _, lt := range doc.LeaveTypes {
			p.LeaveTypes = append(p.LeaveTypes, parseLeaveType(lt))
		}
	}
	if err := leave.ValidateTable(p.LeaveTypes); err != nil {
		return nil, err
	}

	if len(doc.EntitlementRules) > 0 {
		p.EntitlementRules = make(leave.EntitlementRules, 0, len(doc.EntitlementRules))
		for _, r := range doc.EntitlementRules {
			p.EntitlementRules = append(p.EntitlementRules, leave.EntitlementRule{
				Name:           r.Name,
				MinTenureYears: r.MinTenureYears,
				MinAgeYears:    r.MinAgeYears,
				Days:           r.Days,
			})
		}
	}
	if err := p.EntitlementRules.Validate(); err != nil {
		return nil, err
	}

	if doc.Attendance != nil {
		override, err := parseAttendance(*doc.Attendance, "attendance")
		if err != nil {
			return nil, err
		}
		override.Customized = true
		p.Attendance = attendance.Resolve(p.Attendance, &override)
	}
	if err := p.Attendance.Validate(); err != nil {
		return nil, err
	}

	for i, h := range doc.Holidays {
		date, err := generic.ParseDate(h.Date)
		if err != nil {
			return nil, &generic.PolicyError{Field: fmt.Sprintf("holidays[%d].date", i), Reason: err.Error()}
		}
		p.Holidays = append(p.Holidays, generic.Holiday{
			ID:        h.ID,
			BranchID:  generic.BranchID(h.BranchID),
			Date:      date,
			Name:      h.Name,
			Recurring: h.Recurring,
		})
	}

	for i, b := range doc.Branches {
		field := fmt.Sprintf("branches[%d]", i)
		if b.BranchID == "" {
			return nil, &generic.PolicyError{Field: field + ".branch_id", Reason: "required"}
		}
		override, err := parseAttendance(b.AttendanceDoc, field)
		if err != nil {
			return nil, err
		}
		override.BranchID = generic.BranchID(b.BranchID)
		override.Customized = b.Customized
		if err := attendance.Resolve(p.Attendance, &override).Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		p.Overrides = append(p.Overrides, override)
	}

	return p, nil
}

// Install writes the policy into the repositories.
func (p *Policy) Install(ctx context.Context, leaveTypes leave.PolicyRepository, att attendance.Repository) error {
	if err := leaveTypes.ReplaceLeaveTypes(ctx, p.LeaveTypes); err != nil {
		return fmt.Errorf("install leave types: %w", err)
	}
	if err := att.SaveAttendanceSettings(ctx, p.Attendance); err != nil {
		return fmt.Errorf("install attendance settings: %w", err)
	}
	for _, o := range p.Overrides {
		if err := att.SaveBranchOverride(ctx, o); err != nil {
			return fmt.Errorf("install override for branch %s: %w", o.BranchID, err)
		}
	}
	return nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseLeaveType(lt LeaveTypeDoc) leave.LeaveTypeSetting {
	name := leave.LeaveTypeName(strings.ToUpper(lt.Name))
	category := leave.Category(strings.ToLower(lt.Category))
	if category == "" {
		category = leave.DefaultCategory(name)
	}
	return leave.LeaveTypeSetting{
		ID:                   lt.ID,
		Name:                 name,
		BalanceDays:          lt.BalanceDays,
		Color:                lt.Color,
		Category:             category,
		IsDeductedFromAnnual: lt.IsDeductedFromAnnual,
		MaxDaysPerRequest:    lt.MaxDaysPerRequest,
		MaxTimesInService:    lt.MaxTimesInService,
		EligibilityYears:     lt.EligibilityYears,
		UsableAfterMonths:    lt.UsableAfterMonths,
	}
}

// parseAttendance converts the settable fields into an override.
func parseAttendance(doc AttendanceDoc, field string) (attendance.BranchOverride, error) {
	o := attendance.BranchOverride{LateGracePeriodMinutes: doc.LateGracePeriodMinutes}

	if doc.LateDeductionRules != nil {
		o.LateDeductionRules = make([]attendance.DeductionRule, 0, len(doc.LateDeductionRules))
		for _, r := range doc.LateDeductionRules {
			o.LateDeductionRules = append(o.LateDeductionRules, attendance.DeductionRule{
				FromMinutes:   r.FromMinutes,
				ToMinutes:     r.ToMinutes,
				DeductMinutes: r.DeductMinutes,
			})
		}
	}

	if doc.Overtime != nil {
		ot := &attendance.OvertimeOverride{}
		rates := []struct {
			name string
			raw  string
			dst  **decimal.Decimal
		}{
			{"weekday", doc.Overtime.Weekday, &ot.Weekday},
			{"weekend", doc.Overtime.Weekend, &ot.Weekend},
			{"holiday", doc.Overtime.Holiday, &ot.Holiday},
		}
		for _, r := range rates {
			if r.raw == "" {
				continue
			}
			d, err := decimal.NewFromString(r.raw)
			if err != nil {
				return o, &generic.PolicyError{Field: field + ".overtime." + r.name, Reason: err.Error()}
			}
			*r.dst = &d
		}
		o.Overtime = ot
	}

	if doc.WeekendDays != nil {
		o.WeekendDays = make([]time.Weekday, 0, len(doc.WeekendDays))
		for _, name := range doc.WeekendDays {
			d, err := ParseWeekday(name)
			if err != nil {
				return o, &generic.PolicyError{Field: field + ".weekend_days", Reason: err.Error()}
			}
			o.WeekendDays = append(o.WeekendDays, d)
		}
	}
	return o, nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts full English day names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return d, nil
}
