/*
policies.go - Built-in leave type policy table

PURPOSE:
  Provides the ready-to-use policy table that ships with the product. It
  encodes the statutory leave categories of the labor law the product was
  first deployed under. Admins replace it through the policy file or the
  leave-types endpoint.

AVAILABLE TYPES (display order):
  VACATION:     Annual leave. Total is tiered by tenure/age (entitlement.go);
                the 21 here is only the fallback. First-year entitlement is
                usable after 6 months.
  CASUAL:       6 days, deducted from annual, max 2 days per request
  SICK:         180 days
  MATERNITY:    90 days, at most 3 times in service
  PILGRIMAGE:   30 days, after 5 years of service, once in service
  BEREAVEMENT:  3 days per request
  DISABILITY:   45 days, only for employees flagged as persons with disability

CUSTOMIZATION:
  The table is data, not code:
    settings := leave.DefaultLeaveTypes()
    settings[0].Color = "#0ea5e9"
    err := leave.ValidateTable(settings)

SEE ALSO:
  - entitlement.go: Tenure/age tiers for VACATION
  - eligibility.go: Where the optional limits are enforced
  - factory/policy.go: Policy file loading
*/
package leave

import (
	"fmt"

	"github.com/bokra/hrms/generic"
)

func intPtr(n int) *int { return &n }

// =============================================================================
// DEFAULT TABLE
// =============================================================================

// DefaultLeaveTypes returns a fresh copy of the built-in policy table.
func DefaultLeaveTypes() []LeaveTypeSetting {
	return []LeaveTypeSetting{
		{
			ID:                "lt-vacation",
			Name:              TypeVacation,
			BalanceDays:       21,
			Color:             "#3b82f6",
			Category:          CategoryAnnual,
			UsableAfterMonths: intPtr(6),
		},
		{
			ID:                   "lt-casual",
			Name:                 TypeCasual,
			BalanceDays:          6,
			Color:                "#f59e0b",
			Category:             CategoryCasual,
			IsDeductedFromAnnual: true,
			MaxDaysPerRequest:    intPtr(2),
		},
		{
			ID:          "lt-sick",
			Name:        TypeSick,
			BalanceDays: 180,
			Color:       "#ef4444",
			Category:    CategorySick,
		},
		{
			ID:                "lt-maternity",
			Name:              TypeMaternity,
			BalanceDays:       90,
			Color:             "#ec4899",
			Category:          CategoryFamily,
			MaxTimesInService: intPtr(3),
		},
		{
			ID:                "lt-pilgrimage",
			Name:              TypePilgrimage,
			BalanceDays:       30,
			Color:             "#10b981",
			Category:          CategoryReligious,
			EligibilityYears:  intPtr(5),
			MaxTimesInService: intPtr(1),
		},
		{
			ID:                "lt-bereavement",
			Name:              TypeBereavement,
			BalanceDays:       3,
			Color:             "#6b7280",
			Category:          CategoryFamily,
			MaxDaysPerRequest: intPtr(3),
		},
		{
			ID:          "lt-disability",
			Name:        TypeDisability,
			BalanceDays: 45,
			Color:       "#8b5cf6",
			Category:    CategoryDisability,
		},
	}
}

// DefaultCategory returns the built-in category of name, or CategoryOther.
func DefaultCategory(name LeaveTypeName) Category {
	for _, s := range DefaultLeaveTypes() {
		if s.Name == name {
			return s.Category
		}
	}
	return CategoryOther
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks a single row.
func (s LeaveTypeSetting) Validate() error {
	if s.ID == "" {
		return &generic.PolicyError{Field: "id", Reason: "required"}
	}
	if !s.Name.IsKnown() {
		return &generic.PolicyError{Field: s.ID + ".name", Reason: fmt.Sprintf("unknown leave type %q", s.Name)}
	}
	if s.BalanceDays < 0 {
		return &generic.PolicyError{Field: s.ID + ".balance_days", Reason: "must not be negative"}
	}
	// the calculator and eligibility check key off the category
	if s.Name == TypeDisability && s.Category != CategoryDisability {
		return &generic.PolicyError{Field: s.ID + ".category", Reason: fmt.Sprintf("%s requires category %q", TypeDisability, CategoryDisability)}
	}
	limits := []struct {
		field string
		value *int
	}{
		{"max_days_per_request", s.MaxDaysPerRequest},
		{"max_times_in_service", s.MaxTimesInService},
		{"eligibility_years", s.EligibilityYears},
		{"usable_after_months", s.UsableAfterMonths},
	}
	for _, l := range limits {
		if l.value != nil && *l.value <= 0 {
			return &generic.PolicyError{Field: s.ID + "." + l.field, Reason: "must be positive when set"}
		}
	}
	return nil
}

// ValidateTable checks every row and that ids and names are unique.
func ValidateTable(settings []LeaveTypeSetting) error {
	ids := make(map[string]bool, len(settings))
	names := make(map[LeaveTypeName]bool, len(settings))
	for _, s := range settings {
		if err := s.Validate(); err != nil {
			return err
		}
		if ids[s.ID] {
			return &generic.PolicyError{Field: s.ID, Reason: "duplicate id"}
		}
		if names[s.Name] {
			return &generic.PolicyError{Field: s.ID, Reason: fmt.Sprintf("duplicate leave type %s", s.Name)}
		}
		ids[s.ID] = true
		names[s.Name] = true
	}
	return nil
}

// FindSetting returns the row for name.
func FindSetting(settings []LeaveTypeSetting, name LeaveTypeName) (LeaveTypeSetting, bool) {
	for _, s := range settings {
		if s.Name == name {
			return s, true
		}
	}
	return LeaveTypeSetting{}, false
}
