/*
entitlement.go - Annual leave entitlement tiers

PURPOSE:
  Annual leave is not a flat number. The total grows with years of service
  and jumps for older employees. The tiers live in an ordered rule table so
  a change in the law is a data edit, not a code change.

EVALUATION:
  Rules are checked in order; the first rule that matches wins.
  A rule matches when ANY of its thresholds is met:
    senior:     tenure >= 10 years OR age >= 50  -> 30 days
    standard:   tenure >= 1 year                 -> 21 days
    first-year: (no thresholds, always matches)  -> 15 days

  A table without a catch-all falls back to the setting's BalanceDays.

SEE ALSO:
  - calculator.go: Applies the table to VACATION
  - generic/time.go: ElapsedBetween (tenure and age arithmetic)
*/
package leave

import (
	"fmt"

	"github.com/bokra/hrms/generic"
)

// EntitlementRule maps a tenure/age predicate to a number of days.
type EntitlementRule struct {
	Name           string
	MinTenureYears *int
	MinAgeYears    *int
	Days           int
}

// Profile is the input to rule evaluation.
type Profile struct {
	Tenure generic.Elapsed
	Age    int
}

// IsCatchAll reports whether the rule has no thresholds.
func (r EntitlementRule) IsCatchAll() bool {
	return r.MinTenureYears == nil && r.MinAgeYears == nil
}

// Matches reports whether p satisfies any of the rule's thresholds.
func (r EntitlementRule) Matches(p Profile) bool {
	if r.IsCatchAll() {
		return true
	}
	if r.MinTenureYears != nil && p.Tenure.Years >= *r.MinTenureYears {
		return true
	}
	if r.MinAgeYears != nil && p.Age >= *r.MinAgeYears {
		return true
	}
	return false
}

// EntitlementRules is an ordered rule table.
type EntitlementRules []EntitlementRule

// DefaultEntitlementRules returns the statutory annual leave tiers.
func DefaultEntitlementRules() EntitlementRules {
	return EntitlementRules{
		{Name: "senior", MinTenureYears: intPtr(10), MinAgeYears: intPtr(50), Days: 30},
		{Name: "standard", MinTenureYears: intPtr(1), Days: 21},
		{Name: "first-year", Days: 15},
	}
}

// Entitlement returns the days of the first matching rule.
func (rules EntitlementRules) Entitlement(p Profile) (days int, rule string, ok bool) {
	for _, r := range rules {
		if r.Matches(p) {
			return r.Days, r.Name, true
		}
	}
	return 0, "", false
}

// Validate checks the table shape.
func (rules EntitlementRules) Validate() error {
	for i, r := range rules {
		field := fmt.Sprintf("entitlement_rules[%d]", i)
		if r.Name == "" {
			return &generic.PolicyError{Field: field + ".name", Reason: "required"}
		}
		if r.Days < 0 {
			return &generic.PolicyError{Field: field + ".days", Reason: "must not be negative"}
		}
		if (r.MinTenureYears != nil && *r.MinTenureYears < 0) || (r.MinAgeYears != nil && *r.MinAgeYears < 0) {
			return &generic.PolicyError{Field: field, Reason: "thresholds must not be negative"}
		}
		if r.IsCatchAll() && i != len(rules)-1 {
			return &generic.PolicyError{Field: field, Reason: "catch-all rule must be last"}
		}
	}
	return nil
}
