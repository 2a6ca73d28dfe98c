/*
errors.go - Centralized error types for the policy engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Lookup errors - Employee, leave type or request missing
  2. Validation errors - Malformed input, bad policy tables
  3. Policy errors - Eligibility rules and balance limits

USAGE:
  if errors.Is(err, generic.ErrNotEligible) {
      var elig *leave.EligibilityError
      errors.As(err, &elig)
  }

SEE ALSO:
  - leave/eligibility.go: EligibilityError
  - api/handlers.go: Maps errors to HTTP status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrLeaveTypeNotFound is returned when a request names an unknown leave type.
	ErrLeaveTypeNotFound = errors.New("leave type not found")

	// ErrRequestNotFound is returned when a leave request id is unknown.
	ErrRequestNotFound = errors.New("leave request not found")

	// ErrInvalidPeriod is returned when a date range ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidTransition is returned when a request status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNotEligible is returned when a leave policy rule rejects a request.
	ErrNotEligible = errors.New("not eligible")

	// ErrInsufficientBalance is returned when an approval would overdraw a balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidPolicy is returned when a policy table or settings object fails validation.
	ErrInvalidPolicy = errors.New("invalid policy")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	LeaveType  string
	Available  Amount
	Requested  Amount
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %v, requested %v",
		e.LeaveType, e.Available.Value, e.Requested.Value)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// PolicyError reports a single invalid field of a policy definition.
type PolicyError struct {
	Field  string
	Reason string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("invalid policy: %s: %s", e.Field, e.Reason)
}

func (e *PolicyError) Unwrap() error {
	return ErrInvalidPolicy
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidPolicy) ||
		errors.Is(err, ErrLeaveTypeNotFound)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound)
}
