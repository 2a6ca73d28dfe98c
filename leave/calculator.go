/*
calculator.go - Leave balance calculation

PURPOSE:
  Answers "how much leave does this employee have left?" for every leave
  type in the policy table. This is what the profile screen renders as
  progress bars.

ALGORITHM:
  1. Fetch every leave request in the company (one unfiltered call)
  2. Keep the employee's APPROVED requests
  3. Derive tenure and age as of today (generic.ElapsedBetween)
  4. For each leave type, in table order:
     - VACATION: total comes from the entitlement rule table
     - DISABILITY category: skipped unless the employee is flagged
     - used = sum of Days over matching approved requests
     - remaining = total - used (negative is returned as-is)

WHAT IT DOES NOT DO:
  Eligibility limits (max days per request, once-in-service, years of
  service, usable-after-months) do not change the figures here. They are
  checked when a request is submitted (eligibility.go). Over-use is not an
  error; it shows up as negative remaining.

PURITY:
  ComputeBalances is a pure function of its inputs. The Calculator adds
  fetching and a Clock, so two calls with unchanged data and a fixed
  clock return identical lists.

SEE ALSO:
  - entitlement.go: Annual leave tiers
  - store.go: Repository interfaces
*/
package leave

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bokra/hrms/generic"
)

// =============================================================================
// PURE CALCULATION
// =============================================================================

// ComputeBalances produces one Balance per applicable leave type, in the
// order of settings.
func ComputeBalances(emp Employee, settings []LeaveTypeSetting, requests []LeaveRequest, asOf generic.TimePoint, rules EntitlementRules) []Balance {
	used := make(map[LeaveTypeName]generic.Amount)
	for _, r := range requests {
		if r.EmployeeID != emp.ID || r.Status != StatusApproved {
			continue
		}
		current, ok := used[r.LeaveType]
		if !ok {
			current = generic.Days(0)
		}
		used[r.LeaveType] = current.Add(r.Days)
	}

	profile := Profile{Tenure: emp.Tenure(asOf), Age: emp.Age(asOf)}

	balances := make([]Balance, 0, len(settings))
	for _, s := range settings {
		if s.Category == CategoryDisability && !emp.IsPersonWithDisability {
			continue
		}

		total := generic.NewAmountFromInt(s.BalanceDays, generic.UnitDays)
		if s.Name == TypeVacation {
			if days, _, ok := rules.Entitlement(profile); ok {
				total = generic.NewAmountFromInt(days, generic.UnitDays)
			}
		}

		u, ok := used[s.Name]
		if !ok {
			u = generic.Days(0)
		}

		balances = append(balances, Balance{
			Type:      s.Name,
			Used:      u,
			Total:     total,
			Remaining: total.Sub(u),
			Color:     s.Color,
		})
	}
	return balances
}

// =============================================================================
// CALCULATOR - Fetch + compute
// =============================================================================

// Calculator computes balances from repository data.
type Calculator struct {
	Requests RequestRepository
	Policies PolicyRepository
	Rules    EntitlementRules
	Clock    generic.Clock
	Logger   *zap.Logger

	// Concurrency bounds CalculateAll. Zero means 8.
	Concurrency int
}

// NewCalculator wires a Calculator with the default entitlement tiers and
// the system clock.
func NewCalculator(requests RequestRepository, policies PolicyRepository, logger *zap.Logger) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{
		Requests: requests,
		Policies: policies,
		Rules:    DefaultEntitlementRules(),
		Clock:    generic.SystemClock{},
		Logger:   logger,
	}
}

// EmployeeBalances pairs an employee with its computed balances.
type EmployeeBalances struct {
	Employee Employee
	Balances []Balance
}

// Calculate returns the employee's balances as of the calculator's clock.
func (c *Calculator) Calculate(ctx context.Context, emp Employee) ([]Balance, error) {
	settings, err := c.settings(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := c.Requests.ListLeaveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}

	asOf := c.today()
	balances := ComputeBalances(emp, settings, requests, asOf, c.rules())
	c.logger().Debug("leave balances calculated",
		zap.String("employee_id", string(emp.ID)),
		zap.String("as_of", asOf.String()),
		zap.Int("entries", len(balances)),
	)
	return balances, nil
}

// CalculateAll computes balances for many employees, sharing one fetch of
// the policy table and the request list. Output order follows employees.
func (c *Calculator) CalculateAll(ctx context.Context, employees []Employee) ([]EmployeeBalances, error) {
	settings, err := c.settings(ctx)
	if err != nil {
		return nil, err
	}
	requests, err := c.Requests.ListLeaveRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave requests: %w", err)
	}

	asOf := c.today()
	rules := c.rules()
	out := make([]EmployeeBalances, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())
	for i, emp := range employees {
		i, emp := i, emp
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = EmployeeBalances{
				Employee: emp,
				Balances: ComputeBalances(emp, settings, requests, asOf, rules),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger().Debug("leave balances calculated for team",
		zap.Int("employees", len(employees)),
		zap.String("as_of", asOf.String()),
	)
	return out, nil
}

// settings loads the policy table, falling back to the built-in table when
// none has been configured.
func (c *Calculator) settings(ctx context.Context) ([]LeaveTypeSetting, error) {
	if c.Policies == nil {
		return DefaultLeaveTypes(), nil
	}
	settings, err := c.Policies.ListLeaveTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leave types: %w", err)
	}
	if len(settings) == 0 {
		c.logger().Warn("leave type table empty, using built-in defaults")
		return DefaultLeaveTypes(), nil
	}
	return settings, nil
}

func (c *Calculator) today() generic.TimePoint {
	if c.Clock == nil {
		return generic.Today()
	}
	return c.Clock.Today()
}

func (c *Calculator) rules() EntitlementRules {
	if c.Rules == nil {
		return DefaultEntitlementRules()
	}
	return c.Rules
}

func (c *Calculator) concurrency() int {
	if c.Concurrency <= 0 {
		return 8
	}
	return c.Concurrency
}

func (c *Calculator) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
