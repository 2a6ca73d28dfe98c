/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for demos and for the frontend team. Each scenario creates
	employees, leave history and attendance overrides that exercise
	specific rules.

AVAILABLE SCENARIOS:

	cairo-office:      Employees in every annual leave tier, approved and
	                   pending history, one person with disability
	branch-overrides:  Alexandria with a custom ladder and weekend, Giza
	                   with an override saved but switched off

HOW SCENARIOS WORK:
 1. Employees are saved with fixed ids (loading twice is harmless)
 2. Hire dates are relative to today so tiers stay stable over time
 3. Historic requests are written directly as APPROVED
 4. Pending requests go through RequestService.Submit

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "cairo-office"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add it to the loaders map

SEE ALSO:
  - handlers.go: Handler dependencies
  - cmd/server/main.go: Seeds both scenarios at startup (config.SeedDemo)
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ErrUnknownScenario is returned by Load for an id not in the catalogue.
var ErrUnknownScenario = errors.New("unknown scenario")

var scenarios = []ScenarioDTO{
	{
		ID:          "cairo-office",
		Name:        "Cairo Office",
		Description: "Employees across every annual leave tier with approved and pending requests",
	},
	{
		ID:          "branch-overrides",
		Name:        "Branch Overrides",
		Description: "Alexandria customizes lateness and weekend; Giza keeps an inactive override",
	},
}

func (h *Handler) loaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"cairo-office":     h.loadCairoOfficeScenario,
		"branch-overrides": h.loadBranchOverridesScenario,
	}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the last loaded scenario, or null.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	current := h.currentScenario
	h.mu.Unlock()

	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.Load(r.Context(), req.ScenarioID); err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			writeError(w, http.StatusBadRequest, "Unknown scenario", err)
			return
		}
		h.writeDomainError(w, "Failed to load scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// Load runs the named scenario against the handler's store.
func (h *Handler) Load(ctx context.Context, id string) error {
	load, ok := h.loaders()[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownScenario, id)
	}
	if err := load(ctx); err != nil {
		return fmt.Errorf("load scenario %s: %w", id, err)
	}

	h.mu.Lock()
	h.currentScenario = id
	h.mu.Unlock()

	h.Logger.Info("scenario loaded", zap.String("scenario", id))
	return nil
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadCairoOfficeScenario(ctx context.Context) error {
	today := h.today()

	employees := []leave.Employee{
		{
			ID:          "emp-mona",
			Name:        "Mona Adel",
			BranchID:    "cairo",
			HireDate:    today.AddYears(-12),
			DateOfBirth: today.AddYears(-41),
		},
		{
			ID:          "emp-karim",
			Name:        "Karim Fathy",
			BranchID:    "cairo",
			HireDate:    today.AddYears(-3),
			DateOfBirth: today.AddYears(-53),
		},
		{
			ID:          "emp-salma",
			Name:        "Salma Hassan",
			BranchID:    "cairo",
			HireDate:    today.AddYears(-6),
			DateOfBirth: today.AddYears(-33),
		},
		{
			ID:          "emp-omar",
			Name:        "Omar Nabil",
			BranchID:    "alexandria",
			HireDate:    today.AddMonths(-4),
			DateOfBirth: today.AddYears(-24),
		},
		{
			ID:                     "emp-youssef",
			Name:                   "Youssef Samir",
			BranchID:               "giza",
			HireDate:               today.AddYears(-2),
			DateOfBirth:            today.AddYears(-29),
			IsPersonWithDisability: true,
		},
	}
	for _, emp := range employees {
		if err := h.Repo.SaveEmployee(ctx, emp); err != nil {
			return fmt.Errorf("save employee %s: %w", emp.ID, err)
		}
	}

	history := []struct {
		id    generic.RequestID
		emp   generic.EmployeeID
		typ   leave.LeaveTypeName
		start generic.TimePoint
		days  int
	}{
		{"req-demo-1", "emp-mona", leave.TypeVacation, today.AddMonths(-5), 10},
		{"req-demo-2", "emp-mona", leave.TypeCasual, today.AddMonths(-2), 2},
		{"req-demo-3", "emp-karim", leave.TypeSick, today.AddMonths(-3), 4},
		{"req-demo-4", "emp-salma", leave.TypePilgrimage, today.AddMonths(-8), 20},
		{"req-demo-5", "emp-youssef", leave.TypeDisability, today.AddMonths(-1), 5},
	}
	decided := time.Date(today.Year(), today.Month(), today.Day(), 9, 0, 0, 0, time.UTC)
	for _, hr := range history {
		end := hr.start.AddDays(hr.days - 1)
		if err := h.Repo.SaveLeaveRequest(ctx, leave.LeaveRequest{
			ID:         hr.id,
			EmployeeID: hr.emp,
			LeaveType:  hr.typ,
			StartDate:  hr.start,
			EndDate:    end,
			Days:       generic.NewAmountFromInt(hr.days, generic.UnitDays),
			Status:     leave.StatusApproved,
			CreatedAt:  decided.AddDate(0, -9, 0),
			DecidedBy:  "emp-mona",
			DecidedAt:  &decided,
		}); err != nil {
			return fmt.Errorf("save request %s: %w", hr.id, err)
		}
	}

	// one pending request per scenario load; skip if the employee already has one
	existing, err := h.Requests.ListForEmployee(ctx, "emp-karim")
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.Status == leave.StatusPending {
			return nil
		}
	}
	_, err = h.Requests.Submit(ctx, leave.SubmitInput{
		EmployeeID: "emp-karim",
		LeaveType:  leave.TypeVacation,
		StartDate:  today.AddDays(14),
		EndDate:    today.AddDays(18),
		Reason:     "Family trip to Aswan",
	})
	return err
}

func (h *Handler) loadBranchOverridesScenario(ctx context.Context) error {
	grace := 5
	weekendRate := generic.MustParseDecimal("2.5")
	alexandria := attendance.BranchOverride{
		BranchID:               "alexandria",
		Customized:             true,
		LateGracePeriodMinutes: &grace,
		LateDeductionRules: []attendance.DeductionRule{
			{FromMinutes: 6, ToMinutes: 30, DeductMinutes: 30},
			{FromMinutes: 31, DeductMinutes: 120},
		},
		Overtime:    &attendance.OvertimeOverride{Weekend: &weekendRate},
		WeekendDays: []time.Weekday{time.Friday},
	}
	if err := h.Attendance.SetBranchOverride(ctx, alexandria); err != nil {
		return err
	}

	giza := attendance.FullOverride("giza", attendance.DefaultSettings())
	giza.Customized = false
	zero := 0
	giza.LateGracePeriodMinutes = &zero
	return h.Attendance.SetBranchOverride(ctx, giza)
}
