/*
scheduler.go - Periodic overdraft audit

PURPOSE:
  Over-use of leave is displayed, not prevented: a balance may go
  negative when EnforceBalance is off. The audit scheduler periodically
  computes every employee's balances and records the ones below zero so
  HR can follow up.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - Keeps only the latest report; GET /api/reports/overdrafts serves it

USAGE:
  scheduler := NewAuditScheduler(handler, time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - leave/calculator.go: CalculateAll
  - handlers.go: BalanceReport
*/
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// OverdraftDTO is one negative balance found by the audit.
type OverdraftDTO struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Remaining  float64 `json:"remaining"`
}

// AuditReportDTO is the result of one audit run.
type AuditReportDTO struct {
	RanAt      string         `json:"ran_at"`
	AsOf       string         `json:"as_of"`
	Employees  int            `json:"employees"`
	Overdrafts []OverdraftDTO `json:"overdrafts"`
}

// AuditScheduler periodically audits balances.
type AuditScheduler struct {
	Handler       *Handler
	CheckInterval time.Duration
	Timeout       time.Duration

	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
	last   *AuditReportDTO
	active bool
}

// NewAuditScheduler creates a scheduler. A non-positive interval disables it.
func NewAuditScheduler(h *Handler, interval time.Duration) *AuditScheduler {
	return &AuditScheduler{
		Handler:       h,
		CheckInterval: interval,
		Timeout:       time.Minute,
	}
}

// Start begins the scheduler.
func (s *AuditScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.Handler.Logger
	if s.CheckInterval <= 0 {
		logger.Info("overdraft audit disabled")
		return
	}
	if s.active {
		return
	}
	s.active = true
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run()

	logger.Info("overdraft audit started", zap.Duration("interval", s.CheckInterval))
}

// Stop stops the scheduler and waits for a running audit to finish.
func (s *AuditScheduler) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	close(s.stop)
	s.mu.Unlock()

	s.wg.Wait()
	s.Handler.Logger.Info("overdraft audit stopped")
}

func (s *AuditScheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.CheckInterval)
	defer ticker.Stop()

	s.runWithTimeout()
	for {
		select {
		case <-ticker.C:
			s.runWithTimeout()
		case <-s.stop:
			return
		}
	}
}

func (s *AuditScheduler) runWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.Handler.Logger.Error("overdraft audit failed", zap.Error(err))
	}
}

// RunOnce audits every employee and stores the report.
func (s *AuditScheduler) RunOnce(ctx context.Context) (AuditReportDTO, error) {
	h := s.Handler
	employees, err := h.Repo.ListEmployees(ctx)
	if err != nil {
		return AuditReportDTO{}, err
	}
	all, err := h.Calculator.CalculateAll(ctx, employees)
	if err != nil {
		return AuditReportDTO{}, err
	}

	report := AuditReportDTO{
		RanAt:      time.Now().UTC().Format(time.RFC3339),
		AsOf:       h.today().String(),
		Employees:  len(employees),
		Overdrafts: []OverdraftDTO{},
	}
	for _, eb := range all {
		for _, b := range eb.Balances {
			if !b.Remaining.IsNegative() {
				continue
			}
			report.Overdrafts = append(report.Overdrafts, OverdraftDTO{
				EmployeeID: string(eb.Employee.ID),
				Name:       eb.Employee.Name,
				Type:       string(b.Type),
				Remaining:  b.Remaining.Float64(),
			})
		}
	}

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	if len(report.Overdrafts) > 0 {
		h.Logger.Warn("negative leave balances found",
			zap.Int("overdrafts", len(report.Overdrafts)),
			zap.Int("employees", report.Employees),
		)
	}
	return report, nil
}

// Last returns the most recent report, if any.
func (s *AuditScheduler) Last() (AuditReportDTO, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return AuditReportDTO{}, false
	}
	return *s.last, true
}

// OverdraftReport serves the latest audit, running one if none exists yet.
func (s *AuditScheduler) OverdraftReport(w http.ResponseWriter, r *http.Request) {
	if report, ok := s.Last(); ok {
		writeJSON(w, http.StatusOK, report)
		return
	}
	report, err := s.RunOnce(r.Context())
	if err != nil {
		s.Handler.writeDomainError(w, "Failed to audit balances", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
