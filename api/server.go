/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request log (logging.RequestLogger)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the HR frontend
  5. Rate limit: Per-IP request budget (httprate), when enabled

ROUTE GROUPS:
  /api/employees/*            Employees, balances, their leave requests
  /api/requests/*             Approval workflow
  /api/leave-types            Leave policy table
  /api/reports/*              Company-wide balances and overdraft audit
  /api/attendance/*           Attendance policy and branch overrides
  /api/scenarios/*            Demo data
  /healthz                    Liveness

SECURITY NOTE:
  No authentication middleware. Approver identity is taken from the
  request body and trusted.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"go.uber.org/zap"

	"github.com/bokra/hrms/logging"
)

// Options tune the middleware stack.
type Options struct {
	// CORSOrigins lists allowed origins. Empty allows any.
	CORSOrigins []string

	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit int

	Logger *zap.Logger

	// Audit serves /api/reports/overdrafts. Nil audits on demand.
	Audit *AuditScheduler
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	audit := opts.Audit
	if audit == nil {
		audit = NewAuditScheduler(h, 0)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))
	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(
			opts.RateLimit,
			time.Minute,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
			}),
		))
	}

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/balances", h.GetBalances)
			r.Get("/{id}/requests", h.ListEmployeeRequests)
			r.Post("/{id}/requests", h.SubmitRequest)
		})

		r.Route("/requests", func(r chi.Router) {
			r.Get("/pending", h.ListPendingRequests)
			r.Post("/{id}/approve", h.ApproveRequest)
			r.Post("/{id}/reject", h.RejectRequest)
		})

		r.Get("/leave-types", h.ListLeaveTypes)
		r.Put("/leave-types", h.ReplaceLeaveTypes)

		r.Get("/reports/balances", h.BalanceReport)
		r.Get("/reports/overdrafts", audit.OverdraftReport)

		r.Route("/attendance", func(r chi.Router) {
			r.Get("/settings", h.GetAttendanceSettings)
			r.Put("/settings", h.UpdateAttendanceSettings)
			r.Get("/branches/{id}/settings", h.GetBranchSettings)
			r.Put("/branches/{id}/override", h.SetBranchOverride)
			r.Post("/branches/{id}/evaluate", h.EvaluateShift)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})

	return r
}
