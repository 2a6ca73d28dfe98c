/*
handlers.go - HTTP request handlers

PURPOSE:
  Implements the REST endpoints. Handlers decode and validate the body,
  convert it to domain types, call the leave and attendance services and
  write a DTO back. No business rule lives here.

ERROR MAPPING:
  400  malformed body, validation failure, generic.IsClientError
  404  unknown employee or request
  409  status transition not allowed, duplicate employee
  422  eligibility rule or balance limit rejected the request
  500  everything else

SEE ALSO:
  - dto.go: Request/response types
  - convert.go: DTO <-> domain mapping
  - server.go: Routes
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo       leave.Repository
	Calculator *leave.Calculator
	Requests   *leave.RequestService
	Attendance *attendance.Service
	Logger     *zap.Logger

	validate *validator.Validate

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler wires a handler around already-built services.
func NewHandler(repo leave.Repository, calc *leave.Calculator, requests *leave.RequestService, att *attendance.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Repo:       repo,
		Calculator: calc,
		Requests:   requests,
		Attendance: att,
		Logger:     logger,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Health reports liveness and, for stores that support it, connectivity.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Repo.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Repo.ListEmployees(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list employees", err)
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Repo.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee adds an employee. Ids are chosen by the caller.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	emp, err := fromCreateEmployee(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	ctx := r.Context()
	_, err = h.Repo.GetEmployee(ctx, emp.ID)
	switch {
	case err == nil:
		writeError(w, http.StatusConflict, "Employee already exists", nil)
		return
	case !generic.IsNotFound(err):
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}

	if err := h.Repo.SaveEmployee(ctx, emp); err != nil {
		h.writeDomainError(w, "Failed to create employee", err)
		return
	}
	h.Logger.Info("employee created", zap.String("employee_id", string(emp.ID)))
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetBalances returns the employee's leave balances as of today.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	emp, err := h.Repo.GetEmployee(ctx, employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to get employee", err)
		return
	}
	balances, err := h.Calculator.Calculate(ctx, emp)
	if err != nil {
		h.writeDomainError(w, "Failed to calculate balances", err)
		return
	}
	writeJSON(w, http.StatusOK, EmployeeBalancesDTO{
		Employee: toEmployeeDTO(emp),
		AsOf:     h.today().String(),
		Balances: toBalanceDTOs(balances),
	})
}

// BalanceReport returns balances for every employee.
func (h *Handler) BalanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	employees, err := h.Repo.ListEmployees(ctx)
	if err != nil {
		h.writeDomainError(w, "Failed to list employees", err)
		return
	}
	all, err := h.Calculator.CalculateAll(ctx, employees)
	if err != nil {
		h.writeDomainError(w, "Failed to calculate balances", err)
		return
	}
	asOf := h.today().String()
	dtos := make([]EmployeeBalancesDTO, len(all))
	for i, eb := range all {
		dtos[i] = EmployeeBalancesDTO{
			Employee: toEmployeeDTO(eb.Employee),
			AsOf:     asOf,
			Balances: toBalanceDTOs(eb.Balances),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// LEAVE REQUEST HANDLERS
// =============================================================================

// ListEmployeeRequests returns the employee's requests ordered by start date.
func (h *Handler) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Requests.ListForEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.writeDomainError(w, "Failed to list requests", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(reqs))
}

// SubmitRequest files a new PENDING leave request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var body SubmitLeaveRequest
	if !h.decode(w, r, &body) {
		return
	}
	in, err := fromSubmitRequest(chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	req, err := h.Requests.Submit(r.Context(), in)
	if err != nil {
		h.writeDomainError(w, "Failed to submit request", err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(req))
}

// ListPendingRequests returns every request awaiting a decision.
func (h *Handler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	all, err := h.Repo.ListLeaveRequests(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list requests", err)
		return
	}
	pending := make([]leave.LeaveRequest, 0, len(all))
	for _, req := range all {
		if req.Status == leave.StatusPending {
			pending = append(pending, req)
		}
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTOs(pending))
}

// ApproveRequest approves a pending request.
func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	var body DecisionRequest
	if !h.decode(w, r, &body) {
		return
	}
	req, err := h.Requests.Approve(r.Context(), generic.RequestID(chi.URLParam(r, "id")), body.ApproverID)
	if err != nil {
		h.writeDomainError(w, "Failed to approve request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// RejectRequest rejects a pending request.
func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	var body DecisionRequest
	if !h.decode(w, r, &body) {
		return
	}
	req, err := h.Requests.Reject(r.Context(), generic.RequestID(chi.URLParam(r, "id")), body.ApproverID, body.Reason)
	if err != nil {
		h.writeDomainError(w, "Failed to reject request", err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// =============================================================================
// LEAVE TYPE HANDLERS
// =============================================================================

// ListLeaveTypes returns the policy table in display order.
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Repo.ListLeaveTypes(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list leave types", err)
		return
	}
	if len(settings) == 0 {
		settings = leave.DefaultLeaveTypes()
	}
	dtos := make([]LeaveTypeDTO, len(settings))
	for i, s := range settings {
		dtos[i] = toLeaveTypeDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ReplaceLeaveTypes swaps the whole policy table.
func (h *Handler) ReplaceLeaveTypes(w http.ResponseWriter, r *http.Request) {
	var body ReplaceLeaveTypesRequest
	if !h.decode(w, r, &body) {
		return
	}
	settings := make([]leave.LeaveTypeSetting, len(body.LeaveTypes))
	for i, dto := range body.LeaveTypes {
		settings[i] = fromLeaveTypeDTO(dto)
	}
	if err := leave.ValidateTable(settings); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid leave type table", err)
		return
	}
	if err := h.Repo.ReplaceLeaveTypes(r.Context(), settings); err != nil {
		h.writeDomainError(w, "Failed to save leave types", err)
		return
	}
	h.Logger.Info("leave type table replaced", zap.Int("rows", len(settings)))
	writeJSON(w, http.StatusOK, body.LeaveTypes)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// GetAttendanceSettings returns the company policy.
func (h *Handler) GetAttendanceSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Attendance.CompanySettings(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to get attendance settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceSettingsDTO(s))
}

// UpdateAttendanceSettings replaces the company policy.
func (h *Handler) UpdateAttendanceSettings(w http.ResponseWriter, r *http.Request) {
	var body AttendanceSettingsDTO
	if !h.decode(w, r, &body) {
		return
	}
	s, err := fromAttendanceSettings(body)
	if err != nil {
		h.writeDomainError(w, "Invalid attendance settings", err)
		return
	}
	if err := h.Attendance.UpdateCompanySettings(r.Context(), s); err != nil {
		h.writeDomainError(w, "Invalid attendance settings", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceSettingsDTO(s))
}

// GetBranchSettings returns the effective settings for a branch.
func (h *Handler) GetBranchSettings(w http.ResponseWriter, r *http.Request) {
	h.writeBranchSettings(w, r, generic.BranchID(chi.URLParam(r, "id")))
}

// SetBranchOverride saves a branch override and returns the result.
func (h *Handler) SetBranchOverride(w http.ResponseWriter, r *http.Request) {
	var body BranchOverrideRequest
	if !h.decode(w, r, &body) {
		return
	}
	branchID := chi.URLParam(r, "id")
	o, err := fromBranchOverride(branchID, body)
	if err != nil {
		h.writeDomainError(w, "Invalid branch override", err)
		return
	}
	if err := h.Attendance.SetBranchOverride(r.Context(), o); err != nil {
		h.writeDomainError(w, "Invalid branch override", err)
		return
	}
	h.writeBranchSettings(w, r, o.BranchID)
}

func (h *Handler) writeBranchSettings(w http.ResponseWriter, r *http.Request, branchID generic.BranchID) {
	ctx := r.Context()
	s, err := h.Attendance.BranchSettings(ctx, branchID)
	if err != nil {
		h.writeDomainError(w, "Failed to get branch settings", err)
		return
	}
	override, err := h.Attendance.Repo.GetBranchOverride(ctx, branchID)
	if err != nil {
		h.writeDomainError(w, "Failed to get branch settings", err)
		return
	}
	writeJSON(w, http.StatusOK, BranchSettingsDTO{
		BranchID:   string(branchID),
		Customized: override != nil && override.Customized,
		Settings:   toAttendanceSettingsDTO(s),
	})
}

// EvaluateShift previews lateness and overtime for one shift at a branch.
func (h *Handler) EvaluateShift(w http.ResponseWriter, r *http.Request) {
	var body EvaluateShiftRequest
	if !h.decode(w, r, &body) {
		return
	}
	start, err := time.Parse(time.RFC3339, body.ShiftStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift_start (use RFC3339)", err)
		return
	}
	checkIn, err := time.Parse(time.RFC3339, body.CheckIn)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid check_in (use RFC3339)", err)
		return
	}

	branchID := generic.BranchID(chi.URLParam(r, "id"))
	ev, err := h.Attendance.Evaluate(r.Context(), branchID, attendance.Shift{
		ShiftStart:      start,
		CheckIn:         checkIn,
		OvertimeMinutes: body.OvertimeMinutes,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to evaluate shift", err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluationDTO{
		BranchID:           string(branchID),
		MinutesLate:        ev.Lateness.MinutesLate,
		WithinGrace:        ev.Lateness.WithinGrace,
		DeductMinutes:      ev.Lateness.DeductMinutes,
		DayKind:            string(ev.DayKind),
		OvertimeMultiplier: ev.OvertimeMultiplier.InexactFloat64(),
		OvertimeCredit:     ev.OvertimeCredit.Float64(),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func employeeID(r *http.Request) generic.EmployeeID {
	return generic.EmployeeID(chi.URLParam(r, "id"))
}

func (h *Handler) today() generic.TimePoint {
	if h.Calculator != nil && h.Calculator.Clock != nil {
		return h.Calculator.Clock.Today()
	}
	return generic.Today()
}

// decode reads a JSON body into dst and validates it. On failure it writes
// a 400 and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", describeValidation(err))
		return false
	}
	return true
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			parts[i] = fmt.Sprintf("%s: %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
		} else {
			parts[i] = fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag())
		}
	}
	return errors.New(strings.Join(parts, "; "))
}

// writeDomainError maps service errors to a status code.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, generic.ErrInvalidTransition):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, generic.ErrNotEligible), errors.Is(err, generic.ErrInsufficientBalance):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
