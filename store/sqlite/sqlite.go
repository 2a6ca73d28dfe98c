/*
Package sqlite provides a SQLite-backed implementation of the repositories.

PURPOSE:
  Implements leave.Repository and attendance.Repository on SQLite so the
  server keeps employees, requests and policy edits across restarts. It
  honours the same contract as store/memory; tests run against both.

KEY TABLES:
  employees:           Employee records
  leave_types:         Policy table, ordered by position
  leave_requests:      Requests and their decisions
  attendance_settings: Company attendance policy (single row, id = 1)
  branch_overrides:    Per-branch overrides, NULL column = inherit

ENCODING:
  Dates are stored as YYYY-MM-DD, timestamps as RFC3339, day counts and
  overtime multipliers as decimal text so half days survive a round trip.
  The deduction ladder and weekend days are JSON columns.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite allows a single writer.

USAGE:
  store, err := sqlite.New("./data/hrms.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - leave/store.go: Leave repository interfaces
  - attendance/service.go: Attendance repository interface
  - store/memory/memory.go: In-memory implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// Store implements the repositories using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ leave.Repository      = (*Store)(nil)
	_ attendance.Repository = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		branch_id TEXT NOT NULL DEFAULT '',
		hire_date TEXT NOT NULL,
		date_of_birth TEXT,
		is_person_with_disability INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL UNIQUE,
		balance_days INTEGER NOT NULL,
		color TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		is_deducted_from_annual INTEGER NOT NULL DEFAULT 0,
		max_days_per_request INTEGER,
		max_times_in_service INTEGER,
		eligibility_years INTEGER,
		usable_after_months INTEGER
	);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		days TEXT NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		created_at TEXT NOT NULL,
		decided_by TEXT,
		decided_at TEXT,
		decision_reason TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_employee
		ON leave_requests(employee_id, status);

	CREATE TABLE IF NOT EXISTS attendance_settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		late_grace_period_minutes INTEGER NOT NULL,
		late_deduction_rules_json TEXT NOT NULL,
		overtime_weekday TEXT NOT NULL,
		overtime_weekend TEXT NOT NULL,
		overtime_holiday TEXT NOT NULL,
		weekend_days_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS branch_overrides (
		branch_id TEXT PRIMARY KEY,
		customized INTEGER NOT NULL,
		late_grace_period_minutes INTEGER,
		late_deduction_rules_json TEXT,
		overtime_weekday TEXT,
		overtime_weekend TEXT,
		overtime_holiday TEXT,
		weekend_days_json TEXT,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee inserts or updates an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, branch_id, hire_date, date_of_birth, is_person_with_disability, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			branch_id = excluded.branch_id,
			hire_date = excluded.hire_date,
			date_of_birth = excluded.date_of_birth,
			is_person_with_disability = excluded.is_person_with_disability
	`

	_, err := s.db.ExecContext(ctx, query,
		string(emp.ID), emp.Name, string(emp.BranchID),
		formatDate(emp.HireDate), nullString(formatDate(emp.DateOfBirth)),
		emp.IsPersonWithDisability,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

const employeeColumns = "id, name, branch_id, hire_date, date_of_birth, is_person_with_disability"

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", string(id))
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Employee{}, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return emp, err
}

// ListEmployees returns all employees in insertion order.
func (s *Store) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+employeeColumns+" FROM employees ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []leave.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (leave.Employee, error) {
	var emp leave.Employee
	var id, branchID, hireDate string
	var dob sql.NullString
	if err := row.Scan(&id, &emp.Name, &branchID, &hireDate, &dob, &emp.IsPersonWithDisability); err != nil {
		return leave.Employee{}, err
	}
	var err error
	emp.ID = generic.EmployeeID(id)
	emp.BranchID = generic.BranchID(branchID)
	if emp.HireDate, err = parseDate(hireDate); err != nil {
		return leave.Employee{}, fmt.Errorf("employee %s hire_date: %w", id, err)
	}
	if emp.DateOfBirth, err = parseDate(dob.String); err != nil {
		return leave.Employee{}, fmt.Errorf("employee %s date_of_birth: %w", id, err)
	}
	return emp, nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

// ListLeaveTypes returns the policy table in display order.
func (s *Store) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, balance_days, color, category, is_deducted_from_annual,
			max_days_per_request, max_times_in_service, eligibility_years, usable_after_months
		FROM leave_types ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []leave.LeaveTypeSetting
	for rows.Next() {
		var lt leave.LeaveTypeSetting
		var name, category string
		var maxDays, maxTimes, eligYears, usableAfter sql.NullInt64
		if err := rows.Scan(&lt.ID, &name, &lt.BalanceDays, &lt.Color, &category, &lt.IsDeductedFromAnnual,
			&maxDays, &maxTimes, &eligYears, &usableAfter); err != nil {
			return nil, err
		}
		lt.Name = leave.LeaveTypeName(name)
		lt.Category = leave.Category(category)
		lt.MaxDaysPerRequest = intFromNull(maxDays)
		lt.MaxTimesInService = intFromNull(maxTimes)
		lt.EligibilityYears = intFromNull(eligYears)
		lt.UsableAfterMonths = intFromNull(usableAfter)
		settings = append(settings, lt)
	}
	return settings, rows.Err()
}

// ReplaceLeaveTypes swaps the whole table in one transaction.
func (s *Store) ReplaceLeaveTypes(ctx context.Context, settings []leave.LeaveTypeSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM leave_types"); err != nil {
		return err
	}
	query := `
		INSERT INTO leave_types (id, position, name, balance_days, color, category, is_deducted_from_annual,
			max_days_per_request, max_times_in_service, eligibility_years, usable_after_months)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, lt := range settings {
		_, err := tx.ExecContext(ctx, query,
			lt.ID, i, string(lt.Name), lt.BalanceDays, lt.Color, string(lt.Category), lt.IsDeductedFromAnnual,
			nullInt(lt.MaxDaysPerRequest), nullInt(lt.MaxTimesInService),
			nullInt(lt.EligibilityYears), nullInt(lt.UsableAfterMonths),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return &generic.PolicyError{Field: lt.ID, Reason: "duplicate leave type"}
			}
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SaveLeaveRequest inserts a request or records its decision.
func (s *Store) SaveLeaveRequest(ctx context.Context, r leave.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO leave_requests (id, employee_id, leave_type, start_date, end_date, days, status,
			reason, created_at, decided_by, decided_at, decision_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			decided_by = excluded.decided_by,
			decided_at = excluded.decided_at,
			decision_reason = excluded.decision_reason
	`

	var decidedAt sql.NullString
	if r.DecidedAt != nil {
		decidedAt = nullString(r.DecidedAt.UTC().Format(time.RFC3339))
	}

	_, err := s.db.ExecContext(ctx, query,
		string(r.ID), string(r.EmployeeID), string(r.LeaveType),
		formatDate(r.StartDate), formatDate(r.EndDate),
		r.Days.Value.String(), string(r.Status), nullString(r.Reason),
		r.CreatedAt.UTC().Format(time.RFC3339),
		nullString(r.DecidedBy), decidedAt, nullString(r.DecisionReason),
	)
	if err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, r.EmployeeID)
	}
	return err
}

const requestColumns = `id, employee_id, leave_type, start_date, end_date, days, status,
	reason, created_at, decided_by, decided_at, decision_reason`

// GetLeaveRequest retrieves a request by ID.
func (s *Store) GetLeaveRequest(ctx context.Context, id generic.RequestID) (leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+requestColumns+" FROM leave_requests WHERE id = ?", string(id))
	r, err := scanRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return r, err
}

// ListLeaveRequests returns every request in insertion order.
func (s *Store) ListLeaveRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT "+requestColumns+" FROM leave_requests ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func scanRequest(row scanner) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	var id, employeeID, leaveType, startDate, endDate, days, status, createdAt string
	var reason, decidedBy, decidedAt, decisionReason sql.NullString

	if err := row.Scan(&id, &employeeID, &leaveType, &startDate, &endDate, &days, &status,
		&reason, &createdAt, &decidedBy, &decidedAt, &decisionReason); err != nil {
		return leave.LeaveRequest{}, err
	}

	amount, err := generic.ParseAmount(days, generic.UnitDays)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("request %s: %w", id, err)
	}

	r.ID = generic.RequestID(id)
	r.EmployeeID = generic.EmployeeID(employeeID)
	r.LeaveType = leave.LeaveTypeName(leaveType)
	if r.StartDate, err = parseDate(startDate); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("request %s start_date: %w", id, err)
	}
	if r.EndDate, err = parseDate(endDate); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("request %s end_date: %w", id, err)
	}
	r.Days = amount
	r.Status = leave.RequestStatus(status)
	r.Reason = reason.String
	if r.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("request %s created_at: %w", id, err)
	}
	r.DecidedBy = decidedBy.String
	r.DecisionReason = decisionReason.String
	if decidedAt.Valid {
		t, err := time.Parse(time.RFC3339, decidedAt.String)
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("request %s decided_at: %w", id, err)
		}
		r.DecidedAt = &t
	}
	return r, nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type deductionRuleJSON struct {
	FromMinutes   int `json:"from_minutes"`
	ToMinutes     int `json:"to_minutes"`
	DeductMinutes int `json:"deduct_minutes"`
}

func encodeRules(rules []attendance.DeductionRule) (string, error) {
	out := make([]deductionRuleJSON, 0, len(rules))
	for _, r := range rules {
		out = append(out, deductionRuleJSON(r))
	}
	b, err := json.Marshal(out)
	return string(b), err
}

func decodeRules(s string) ([]attendance.DeductionRule, error) {
	var in []deductionRuleJSON
	if err := json.Unmarshal([]byte(s), &in); err != nil {
		return nil, err
	}
	out := make([]attendance.DeductionRule, 0, len(in))
	for _, r := range in {
		out = append(out, attendance.DeductionRule(r))
	}
	return out, nil
}

func encodeWeekdays(days []time.Weekday) (string, error) {
	b, err := json.Marshal(days)
	return string(b), err
}

func decodeWeekdays(s string) ([]time.Weekday, error) {
	days := []time.Weekday{}
	err := json.Unmarshal([]byte(s), &days)
	return days, err
}

// GetAttendanceSettings returns attendance.ErrNotConfigured until settings are saved.
func (s *Store) GetAttendanceSettings(ctx context.Context) (attendance.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out attendance.Settings
	var rulesJSON, weekday, weekend, holiday, weekendJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT late_grace_period_minutes, late_deduction_rules_json,
			overtime_weekday, overtime_weekend, overtime_holiday, weekend_days_json
		FROM attendance_settings WHERE id = 1
	`).Scan(&out.LateGracePeriodMinutes, &rulesJSON, &weekday, &weekend, &holiday, &weekendJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return attendance.Settings{}, attendance.ErrNotConfigured
	}
	if err != nil {
		return attendance.Settings{}, err
	}

	if out.LateDeductionRules, err = decodeRules(rulesJSON); err != nil {
		return attendance.Settings{}, fmt.Errorf("decode deduction rules: %w", err)
	}
	if out.WeekendDays, err = decodeWeekdays(weekendJSON); err != nil {
		return attendance.Settings{}, fmt.Errorf("decode weekend days: %w", err)
	}
	if out.Overtime.Weekday, err = decimal.NewFromString(weekday); err != nil {
		return attendance.Settings{}, err
	}
	if out.Overtime.Weekend, err = decimal.NewFromString(weekend); err != nil {
		return attendance.Settings{}, err
	}
	if out.Overtime.Holiday, err = decimal.NewFromString(holiday); err != nil {
		return attendance.Settings{}, err
	}
	return out, nil
}

// SaveAttendanceSettings replaces the company policy.
func (s *Store) SaveAttendanceSettings(ctx context.Context, settings attendance.Settings) error {
	rulesJSON, err := encodeRules(settings.LateDeductionRules)
	if err != nil {
		return err
	}
	weekendJSON, err := encodeWeekdays(settings.WeekendDays)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO attendance_settings (id, late_grace_period_minutes, late_deduction_rules_json,
			overtime_weekday, overtime_weekend, overtime_holiday, weekend_days_json, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			late_grace_period_minutes = excluded.late_grace_period_minutes,
			late_deduction_rules_json = excluded.late_deduction_rules_json,
			overtime_weekday = excluded.overtime_weekday,
			overtime_weekend = excluded.overtime_weekend,
			overtime_holiday = excluded.overtime_holiday,
			weekend_days_json = excluded.weekend_days_json,
			updated_at = excluded.updated_at
	`,
		settings.LateGracePeriodMinutes, rulesJSON,
		settings.Overtime.Weekday.String(), settings.Overtime.Weekend.String(), settings.Overtime.Holiday.String(),
		weekendJSON, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetBranchOverride returns nil, nil when the branch has no override.
func (s *Store) GetBranchOverride(ctx context.Context, branchID generic.BranchID) (*attendance.BranchOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := attendance.BranchOverride{BranchID: branchID}
	var grace sql.NullInt64
	var rulesJSON, weekday, weekend, holiday, weekendJSON sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT customized, late_grace_period_minutes, late_deduction_rules_json,
			overtime_weekday, overtime_weekend, overtime_holiday, weekend_days_json
		FROM branch_overrides WHERE branch_id = ?
	`, string(branchID)).Scan(&o.Customized, &grace, &rulesJSON, &weekday, &weekend, &holiday, &weekendJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.LateGracePeriodMinutes = intFromNull(grace)
	if rulesJSON.Valid {
		if o.LateDeductionRules, err = decodeRules(rulesJSON.String); err != nil {
			return nil, fmt.Errorf("decode deduction rules: %w", err)
		}
	}
	if weekendJSON.Valid {
		if o.WeekendDays, err = decodeWeekdays(weekendJSON.String); err != nil {
			return nil, fmt.Errorf("decode weekend days: %w", err)
		}
	}
	if weekday.Valid || weekend.Valid || holiday.Valid {
		o.Overtime = &attendance.OvertimeOverride{}
		if o.Overtime.Weekday, err = decimalFromNull(weekday); err != nil {
			return nil, err
		}
		if o.Overtime.Weekend, err = decimalFromNull(weekend); err != nil {
			return nil, err
		}
		if o.Overtime.Holiday, err = decimalFromNull(holiday); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// SaveBranchOverride inserts or replaces a branch override.
func (s *Store) SaveBranchOverride(ctx context.Context, o attendance.BranchOverride) error {
	var rulesJSON, weekendJSON sql.NullString
	if o.LateDeductionRules != nil {
		enc, err := encodeRules(o.LateDeductionRules)
		if err != nil {
			return err
		}
		rulesJSON = nullString(enc)
	}
	if o.WeekendDays != nil {
		enc, err := encodeWeekdays(o.WeekendDays)
		if err != nil {
			return err
		}
		weekendJSON = nullString(enc)
	}
	var weekday, weekend, holiday sql.NullString
	if o.Overtime != nil {
		weekday = nullDecimal(o.Overtime.Weekday)
		weekend = nullDecimal(o.Overtime.Weekend)
		holiday = nullDecimal(o.Overtime.Holiday)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO branch_overrides (branch_id, customized, late_grace_period_minutes, late_deduction_rules_json,
			overtime_weekday, overtime_weekend, overtime_holiday, weekend_days_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(branch_id) DO UPDATE SET
			customized = excluded.customized,
			late_grace_period_minutes = excluded.late_grace_period_minutes,
			late_deduction_rules_json = excluded.late_deduction_rules_json,
			overtime_weekday = excluded.overtime_weekday,
			overtime_weekend = excluded.overtime_weekend,
			overtime_holiday = excluded.overtime_holiday,
			weekend_days_json = excluded.weekend_days_json,
			updated_at = excluded.updated_at
	`,
		string(o.BranchID), o.Customized, nullInt(o.LateGracePeriodMinutes), rulesJSON,
		weekday, weekend, holiday, weekendJSON, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return nullString(d.String())
}

func decimalFromNull(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(tp generic.TimePoint) string {
	if tp.IsZero() {
		return ""
	}
	return tp.Time.Format(generic.DateLayout)
}

func parseDate(s string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, nil
	}
	return generic.ParseDate(s)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
