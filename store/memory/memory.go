// Package memory provides an in-memory repository standing in for the
// backend API. It is used by tests, demos and the server when no database
// path is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bokra/hrms/attendance"
	"github.com/bokra/hrms/generic"
	"github.com/bokra/hrms/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Store implements leave.Repository and attendance.Repository.
// Every read returns copies; callers never share state with the store.
type Store struct {
	// Latency is added to every call to mimic a network round trip.
	Latency time.Duration

	mu         sync.RWMutex
	employees  map[generic.EmployeeID]leave.Employee
	empOrder   []generic.EmployeeID
	leaveTypes []leave.LeaveTypeSetting
	requests   map[generic.RequestID]leave.LeaveRequest
	reqOrder   []generic.RequestID
	settings   *attendance.Settings
	overrides  map[generic.BranchID]attendance.BranchOverride
}

var (
	_ leave.Repository      = (*Store)(nil)
	_ attendance.Repository = (*Store)(nil)
)

func New() *Store {
	return &Store{
		employees: make(map[generic.EmployeeID]leave.Employee),
		requests:  make(map[generic.RequestID]leave.LeaveRequest),
		overrides: make(map[generic.BranchID]attendance.BranchOverride),
	}
}

// wait sleeps for Latency or until ctx is done.
func (m *Store) wait(ctx context.Context) error {
	if m.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Store) GetEmployee(ctx context.Context, id generic.EmployeeID) (leave.Employee, error) {
	if err := m.wait(ctx); err != nil {
		return leave.Employee{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return leave.Employee{}, fmt.Errorf("%w: %s", generic.ErrEmployeeNotFound, id)
	}
	return emp, nil
}

func (m *Store) ListEmployees(ctx context.Context) ([]leave.Employee, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]leave.Employee, 0, len(m.empOrder))
	for _, id := range m.empOrder {
		out = append(out, m.employees[id])
	}
	return out, nil
}

// SaveEmployee inserts or replaces by ID.
func (m *Store) SaveEmployee(ctx context.Context, emp leave.Employee) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[emp.ID]; !ok {
		m.empOrder = append(m.empOrder, emp.ID)
	}
	m.employees[emp.ID] = emp
	return nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (m *Store) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeSetting, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]leave.LeaveTypeSetting(nil), m.leaveTypes...), nil
}

func (m *Store) ReplaceLeaveTypes(ctx context.Context, settings []leave.LeaveTypeSetting) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveTypes = append([]leave.LeaveTypeSetting(nil), settings...)
	return nil
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// ListLeaveRequests returns every request in insertion order.
func (m *Store) ListLeaveRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]leave.LeaveRequest, 0, len(m.reqOrder))
	for _, id := range m.reqOrder {
		out = append(out, m.requests[id])
	}
	return out, nil
}

func (m *Store) GetLeaveRequest(ctx context.Context, id generic.RequestID) (leave.LeaveRequest, error) {
	if err := m.wait(ctx); err != nil {
		return leave.LeaveRequest{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return leave.LeaveRequest{}, fmt.Errorf("%w: %s", generic.ErrRequestNotFound, id)
	}
	return req, nil
}

// SaveLeaveRequest inserts or replaces by ID.
func (m *Store) SaveLeaveRequest(ctx context.Context, req leave.LeaveRequest) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		m.reqOrder = append(m.reqOrder, req.ID)
	}
	m.requests[req.ID] = req
	return nil
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func (m *Store) GetAttendanceSettings(ctx context.Context) (attendance.Settings, error) {
	if err := m.wait(ctx); err != nil {
		return attendance.Settings{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings == nil {
		return attendance.Settings{}, attendance.ErrNotConfigured
	}
	return m.settings.Clone(), nil
}

func (m *Store) SaveAttendanceSettings(ctx context.Context, s attendance.Settings) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	m.settings = &c
	return nil
}

func (m *Store) GetBranchOverride(ctx context.Context, branchID generic.BranchID) (*attendance.BranchOverride, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.overrides[branchID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *Store) SaveBranchOverride(ctx context.Context, o attendance.BranchOverride) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.overrides[o.BranchID] = o
	return nil
}
