/*
store.go - Persistence interfaces for the leave domain

PURPOSE:
  The calculator and request service never touch storage directly. They
  are handed a Repository, so the same code runs against the in-memory
  mock store in tests and demos and against SQLite in production.

IMPLEMENTATIONS:
  - store/memory/memory.go: In-memory, optional simulated latency
  - store/sqlite/sqlite.go: SQLite

NOT FOUND:
  GetEmployee and GetLeaveRequest return generic.ErrEmployeeNotFound and
  generic.ErrRequestNotFound (wrapped) when the id is unknown.
*/
package leave

import (
	"context"

	"github.com/bokra/hrms/generic"
)

// EmployeeRepository stores employee records.
type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id generic.EmployeeID) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	SaveEmployee(ctx context.Context, emp Employee) error
}

// PolicyRepository stores the leave type policy table.
type PolicyRepository interface {
	// ListLeaveTypes returns the table in display order.
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeSetting, error)

	// ReplaceLeaveTypes swaps the whole table.
	ReplaceLeaveTypes(ctx context.Context, settings []LeaveTypeSetting) error
}

// RequestRepository stores leave requests.
type RequestRepository interface {
	// ListLeaveRequests returns every request in the company, unfiltered.
	ListLeaveRequests(ctx context.Context) ([]LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, id generic.RequestID) (LeaveRequest, error)
	SaveLeaveRequest(ctx context.Context, req LeaveRequest) error
}

// Repository is everything the leave domain needs.
type Repository interface {
	EmployeeRepository
	PolicyRepository
	RequestRepository
}
