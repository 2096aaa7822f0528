package directory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/leave"
)

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrLeaveTypeNotFound = errors.New("leave type not found")
)

type Employee struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	Email            string    `json:"email"`
	HireDate         time.Time `json:"hireDate"`
	EmploymentStatus string    `json:"employmentStatus"`
	CreatedAt        time.Time `json:"createdAt"`
}

type LeaveType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	IsPaid    bool      `json:"isPaid"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the employee master-record and leave type catalog collaborator.
// It satisfies leave.EmployeeDirectory and leave.TypeCatalog.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindEmployee(ctx context.Context, id string) (leave.EmployeeInfo, error) {
	var info leave.EmployeeInfo
	err := s.DB.QueryRow(ctx, `
    SELECT hire_date, employment_status
    FROM employees
    WHERE id = $1
  `, id).Scan(&info.HireDate, &info.EmploymentStatus)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.EmployeeInfo{}, ErrEmployeeNotFound
	}
	return info, err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, hire_date, employment_status, created_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.HireDate, &e.EmploymentStatus, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	return e, err
}

func (s *Store) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name, email, hire_date, employment_status, created_at
    FROM employees
    ORDER BY last_name, first_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.HireDate, &e.EmploymentStatus, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (s *Store) LeaveTypeExists(ctx context.Context, id string) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM leave_types WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetLeaveType(ctx context.Context, id string) (LeaveType, error) {
	var t LeaveType
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, code, is_paid, created_at
    FROM leave_types
    WHERE id = $1
  `, id).Scan(&t.ID, &t.Name, &t.Code, &t.IsPaid, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return LeaveType{}, ErrLeaveTypeNotFound
	}
	return t, err
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]LeaveType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, code, is_paid, created_at
    FROM leave_types
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []LeaveType
	for rows.Next() {
		var t LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.Code, &t.IsPaid, &t.CreatedAt); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
