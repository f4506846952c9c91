package repository

import (
	"context"
	"database/sql"
	"errors"

	"hotelmgt/internal/db"
	"hotelmgt/internal/employee/domain"
)

const employeeColumns = `employee_id, first_name, last_name, email, phone_number, username,
       password_hash, role, is_active, hire_date`

type PostgresRepository struct {
	q db.Querier
}

// NewPostgresRepository returns an employee repository that uses q for persistence.
func NewPostgresRepository(q db.Querier) *PostgresRepository {
	return &PostgresRepository{q: q}
}

func (r *PostgresRepository) ListByRole(ctx context.Context, role string) ([]*domain.Employee, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE role = $1 ORDER BY first_name, last_name, employee_id`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByUsername returns the employee with username, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*domain.Employee, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+employeeColumns+` FROM employees WHERE username = $1`, username)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func (r *PostgresRepository) Create(ctx context.Context, e *domain.Employee) error {
	if err := e.Validate(); err != nil {
		return err
	}
	hire := e.HireDate
	if hire.IsZero() {
		return r.q.QueryRowContext(ctx, `
INSERT INTO employees (first_name, last_name, email, phone_number, username, password_hash, role, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING employee_id`,
			e.FirstName, e.LastName, e.Email, e.PhoneNumber, e.Username, e.PasswordHash, e.Role, e.IsActive,
		).Scan(&e.ID)
	}
	return r.q.QueryRowContext(ctx, `
INSERT INTO employees (first_name, last_name, email, phone_number, username, password_hash, role, is_active, hire_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING employee_id`,
		e.FirstName, e.LastName, e.Email, e.PhoneNumber, e.Username, e.PasswordHash, e.Role, e.IsActive, hire,
	).Scan(&e.ID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*domain.Employee, error) {
	var e domain.Employee
	if err := s.Scan(
		&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PhoneNumber, &e.Username,
		&e.PasswordHash, &e.Role, &e.IsActive, &e.HireDate,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
