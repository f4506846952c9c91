package repository

import (
	"context"

	"hotelmgt/internal/employee/domain"
)

// Repository reads and stores employees.
type Repository interface {
	// ListByRole returns employees with role ordered by first then last name.
	ListByRole(ctx context.Context, role string) ([]*domain.Employee, error)
	// GetByUsername returns the employee, or nil if not found.
	GetByUsername(ctx context.Context, username string) (*domain.Employee, error)
	// Create persists e and sets its ID.
	Create(ctx context.Context, e *domain.Employee) error
}
