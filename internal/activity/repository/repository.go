package repository

import (
	"context"
	"time"

	"hotelmgt/internal/activity/domain"
)

// ActivityLogRepository reads and appends employee activity log entries.
type ActivityLogRepository interface {
	// ListByDay returns every activity row on q.Day for employees with the feed role,
	// restricted to q.EmployeeID when set.
	ListByDay(ctx context.Context, q domain.Query) ([]domain.ActivityRow, error)
	// MaxTimestamp returns the latest activity timestamp under the same scope, or nil.
	MaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error)
	// Create appends an entry and sets its ID.
	Create(ctx context.Context, e *domain.ActivityEntry) error
}

// PaymentRepository reads payment records.
type PaymentRepository interface {
	ListByDay(ctx context.Context, q domain.Query) ([]domain.PaymentRow, error)
	MaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error)
}
