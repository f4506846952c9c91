// Package repository reads the activity_log and payments tables for the feed.
package repository

import (
	"context"
	"database/sql"
	"time"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/db"
)

const listActivitySQL = `
SELECT al.activity_id, al.activity_datetime, e.first_name, e.last_name,
       al.activity_type, al.activity_description
FROM activity_log al
INNER JOIN employees e ON al.employee_id = e.employee_id
WHERE e.role = $1
  AND al.activity_datetime >= $2 AND al.activity_datetime < $3
  AND ($4::bigint IS NULL OR al.employee_id = $4)
ORDER BY al.activity_datetime DESC, al.activity_id DESC`

const maxActivitySQL = `
SELECT MAX(al.activity_datetime)
FROM activity_log al
INNER JOIN employees e ON al.employee_id = e.employee_id
WHERE e.role = $1
  AND al.activity_datetime >= $2 AND al.activity_datetime < $3
  AND ($4::bigint IS NULL OR al.employee_id = $4)`

const createActivitySQL = `
INSERT INTO activity_log (employee_id, activity_type, activity_description, activity_datetime)
VALUES ($1, $2, NULLIF($3, ''), $4)
RETURNING activity_id`

const listPaymentSQL = `
SELECT p.payment_id, p.payment_date, e.first_name, e.last_name,
       p.payment_status, p.amount, p.payment_method, p.transaction_reference,
       p.reservation_id, p.notes
FROM payments p
INNER JOIN employees e ON p.employee_id = e.employee_id
WHERE e.role = $1
  AND p.payment_date >= $2 AND p.payment_date < $3
  AND ($4::bigint IS NULL OR p.employee_id = $4)
ORDER BY p.payment_date DESC, p.payment_id DESC`

const maxPaymentSQL = `
SELECT MAX(p.payment_date)
FROM payments p
INNER JOIN employees e ON p.employee_id = e.employee_id
WHERE e.role = $1
  AND p.payment_date >= $2 AND p.payment_date < $3
  AND ($4::bigint IS NULL OR p.employee_id = $4)`

// PostgresActivityLogRepository implements ActivityLogRepository.
type PostgresActivityLogRepository struct {
	q    db.Querier
	role string
}

// NewPostgresActivityLogRepository returns a repository that only surfaces rows
// whose employee has the given role.
func NewPostgresActivityLogRepository(q db.Querier, role string) *PostgresActivityLogRepository {
	return &PostgresActivityLogRepository{q: q, role: role}
}

// ListByDay returns activity rows newest first.
func (r *PostgresActivityLogRepository) ListByDay(ctx context.Context, q domain.Query) ([]domain.ActivityRow, error) {
	rows, err := r.q.QueryContext(ctx, listActivitySQL, scopeArgs(r.role, q)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ActivityRow
	for rows.Next() {
		var row domain.ActivityRow
		if err := rows.Scan(&row.ActivityID, &row.At, &row.FirstName, &row.LastName, &row.Type, &row.Description); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresActivityLogRepository) MaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error) {
	return maxTimestamp(ctx, r.q, maxActivitySQL, scopeArgs(r.role, q))
}

// Create appends an entry. A zero At is stored as the current UTC wall clock.
func (r *PostgresActivityLogRepository) Create(ctx context.Context, e *domain.ActivityEntry) error {
	at := e.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	if err := r.q.QueryRowContext(ctx, createActivitySQL, e.EmployeeID, e.Type, e.Description, at).Scan(&e.ID); err != nil {
		return err
	}
	e.At = at
	return nil
}

// PostgresPaymentRepository implements PaymentRepository.
type PostgresPaymentRepository struct {
	q    db.Querier
	role string
}

func NewPostgresPaymentRepository(q db.Querier, role string) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{q: q, role: role}
}

func (r *PostgresPaymentRepository) ListByDay(ctx context.Context, q domain.Query) ([]domain.PaymentRow, error) {
	rows, err := r.q.QueryContext(ctx, listPaymentSQL, scopeArgs(r.role, q)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.PaymentRow
	for rows.Next() {
		var row domain.PaymentRow
		if err := rows.Scan(
			&row.PaymentID, &row.At, &row.FirstName, &row.LastName,
			&row.Status, &row.Amount, &row.Method, &row.Reference,
			&row.ReservationID, &row.Notes,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *PostgresPaymentRepository) MaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error) {
	return maxTimestamp(ctx, r.q, maxPaymentSQL, scopeArgs(r.role, q))
}

func scopeArgs(role string, q domain.Query) []any {
	start, end := q.Bounds()
	emp := sql.NullInt64{}
	if q.EmployeeID != nil {
		emp = sql.NullInt64{Int64: *q.EmployeeID, Valid: true}
	}
	return []any{role, start, end, emp}
}

func maxTimestamp(ctx context.Context, q db.Querier, query string, args []any) (*time.Time, error) {
	var max sql.NullTime
	if err := q.QueryRowContext(ctx, query, args...).Scan(&max); err != nil {
		return nil, err
	}
	if !max.Valid {
		return nil, nil
	}
	t := max.Time
	return &t, nil
}
