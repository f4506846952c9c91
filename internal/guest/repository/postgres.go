// Package repository persists guests in Postgres.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"hotelmgt/internal/db"
	"hotelmgt/internal/guest/domain"
)

const findMatchSQL = `
SELECT guest_id, first_name, COALESCE(middle_name, ''), last_name, COALESCE(email, ''),
       phone_number, id_type, id_number, created_at, updated_at
FROM guests
WHERE LOWER(first_name) = LOWER($1::text)
  AND LOWER(COALESCE(middle_name, '')) = LOWER($2::text)
  AND LOWER(last_name) = LOWER($3::text)
  AND ((NULLIF($4::text, '') IS NOT NULL AND phone_number = $4::text)
    OR (NULLIF($5::text, '') IS NOT NULL AND id_number = $5::text))
ORDER BY guest_id
LIMIT 1`

const createSQL = `
INSERT INTO guests (first_name, middle_name, last_name, email, phone_number, id_type, id_number)
VALUES ($1, NULLIF($2, ''), $3, NULLIF($4, ''), $5, $6, $7)
RETURNING guest_id`

type PostgresRepository struct {
	q db.Querier
}

// NewPostgresRepository returns a guest repository on q, which may be a *sql.DB or a *sql.Tx.
func NewPostgresRepository(q db.Querier) *PostgresRepository {
	return &PostgresRepository{q: q}
}

func (r *PostgresRepository) FindMatch(ctx context.Context, id domain.Identity) (*domain.Guest, error) {
	var g domain.Guest
	err := r.q.QueryRowContext(ctx, findMatchSQL,
		id.FirstName, id.MiddleName, id.LastName, id.PhoneNumber, id.IDNumber,
	).Scan(
		&g.ID, &g.FirstName, &g.MiddleName, &g.LastName, &g.Email,
		&g.PhoneNumber, &g.IDType, &g.IDNumber, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

// Create stores blank middle name and email as NULL.
func (r *PostgresRepository) Create(ctx context.Context, id domain.Identity) (int64, error) {
	var guestID int64
	err := r.q.QueryRowContext(ctx, createSQL,
		id.FirstName, id.MiddleName, id.LastName, id.Email, id.PhoneNumber, id.IDType, id.IDNumber,
	).Scan(&guestID)
	return guestID, err
}
