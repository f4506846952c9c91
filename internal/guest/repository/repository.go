package repository

import (
	"context"

	"hotelmgt/internal/guest/domain"
)

// Repository finds and stores guests.
type Repository interface {
	// FindMatch returns the oldest guest matching id, or nil if none matches.
	// It returns an error only for database failures, not for missing rows.
	FindMatch(ctx context.Context, id domain.Identity) (*domain.Guest, error)
	// Create inserts a guest for id and returns its ID.
	Create(ctx context.Context, id domain.Identity) (int64, error)
}
