// Package service resolves guest identities to guest records.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"hotelmgt/internal/activity"
	"hotelmgt/internal/guest/domain"
)

// GuestService finds or creates guests.
type GuestService struct {
	tx       TxRunner
	recorder activity.ActivityRecorder
}

// NewGuestService returns a GuestService. recorder may be nil.
func NewGuestService(tx TxRunner, recorder activity.ActivityRecorder) *GuestService {
	return &GuestService{tx: tx, recorder: recorder}
}

// EnsureGuest returns the existing guest matching identity or creates one, in its own transaction.
// A created guest is recorded as a "Guest Registration" activity of identity.RecordedBy, after commit.
func (s *GuestService) EnsureGuest(ctx context.Context, identity domain.Identity) (*domain.Resolution, error) {
	var res *domain.Resolution
	err := s.tx.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		res, err = s.EnsureGuestTx(ctx, stores, identity)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.Created && identity.RecordedBy != nil && s.recorder != nil {
		s.recorder.Record(ctx, *identity.RecordedBy, activity.TypeGuestRegistration, registrationNote(identity.Normalize(), res.GuestID))
	}
	return res, nil
}

// EnsureGuestTx is EnsureGuest within a caller-owned transaction. Calling it twice with the same
// identity in one transaction yields the same guest and a single record. Concurrent transactions
// are not serialized and may each create a record.
func (s *GuestService) EnsureGuestTx(ctx context.Context, stores StoreProvider, identity domain.Identity) (*domain.Resolution, error) {
	identity = identity.Normalize()
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	guests := stores.Guests()

	existing, err := guests.FindMatch(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("finding guest: %w", err)
	}
	if existing != nil {
		return &domain.Resolution{GuestID: existing.ID}, nil
	}

	id, err := guests.Create(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("creating guest: %w", err)
	}
	slog.InfoContext(ctx, "guest created", "guest_id", id)
	return &domain.Resolution{GuestID: id, Created: true}, nil
}

func registrationNote(id domain.Identity, guestID int64) string {
	return "Registered guest " + id.FirstName + " " + id.LastName + " (#" + strconv.FormatInt(guestID, 10) + ")"
}
