package feed

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"hotelmgt/internal/activity/domain"
)

// Registry holds live sessions by ID. Sessions idle for longer than the TTL, or pushed out
// by newer ones once the cache is full, are dropped.
type Registry struct {
	cache   *expirable.LRU[string, *Session]
	merger  Merger
	checker StalenessChecker
	metrics *Metrics
	newID   func() string
}

func NewRegistry(size int, ttl time.Duration, merger Merger, checker StalenessChecker, metrics *Metrics) *Registry {
	r := &Registry{
		merger:  merger,
		checker: checker,
		metrics: metrics,
		newID:   func() string { return uuid.New().String() },
	}
	r.cache = expirable.NewLRU[string, *Session](size, func(string, *Session) {
		r.metrics.sessionClosed()
	}, ttl)
	return r
}

// Create registers a session for f and runs its first merge. An invalid filter registers
// nothing. A failed first merge still returns the registered session.
func (r *Registry) Create(ctx context.Context, f domain.FilterState) (*Session, *Result, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	s := NewSession(r.newID(), f, r.merger, r.checker)
	r.cache.Add(s.ID, s)
	r.metrics.sessionOpened()

	res, err := s.Apply(ctx, f)
	return s, res, err
}

// Get returns the session and resets its idle timer.
func (r *Registry) Get(id string) (*Session, error) {
	s, ok := r.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	r.cache.Add(id, s)
	return s, nil
}

func (r *Registry) Delete(id string) error {
	if !r.cache.Remove(id) {
		return ErrSessionNotFound
	}
	return nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.cache.Len()
}
