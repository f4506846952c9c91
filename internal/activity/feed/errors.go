package feed

import (
	"errors"
	"fmt"

	"hotelmgt/internal/activity/domain"
)

var (
	// ErrSourceUnavailable marks a backing-store failure or timeout in one of the sources.
	ErrSourceUnavailable = errors.New("event source unavailable")
	// ErrMergeInFlight is returned by Session.Refresh when another merge is running.
	ErrMergeInFlight = errors.New("merge already in flight")
	// ErrSuperseded is returned when the filter changed while a merge was running.
	ErrSuperseded = errors.New("merge superseded by a newer filter")
	// ErrSessionNotFound is returned by Registry lookups for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// SourceError wraps a failure of a single source. It matches ErrSourceUnavailable
// and the underlying cause with errors.Is.
type SourceError struct {
	Kind domain.SourceKind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s source unavailable: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnavailable, e.Err}
}
