package feed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/logger"
)

// Merger runs a full merge for a filter. *Aggregator implements it.
type Merger interface {
	Merge(ctx context.Context, f domain.FilterState) (*Result, error)
}

// StalenessChecker compares the sources against a watermark. *Tracker implements it.
type StalenessChecker interface {
	HasNewData(ctx context.Context, f domain.FilterState, wm domain.Watermark) (bool, error)
}

// Session is the polling state of one console: its filter, the watermark of the last
// merge and the last merged result. At most one merge runs per session at a time.
type Session struct {
	ID string

	merger  Merger
	checker StalenessChecker

	// mergeMu is held for the whole duration of a merge.
	mergeMu sync.Mutex

	mu         sync.RWMutex
	filter     domain.FilterState
	generation uint64
	watermark  domain.Watermark
	last       *Result
}

// NewSession returns a session with filter f. No merge runs until Apply or Refresh.
func NewSession(id string, f domain.FilterState, merger Merger, checker StalenessChecker) *Session {
	return &Session{ID: id, filter: f, merger: merger, checker: checker}
}

// Apply replaces the filter and runs a full merge with it. It waits for an in-flight merge
// to finish first. The watermark and last result are cleared until the merge succeeds.
func (s *Session) Apply(ctx context.Context, f domain.FilterState) (*Result, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.filter = f
	s.generation++
	gen := s.generation
	s.watermark = domain.Watermark{}
	s.last = nil
	s.mu.Unlock()

	s.mergeMu.Lock()
	defer s.mergeMu.Unlock()
	return s.merge(s.logContext(ctx), f, gen)
}

// Refresh re-merges the current filter. It returns ErrMergeInFlight without waiting
// when another merge is running.
func (s *Session) Refresh(ctx context.Context) (*Result, error) {
	if !s.mergeMu.TryLock() {
		return nil, ErrMergeInFlight
	}
	defer s.mergeMu.Unlock()

	s.mu.RLock()
	f, gen := s.filter, s.generation
	s.mu.RUnlock()
	return s.merge(s.logContext(ctx), f, gen)
}

// HasNewData checks the sources against the session's watermark. A session without a
// successful merge always has new data.
func (s *Session) HasNewData(ctx context.Context) (bool, error) {
	s.mu.RLock()
	f, wm, merged := s.filter, s.watermark, s.last != nil
	s.mu.RUnlock()
	if !merged {
		return true, nil
	}
	return s.checker.HasNewData(s.logContext(ctx), f, wm)
}

// Poll is one scheduler tick. It returns changed=false when nothing is newer than the
// watermark or when the check itself failed; check failures are logged, never returned.
// A merge failure after a positive check is returned.
func (s *Session) Poll(ctx context.Context) (*Result, bool, error) {
	ctx = s.logContext(ctx)
	changed, err := s.HasNewData(ctx)
	if err != nil {
		slog.WarnContext(ctx, "staleness check failed, skipping tick", "error", err)
		return nil, false, nil
	}
	if !changed {
		return nil, false, nil
	}
	res, err := s.Refresh(ctx)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// Filter returns the current filter.
func (s *Session) Filter() domain.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Watermark returns the watermark of the last successful merge.
func (s *Session) Watermark() domain.Watermark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.watermark
}

// Last returns the last merged result, or nil.
func (s *Session) Last() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Session) merge(ctx context.Context, f domain.FilterState, gen uint64) (*Result, error) {
	res, err := s.merger.Merge(ctx, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		if err != nil {
			slog.DebugContext(ctx, "discarding failed merge for superseded filter", "error", err)
		}
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	s.watermark = res.Watermark
	s.last = res
	return res, nil
}

func (s *Session) logContext(ctx context.Context) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{SessionID: s.ID, Component: "activity.feed"})
}

// IsSkippable reports whether err only means a tick lost a race and can be ignored.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMergeInFlight) || errors.Is(err, ErrSuperseded)
}
