// Package poller drives a feed session on a fixed interval and hands refreshed feeds to a presenter.
package poller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/feed"
	"hotelmgt/internal/logger"
)

// Presenter receives every feed the poller produces and every merge failure.
type Presenter interface {
	Present(ctx context.Context, res *feed.Result)
	PresentError(ctx context.Context, err error)
}

// Poller ticks a single session.
type Poller struct {
	session   *feed.Session
	presenter Presenter
	interval  time.Duration
	clock     clockwork.Clock
}

// New returns a Poller. clock may be nil; then the real clock is used.
func New(session *feed.Session, presenter Presenter, interval time.Duration, clock clockwork.Clock) *Poller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Poller{session: session, presenter: presenter, interval: interval, clock: clock}
}

// Run applies the initial filter, presents the result, then polls until ctx is done.
// It returns an error only when the initial filter is invalid.
func (p *Poller) Run(ctx context.Context, initial domain.FilterState) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{SessionID: p.session.ID, Component: "activity.poller"})

	res, err := p.session.Apply(ctx, initial)
	switch {
	case errors.Is(err, domain.ErrFilterDateRequired):
		return err
	case err != nil:
		p.presenter.PresentError(ctx, err)
	default:
		p.presenter.Present(ctx, res)
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()
	slog.DebugContext(ctx, "poller started", "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			slog.DebugContext(ctx, "poller stopped")
			return nil
		case <-ticker.Chan():
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	res, changed, err := p.session.Poll(ctx)
	switch {
	case err != nil && feed.IsSkippable(err):
		slog.DebugContext(ctx, "tick skipped", "reason", err)
	case err != nil:
		p.presenter.PresentError(ctx, err)
	case changed:
		p.presenter.Present(ctx, res)
	}
}
