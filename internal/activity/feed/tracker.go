package feed

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"hotelmgt/internal/activity/domain"
)

// Tracker answers "is there anything newer than the watermark" with one MAX query per source.
type Tracker struct {
	sources []Source
	timeout time.Duration
	metrics *Metrics
	tracer  trace.Tracer
}

func NewTracker(timeout time.Duration, metrics *Metrics, sources ...Source) *Tracker {
	return &Tracker{sources: sources, timeout: timeout, metrics: metrics, tracer: otel.Tracer(tracerName)}
}

// HasNewData reports whether any source has a latest timestamp for the filter's day and
// employee that is strictly after the stored mark, or present where no mark is stored.
// The type group is ignored. wm is never modified.
func (t *Tracker) HasNewData(ctx context.Context, f domain.FilterState, wm domain.Watermark) (bool, error) {
	if err := f.Validate(); err != nil {
		return false, err
	}
	ctx, span := t.tracer.Start(ctx, "feed.HasNewData", trace.WithAttributes(filterAttrs(f)...))
	defer span.End()

	q := f.Scope()
	latest := make([]*time.Time, len(t.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range t.sources {
		g.Go(func() error {
			fctx, cancel := withTimeout(gctx, t.timeout)
			defer cancel()
			max, err := src.FetchMaxTimestamp(fctx, q)
			if err != nil {
				return &SourceError{Kind: src.Kind(), Err: err}
			}
			latest[i] = max
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.metrics.observeCheck(resultError)
		return false, err
	}

	changed := false
	for i, src := range t.sources {
		if wm.IsNewer(src.Kind(), latest[i]) {
			changed = true
			slog.DebugContext(ctx, "source has new rows", "source", string(src.Kind()), "latest", latest[i])
		}
	}
	span.SetAttributes(attribute.Bool("feed.changed", changed))
	if changed {
		t.metrics.observeCheck(resultChanged)
	} else {
		t.metrics.observeCheck(resultUnchanged)
	}
	return changed, nil
}
