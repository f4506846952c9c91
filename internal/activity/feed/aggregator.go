// Package feed merges the activity sources into one filtered, newest-first feed and
// tracks per-source watermarks so pollers can skip refreshes when nothing changed.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"hotelmgt/internal/activity/domain"
)

const tracerName = "hotelmgt/internal/activity/feed"

// Source is one event source. Both methods are scoped to a day and optional employee;
// neither knows about type groups.
type Source interface {
	Kind() domain.SourceKind
	FetchEvents(ctx context.Context, q domain.Query) (*domain.Batch, error)
	FetchMaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error)
}

// Result is one merged feed.
type Result struct {
	Filter    domain.FilterState
	Events    []domain.Event
	Count     int
	Empty     bool
	Date      time.Time
	Summary   string
	Watermark domain.Watermark
	Skipped   int
	MergedAt  time.Time
}

// Summary returns the caption shown above the feed, e.g. "Showing 2 activities for 2024-03-01".
func Summary(count int, date time.Time) string {
	return fmt.Sprintf("Showing %d activities for %s", count, date.Format(domain.DateLayout))
}

// Aggregator runs full merges across its sources.
type Aggregator struct {
	sources []Source
	timeout time.Duration
	metrics *Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

// NewAggregator returns an Aggregator over sources. timeout bounds each source fetch;
// zero means no bound beyond ctx. metrics may be nil.
func NewAggregator(timeout time.Duration, metrics *Metrics, sources ...Source) *Aggregator {
	return &Aggregator{
		sources: sources,
		timeout: timeout,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		now:     time.Now,
	}
}

// Merge fetches every source for the filter's day and employee, keeps the events matching
// the type group and returns them newest first. Any source failure fails the whole merge.
func (a *Aggregator) Merge(ctx context.Context, f domain.FilterState) (*Result, error) {
	if err := f.Validate(); err != nil {
		a.metrics.observeMerge(outcomeInvalid, 0)
		return nil, err
	}

	ctx, span := a.tracer.Start(ctx, "feed.Merge", trace.WithAttributes(filterAttrs(f)...))
	defer span.End()
	start := a.now()

	q := f.Scope()
	batches, err := a.fetchAll(ctx, q)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		a.metrics.observeMerge(outcomeError, a.now().Sub(start))
		slog.WarnContext(ctx, "feed merge failed", "date", q.Day.Format(domain.DateLayout), "error", err)
		return nil, err
	}

	res := buildResult(f, q, batches)
	res.MergedAt = a.now()
	for _, b := range batches {
		a.metrics.addSkipped(b.Kind, b.Skipped)
	}
	a.metrics.observeMerge(outcomeSuccess, res.MergedAt.Sub(start))
	span.SetAttributes(attribute.Int("feed.count", res.Count), attribute.Int("feed.skipped", res.Skipped))
	slog.DebugContext(ctx, "feed merged", "date", q.Day.Format(domain.DateLayout), "count", res.Count, "skipped", res.Skipped)
	return res, nil
}

func (a *Aggregator) fetchAll(ctx context.Context, q domain.Query) ([]*domain.Batch, error) {
	batches := make([]*domain.Batch, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		g.Go(func() error {
			fctx, cancel := withTimeout(gctx, a.timeout)
			defer cancel()
			b, err := src.FetchEvents(fctx, q)
			if err != nil {
				return &SourceError{Kind: src.Kind(), Err: err}
			}
			if b == nil {
				b = &domain.Batch{}
			}
			b.Kind = src.Kind()
			batches[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func buildResult(f domain.FilterState, q domain.Query, batches []*domain.Batch) *Result {
	res := &Result{Filter: f, Date: q.Day}
	var events []domain.Event
	for _, b := range batches {
		res.Watermark = res.Watermark.With(b.Kind, b.Max)
		res.Skipped += b.Skipped
		for _, ev := range b.Events {
			if !q.Contains(ev.Timestamp) {
				continue
			}
			if f.TypeGroup != nil && !domain.MatchesTypeGroup(ev.NormType, *f.TypeGroup) {
				continue
			}
			events = append(events, ev)
		}
	}
	slices.SortStableFunc(events, func(x, y domain.Event) int {
		return y.Timestamp.Compare(x.Timestamp)
	})
	if events == nil {
		events = []domain.Event{}
	}
	res.Events = events
	res.Count = len(events)
	res.Empty = res.Count == 0
	res.Summary = Summary(res.Count, q.Day)
	return res
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func filterAttrs(f domain.FilterState) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String("feed.date", f.Date.Format(domain.DateLayout))}
	if f.EmployeeID != nil {
		attrs = append(attrs, attribute.Int64("feed.employee_id", *f.EmployeeID))
	}
	if f.TypeGroup != nil {
		attrs = append(attrs, attribute.String("feed.type_group", *f.TypeGroup))
	}
	return attrs
}
