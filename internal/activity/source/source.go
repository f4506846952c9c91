// Package source adapts the activity_log and payments tables into feed event sources.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/repository"
)

// ActivityLog is the event source over employee activity log entries.
type ActivityLog struct {
	repo   repository.ActivityLogRepository
	logger *slog.Logger
}

// NewActivityLog returns an ActivityLog source. logger may be nil; then slog.Default() is used.
func NewActivityLog(repo repository.ActivityLogRepository, logger *slog.Logger) *ActivityLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityLog{repo: repo, logger: logger}
}

func (s *ActivityLog) Kind() domain.SourceKind { return domain.SourceActivityLog }

// FetchEvents returns the normalized events for q. Malformed rows are skipped and counted.
func (s *ActivityLog) FetchEvents(ctx context.Context, q domain.Query) (*domain.Batch, error) {
	rows, err := s.repo.ListByDay(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing activity log: %w", err)
	}
	b := &domain.Batch{Kind: domain.SourceActivityLog, Events: make([]domain.Event, 0, len(rows))}
	for _, row := range rows {
		b.Max = later(b.Max, row.At)
		ev, err := domain.NormalizeActivity(row)
		if err != nil {
			skip(ctx, s.logger, b, err)
			continue
		}
		b.Events = append(b.Events, ev)
	}
	return b, nil
}

func (s *ActivityLog) FetchMaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error) {
	max, err := s.repo.MaxTimestamp(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("activity log max timestamp: %w", err)
	}
	return max, nil
}

// Payments is the event source over payment records.
type Payments struct {
	repo   repository.PaymentRepository
	logger *slog.Logger
}

func NewPayments(repo repository.PaymentRepository, logger *slog.Logger) *Payments {
	if logger == nil {
		logger = slog.Default()
	}
	return &Payments{repo: repo, logger: logger}
}

func (s *Payments) Kind() domain.SourceKind { return domain.SourcePayment }

// FetchEvents returns one "Payment" event per payment row for q.
func (s *Payments) FetchEvents(ctx context.Context, q domain.Query) (*domain.Batch, error) {
	rows, err := s.repo.ListByDay(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	b := &domain.Batch{Kind: domain.SourcePayment, Events: make([]domain.Event, 0, len(rows))}
	for _, row := range rows {
		b.Max = later(b.Max, row.At)
		ev, err := domain.NormalizePayment(row)
		if err != nil {
			skip(ctx, s.logger, b, err)
			continue
		}
		b.Events = append(b.Events, ev)
	}
	return b, nil
}

func (s *Payments) FetchMaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error) {
	max, err := s.repo.MaxTimestamp(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("payments max timestamp: %w", err)
	}
	return max, nil
}

func skip(ctx context.Context, logger *slog.Logger, b *domain.Batch, err error) {
	b.Skipped++
	if errors.Is(err, domain.ErrMalformedRow) {
		logger.WarnContext(ctx, "skipping malformed row", "source", string(b.Kind), "error", err)
		return
	}
	logger.ErrorContext(ctx, "skipping row", "source", string(b.Kind), "error", err)
}

func later(cur, ts *time.Time) *time.Time {
	if ts == nil {
		return cur
	}
	if cur == nil || ts.After(*cur) {
		t := *ts
		return &t
	}
	return cur
}
