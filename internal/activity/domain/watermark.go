package domain

import "time"

// Watermark holds the latest timestamp seen per source as of the last full merge.
// It is scoped to the date and employee of the filter that produced it.
type Watermark struct {
	LastActivityMax *time.Time
	LastPaymentMax  *time.Time
}

// Get returns the stored mark for kind, or nil.
func (w Watermark) Get(kind SourceKind) *time.Time {
	switch kind {
	case SourceActivityLog:
		return w.LastActivityMax
	case SourcePayment:
		return w.LastPaymentMax
	}
	return nil
}

// With returns a copy of w with the mark for kind replaced.
func (w Watermark) With(kind SourceKind, max *time.Time) Watermark {
	var v *time.Time
	if max != nil {
		t := *max
		v = &t
	}
	switch kind {
	case SourceActivityLog:
		w.LastActivityMax = v
	case SourcePayment:
		w.LastPaymentMax = v
	}
	return w
}

// IsNewer reports whether latest is present and either no mark is stored for kind
// or latest is strictly after it.
func (w Watermark) IsNewer(kind SourceKind, latest *time.Time) bool {
	if latest == nil {
		return false
	}
	stored := w.Get(kind)
	return stored == nil || latest.After(*stored)
}
