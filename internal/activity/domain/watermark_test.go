package domain

import (
	"testing"
	"time"
)

func TestWatermark_IsNewer(t *testing.T) {
	nine := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	ten := nine.Add(time.Hour)

	var empty Watermark
	if empty.IsNewer(SourceActivityLog, nil) {
		t.Error("absent max is never newer")
	}
	if !empty.IsNewer(SourceActivityLog, &nine) {
		t.Error("present max with no stored mark is newer")
	}

	w := empty.With(SourceActivityLog, &nine)
	if w.IsNewer(SourceActivityLog, &nine) {
		t.Error("an already-seen max must not re-trigger")
	}
	if !w.IsNewer(SourceActivityLog, &ten) {
		t.Error("a later max is newer")
	}
	earlier := nine.Add(-time.Minute)
	if w.IsNewer(SourceActivityLog, &earlier) {
		t.Error("an earlier max is not newer")
	}
	if !w.IsNewer(SourcePayment, &nine) {
		t.Error("marks are per source")
	}
}

func TestWatermark_WithCopies(t *testing.T) {
	ts := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	w := Watermark{}.With(SourcePayment, &ts)
	ts = ts.Add(time.Hour)
	if got := w.Get(SourcePayment); got == nil || got.Hour() != 9 {
		t.Errorf("With must copy the timestamp, got %v", got)
	}
	if w.Get(SourceActivityLog) != nil {
		t.Error("activity mark should remain unset")
	}
	if w.Get(SourceKind("other")) != nil {
		t.Error("unknown kinds have no mark")
	}
}
