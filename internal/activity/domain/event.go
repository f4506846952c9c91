// Package domain holds the activity feed's value types: normalized events, filter state,
// watermarks and the per-source normalization rules.
package domain

import "time"

// SourceKind identifies one of the two fixed event sources.
type SourceKind string

const (
	SourceActivityLog SourceKind = "activity_log"
	SourcePayment     SourceKind = "payment"
)

// Event is a source-agnostic feed entry.
type Event struct {
	Timestamp   time.Time
	ActorName   string
	DisplayType string
	// NormType is the canonical lowercase tag used for type-group filtering.
	NormType    string
	Description string
	Source      SourceKind
}

// Batch is what a source returns for one scoped fetch.
type Batch struct {
	Kind   SourceKind
	Events []Event
	// Max is the latest timestamp among all fetched rows, including rows skipped as malformed.
	// Nil when the source had no rows.
	Max *time.Time
	// Skipped counts rows that could not be normalized.
	Skipped int
}

// ActivityEntry is a new activity_log row written by the console itself.
type ActivityEntry struct {
	ID          int64
	EmployeeID  int64
	Type        string
	Description string
	At          time.Time
}
