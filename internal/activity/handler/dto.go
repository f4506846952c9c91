package handler

import (
	"time"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/feed"
)

// FilterRequest is the body of session create and filter change requests.
// A null employee_id, and an empty or "all" type, mean no restriction.
type FilterRequest struct {
	Date       string  `json:"date"`
	EmployeeID *int64  `json:"employee_id"`
	Type       *string `json:"type"`
}

type EventResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Employee    string    `json:"employee"`
	Type        string    `json:"type"`
	TypeKey     string    `json:"type_key"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
}

type WatermarkResponse struct {
	LastActivityMax *time.Time `json:"last_activity_max"`
	LastPaymentMax  *time.Time `json:"last_payment_max"`
}

type FeedResponse struct {
	Date       string            `json:"date"`
	EmployeeID *int64            `json:"employee_id"`
	TypeGroup  *string           `json:"type_group"`
	Count      int               `json:"count"`
	Empty      bool              `json:"empty"`
	Summary    string            `json:"summary"`
	Skipped    int               `json:"skipped"`
	Events     []EventResponse   `json:"events"`
	Watermark  WatermarkResponse `json:"watermark"`
	MergedAt   time.Time         `json:"merged_at"`
}

type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Feed      *FeedResponse `json:"feed"`
	Error     string        `json:"error,omitempty"`
}

type ChangesResponse struct {
	Changed bool          `json:"changed"`
	Feed    *FeedResponse `json:"feed,omitempty"`
}

type EmployeeOption struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// ToFeedResponse converts a merge result. A nil result converts to nil.
func ToFeedResponse(res *feed.Result) *FeedResponse {
	if res == nil {
		return nil
	}
	events := make([]EventResponse, 0, len(res.Events))
	for _, ev := range res.Events {
		events = append(events, EventResponse{
			Timestamp:   ev.Timestamp,
			Employee:    ev.ActorName,
			Type:        ev.DisplayType,
			TypeKey:     ev.NormType,
			Description: ev.Description,
			Source:      string(ev.Source),
		})
	}
	return &FeedResponse{
		Date:       res.Date.Format(domain.DateLayout),
		EmployeeID: res.Filter.EmployeeID,
		TypeGroup:  res.Filter.TypeGroup,
		Count:      res.Count,
		Empty:      res.Empty,
		Summary:    res.Summary,
		Skipped:    res.Skipped,
		Events:     events,
		Watermark: WatermarkResponse{
			LastActivityMax: res.Watermark.LastActivityMax,
			LastPaymentMax:  res.Watermark.LastPaymentMax,
		},
		MergedAt: res.MergedAt,
	}
}
