package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// ErrMalformedRow marks a native row that cannot be turned into an Event.
var ErrMalformedRow = errors.New("malformed row")

// PaymentNormType is the canonical tag of every payment-origin event.
const PaymentNormType = "payment"

// PaymentDisplayType is the label of every payment-origin event.
const PaymentDisplayType = "Payment"

// TypeGroup is one selectable option of the type filter.
type TypeGroup struct {
	// Key is nil for the "All Types" sentinel.
	Key   *string `json:"key"`
	Label string  `json:"label"`
}

// TypeGroups returns the type filter options in display order.
func TypeGroups() []TypeGroup {
	key := func(s string) *string { return &s }
	return []TypeGroup{
		{Key: nil, Label: "All Types"},
		{Key: key("login"), Label: "Login"},
		{Key: key("checkin"), Label: "Check-In"},
		{Key: key("checkout"), Label: "Check-Out"},
		{Key: key("reservation"), Label: "Reservation"},
		{Key: key(PaymentNormType), Label: PaymentDisplayType},
	}
}

// NormalizeType lowercases label and drops every rune that is not a letter or digit,
// so "Check-In", "check in" and "CHECKIN" all become "checkin".
func NormalizeType(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchesTypeGroup reports whether an event with normType belongs to group.
// Matching is by prefix: "reservation" also matches "reservationcancelled".
func MatchesTypeGroup(normType, group string) bool {
	return strings.HasPrefix(normType, group)
}

// ActivityRow is one activity_log row joined to its employee.
type ActivityRow struct {
	ActivityID  int64
	At          *time.Time
	FirstName   *string
	LastName    *string
	Type        *string
	Description *string
}

// PaymentRow is one payments row joined to its employee.
type PaymentRow struct {
	PaymentID     int64
	At            *time.Time
	FirstName     *string
	LastName      *string
	Status        *string
	Amount        decimal.NullDecimal
	Method        *string
	Reference     *string
	ReservationID int64
	Notes         *string
}

// NormalizeActivity converts an activity_log row. Timestamp, actor and type are required.
func NormalizeActivity(row ActivityRow) (Event, error) {
	if row.At == nil {
		return Event{}, fmt.Errorf("activity %d: missing timestamp: %w", row.ActivityID, ErrMalformedRow)
	}
	actor := actorName(row.FirstName, row.LastName)
	if actor == "" {
		return Event{}, fmt.Errorf("activity %d: missing employee name: %w", row.ActivityID, ErrMalformedRow)
	}
	display := trimmed(row.Type)
	norm := NormalizeType(display)
	if norm == "" {
		return Event{}, fmt.Errorf("activity %d: missing activity type: %w", row.ActivityID, ErrMalformedRow)
	}
	return Event{
		Timestamp:   *row.At,
		ActorName:   actor,
		DisplayType: display,
		NormType:    norm,
		Description: valueOrEmpty(row.Description),
		Source:      SourceActivityLog,
	}, nil
}

// NormalizePayment converts a payments row. Timestamp, actor, status, amount and method are required.
func NormalizePayment(row PaymentRow) (Event, error) {
	if row.At == nil {
		return Event{}, fmt.Errorf("payment %d: missing timestamp: %w", row.PaymentID, ErrMalformedRow)
	}
	actor := actorName(row.FirstName, row.LastName)
	if actor == "" {
		return Event{}, fmt.Errorf("payment %d: missing employee name: %w", row.PaymentID, ErrMalformedRow)
	}
	if trimmed(row.Status) == "" || trimmed(row.Method) == "" || !row.Amount.Valid {
		return Event{}, fmt.Errorf("payment %d: missing status, amount or method: %w", row.PaymentID, ErrMalformedRow)
	}
	return Event{
		Timestamp:   *row.At,
		ActorName:   actor,
		DisplayType: PaymentDisplayType,
		NormType:    PaymentNormType,
		Description: PaymentDescription(row),
		Source:      SourcePayment,
	}, nil
}

// PaymentDescription builds the feed text for a payment, e.g.
// "Payment Completed - 150.00 via Cash (Ref: TX-1) - Res#42 - Notes: deposit".
// The reference and notes suffixes are left out when null or blank.
func PaymentDescription(row PaymentRow) string {
	var b strings.Builder
	b.WriteString("Payment ")
	b.WriteString(trimmed(row.Status))
	b.WriteString(" - ")
	b.WriteString(row.Amount.Decimal.StringFixed(2))
	b.WriteString(" via ")
	b.WriteString(trimmed(row.Method))
	b.WriteString(ReferenceSuffix(row.Reference))
	b.WriteString(" - Res#")
	b.WriteString(strconv.FormatInt(row.ReservationID, 10))
	b.WriteString(NotesSuffix(row.Notes))
	return b.String()
}

// ReferenceSuffix returns " (Ref: ref)" or "" when ref is null or blank.
func ReferenceSuffix(ref *string) string {
	if v := trimmed(ref); v != "" {
		return " (Ref: " + v + ")"
	}
	return ""
}

// NotesSuffix returns " - Notes: notes" or "" when notes is null or blank.
func NotesSuffix(notes *string) string {
	if v := trimmed(notes); v != "" {
		return " - Notes: " + v
	}
	return ""
}

func actorName(first, last *string) string {
	return strings.TrimSpace(trimmed(first) + " " + trimmed(last))
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
