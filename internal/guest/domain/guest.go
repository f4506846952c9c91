package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidIdentity is returned when an identity cannot be matched or stored.
var ErrInvalidIdentity = errors.New("invalid guest identity")

// Guest is a stored guest record.
type Guest struct {
	ID          int64
	FirstName   string
	MiddleName  string // empty when stored as NULL
	LastName    string
	Email       string // empty when stored as NULL
	PhoneNumber string
	IDType      string
	IDNumber    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Identity is what the front desk enters for a guest. A guest matches an identity when
// the three names match case-insensitively and the phone number or ID number matches.
type Identity struct {
	FirstName   string
	MiddleName  string
	LastName    string
	Email       string
	PhoneNumber string
	IDType      string
	IDNumber    string
	// RecordedBy is the employee registering the guest; optional.
	RecordedBy *int64
}

// Normalize returns a copy with every field trimmed.
func (i Identity) Normalize() Identity {
	i.FirstName = strings.TrimSpace(i.FirstName)
	i.MiddleName = strings.TrimSpace(i.MiddleName)
	i.LastName = strings.TrimSpace(i.LastName)
	i.Email = strings.TrimSpace(i.Email)
	i.PhoneNumber = strings.TrimSpace(i.PhoneNumber)
	i.IDType = strings.TrimSpace(i.IDType)
	i.IDNumber = strings.TrimSpace(i.IDNumber)
	return i
}

// Validate requires first and last name and at least one of phone number or ID number.
// Call on a normalized identity.
func (i Identity) Validate() error {
	if i.FirstName == "" || i.LastName == "" {
		return errors.Join(ErrInvalidIdentity, errors.New("first and last name are required"))
	}
	if i.PhoneNumber == "" && i.IDNumber == "" {
		return errors.Join(ErrInvalidIdentity, errors.New("phone number or ID number is required"))
	}
	return nil
}

// Matches reports whether g is the guest described by i. Blank phone or ID numbers never match.
func (i Identity) Matches(g *Guest) bool {
	if !strings.EqualFold(g.FirstName, i.FirstName) ||
		!strings.EqualFold(g.MiddleName, i.MiddleName) ||
		!strings.EqualFold(g.LastName, i.LastName) {
		return false
	}
	phone := i.PhoneNumber != "" && g.PhoneNumber == i.PhoneNumber
	idNumber := i.IDNumber != "" && g.IDNumber == i.IDNumber
	return phone || idNumber
}

// Resolution is the outcome of a find-or-create.
type Resolution struct {
	GuestID int64
	Created bool
}
