package domain

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Employee is a hotel staff member.
type Employee struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PhoneNumber  string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
	HireDate     time.Time
}

// FullName is "First Last", the name shown in the activity feed.
func (e *Employee) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(e.FirstName) + " " + strings.TrimSpace(e.LastName))
}

// Validate validates the employee for persistence. Returns an error describing the first validation failure.
func (e *Employee) Validate() error {
	switch {
	case strings.TrimSpace(e.FirstName) == "" || strings.TrimSpace(e.LastName) == "":
		return errors.New("first and last name are required")
	case e.Email == "":
		return errors.New("email is required")
	case e.Username == "":
		return errors.New("username is required")
	case e.PasswordHash == "":
		return errors.New("password hash is required")
	case e.Role == "":
		return errors.New("role is required")
	}
	return nil
}

// SetPassword stores a bcrypt hash of password. cost is clamped to bcrypt's bounds;
// zero means bcrypt.DefaultCost.
func (e *Employee) SetPassword(password string, cost int) error {
	if password == "" {
		return errors.New("password is required")
	}
	switch {
	case cost <= 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}
	e.PasswordHash = string(b)
	return nil
}

// CheckPassword returns nil if password matches the stored hash.
func (e *Employee) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password))
}
