package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelmgt/internal/activity/domain"
)

// mockActivityRepo implements the activity log repository for tests.
type mockActivityRepo struct {
	entries   []*domain.ActivityEntry
	createErr error
}

func (m *mockActivityRepo) ListByDay(ctx context.Context, q domain.Query) ([]domain.ActivityRow, error) {
	return nil, nil
}

func (m *mockActivityRepo) MaxTimestamp(ctx context.Context, q domain.Query) (*time.Time, error) {
	return nil, nil
}

func (m *mockActivityRepo) Create(ctx context.Context, entry *domain.ActivityEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func TestRecorder_Record_Success(t *testing.T) {
	repo := &mockActivityRepo{}
	rec := NewRecorder(repo)
	fixed := time.Date(2024, 3, 1, 11, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))
	rec.now = func() time.Time { return fixed }

	rec.Record(context.Background(), 7, " Guest Registration ", " Registered guest 12 ")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.EmployeeID != 7 {
		t.Errorf("employee_id = %d, want 7", entry.EmployeeID)
	}
	if entry.Type != TypeGuestRegistration {
		t.Errorf("type = %q, want %q", entry.Type, TypeGuestRegistration)
	}
	if entry.Description != "Registered guest 12" {
		t.Errorf("description = %q", entry.Description)
	}
	if !entry.At.Equal(fixed) || entry.At.Location() != time.UTC {
		t.Errorf("at = %v, want %v in UTC", entry.At, fixed)
	}
}

func TestRecorder_Record_RepoError(t *testing.T) {
	repo := &mockActivityRepo{createErr: errors.New("insert failed")}
	rec := NewRecorder(repo)

	// Must not panic or surface the error.
	rec.Record(context.Background(), 7, TypeGuestRegistration, "")

	if len(repo.entries) != 0 {
		t.Errorf("expected no entries, got %d", len(repo.entries))
	}
}

func TestRecorder_Record_Rejected(t *testing.T) {
	testCases := []struct {
		name       string
		employeeID int64
		typ        string
	}{
		{"blank type", 7, "  "},
		{"no employee", 0, TypeGuestRegistration},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockActivityRepo{}
			NewRecorder(repo).Record(context.Background(), tc.employeeID, tc.typ, "x")
			if len(repo.entries) != 0 {
				t.Errorf("expected no entries, got %d", len(repo.entries))
			}
		})
	}
}

func TestRecorder_NilSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), 7, TypeGuestRegistration, "")
	NewRecorder(nil).Record(context.Background(), 7, TypeGuestRegistration, "")
}
