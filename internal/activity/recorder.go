// Package activity records console-originated entries in the employee activity log.
package activity

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"hotelmgt/internal/activity/domain"
	"hotelmgt/internal/activity/repository"
)

// Activity types written by the console itself.
const (
	TypeGuestRegistration = "Guest Registration"
)

// ActivityRecorder appends one activity entry for an employee.
// Record is best-effort: failures are logged and do not affect the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, employeeID int64, activityType, description string)
}

// Recorder implements ActivityRecorder on the activity log repository.
type Recorder struct {
	repo repository.ActivityLogRepository
	now  func() time.Time
}

// NewRecorder returns a Recorder that persists to repo. A nil repo records nothing.
func NewRecorder(repo repository.ActivityLogRepository) *Recorder {
	return &Recorder{repo: repo, now: time.Now}
}

// Record writes one entry stamped with the current UTC wall clock.
func (r *Recorder) Record(ctx context.Context, employeeID int64, activityType, description string) {
	if r == nil || r.repo == nil {
		return
	}
	activityType = strings.TrimSpace(activityType)
	if activityType == "" || employeeID <= 0 {
		slog.WarnContext(ctx, "activity: refusing to record entry without type or employee", "employee_id", employeeID)
		return
	}
	entry := &domain.ActivityEntry{
		EmployeeID:  employeeID,
		Type:        activityType,
		Description: strings.TrimSpace(description),
		At:          r.now().UTC(),
	}
	if err := r.repo.Create(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "activity: failed to record entry", "type", activityType, "employee_id", employeeID, "error", err)
	}
}
