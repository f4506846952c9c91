package logger

import "context"

type contextKey struct{ name string }

var logFieldsKey = contextKey{"log_fields"}

// LogFields are added to every record logged with a context that carries them.
type LogFields struct {
	SessionID  string // console polling session
	EmployeeID *int64 // employee filter or acting employee
	Component  string // e.g. "activity.poller"
}

// WithLogFields enriches ctx with fields. Non-empty values in fields override existing ones.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	merged := GetLogFields(ctx)
	if fields.SessionID != "" {
		merged.SessionID = fields.SessionID
	}
	if fields.EmployeeID != nil {
		merged.EmployeeID = fields.EmployeeID
	}
	if fields.Component != "" {
		merged.Component = fields.Component
	}
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields returns the fields stored in ctx, or the zero value.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}
