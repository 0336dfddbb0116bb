package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers and workers enrich the context once; every slog call below picks the fields up.
type LogFields struct {
	OrganizationID *int64  // Tenant the request or task acts on
	SchoolID       *int64  // School within the tenant
	UserID         *int64  // Authenticated user
	RequestID      *string // X-Request-ID of the inbound HTTP request
	MessageID      *string // Redis stream message ID
	TaskType       *string // Background task type (e.g., "welcome")
	Component      string  // Component name (e.g., "dojo.service.registration")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.OrganizationID != nil {
		result.OrganizationID = next.OrganizationID
	}
	if next.SchoolID != nil {
		result.SchoolID = next.SchoolID
	}
	if next.UserID != nil {
		result.UserID = next.UserID
	}
	if next.RequestID != nil {
		result.RequestID = next.RequestID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.TaskType != nil {
		result.TaskType = next.TaskType
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{OrganizationID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// MaskEmail keeps the first character and the domain ("a***@example.com").
func MaskEmail(email string) string {
	at := -1
	for i := len(email) - 1; i >= 0; i-- {
		if email[i] == '@' {
			at = i
			break
		}
	}
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
