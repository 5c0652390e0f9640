package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

// AuditAction is one committed content change.
type AuditAction struct {
	Action       string
	ResourceType string
	ResourceID   string
	Affected     int
	Details      map[string]interface{}
}

// LogAudit writes action a to the audit log.
func LogAudit(ctx context.Context, a AuditAction) {
	fields := logrus.Fields{
		"action":        a.Action,
		"resource_type": a.ResourceType,
		"resource_id":   a.ResourceID,
		"collection":    a.ResourceType,
	}
	if a.Affected > 0 {
		fields["affected"] = a.Affected
	}
	if len(a.Details) > 0 {
		fields["details"] = a.Details
	}
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		fields["request_id"] = requestID
	}
	GetAuditLogger().WithFields(fields).Info("Audit log")
}
