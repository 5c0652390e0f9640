package logger

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// ContextKey is the type of logging keys stored in a context.
type ContextKey string

const (
	RequestIDKey ContextKey = "requestID"
	ServiceKey   ContextKey = "service"
)

// ContextWithRequestID stores id for WithContext.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithContext returns an app logger entry carrying the request id and service
// name found in ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := GetAppLogger().WithContext(ctx)
	if requestID := ctx.Value(RequestIDKey); requestID != nil {
		entry = entry.WithField("request_id", requestID)
	}
	if service := ctx.Value(ServiceKey); service != nil {
		entry = entry.WithField("service", service)
	}
	return entry
}

// WithRequest returns an app logger entry describing the current request.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	return WithContext(c.Context()).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})
}
