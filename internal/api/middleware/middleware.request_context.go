package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"github.com/AbdUllahO7/idigitek-server/internal/logger"
)

// RequestContext copies the request id set by the requestid middleware into
// the request context, so services and event subscribers log it. Must run
// after requestid.
func RequestContext() fiber.Handler {
	return func(c fiber.Ctx) error {
		if id := requestid.FromContext(c); id != "" {
			c.SetContext(logger.ContextWithRequestID(c.Context(), id))
		}
		return c.Next()
	}
}

// RequireJSON rejects write requests whose body is not declared as JSON.
func RequireJSON() fiber.Handler {
	return func(c fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		default:
			return c.Next()
		}
		if len(c.Body()) == 0 {
			return c.Next()
		}
		if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be application/json")
		}
		return c.Next()
	}
}
