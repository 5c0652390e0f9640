// Package middleware holds the fiber middleware and the app-level error
// handler.
package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset. It mirrors
// basehdl.JSONResponse without importing the handler package.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// HandleErrorResponse writes err in the uniform error envelope.
func HandleErrorResponse(c fiber.Ctx, err error) error {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return JSONResponse(c, customErr.StatusCode, fiber.Map{
			"code":    customErr.Code.Code,
			"message": customErr.Message,
			"status":  "error",
		})
	}
	return JSONResponse(c, common.StatusInternalServerError, fiber.Map{
		"code":    common.ErrCodeInternalServer.Code,
		"message": common.MsgInternalError,
		"status":  "error",
	})
}

// ErrorHandler is the fiber.Config error handler. Routing errors such as 404
// and 405 keep their status; everything untyped is logged and reported as 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := common.ErrCodeInternalServer.Code
		switch {
		case fiberErr.Code == fiber.StatusNotFound:
			code = common.ErrCodeNotFound.Code
		case fiberErr.Code == fiber.StatusTooManyRequests:
			code = common.ErrCodeRateLimit.Code
		case fiberErr.Code < fiber.StatusInternalServerError:
			code = common.ErrCodeValidationInput.Code
		}
		return JSONResponse(c, fiberErr.Code, fiber.Map{
			"code":    code,
			"message": fiberErr.Message,
			"status":  "error",
		})
	}

	var customErr *common.Error
	if !errors.As(err, &customErr) || customErr.StatusCode >= common.StatusInternalServerError {
		logger.WithRequest(c).WithError(err).Error("Request error")
	}
	return HandleErrorResponse(c, err)
}
