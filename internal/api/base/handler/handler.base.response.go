package basehdl

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
)

// JSONResponse writes data as JSON with an explicit utf-8 charset.
func JSONResponse(c fiber.Ctx, statusCode int, data interface{}) error {
	c.Set("Content-Type", "application/json; charset=utf-8")
	return c.Status(statusCode).JSON(data)
}

// SafeHandler runs handler and turns a panic into a 500 response.
func (h *BaseHandler) SafeHandler(c fiber.Ctx, handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithRequest(c).WithFields(map[string]interface{}{
				"panic": r,
				"stack": string(debug.Stack()),
			}).Error("Handler panicked")
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeInternalServer,
				fmt.Sprintf("unexpected error: %v", r),
				common.StatusInternalServerError,
				nil,
			))
			err = nil
		}
	}()
	return handler()
}

// HandleResponse writes data with 200, or err with the status it carries.
func (h *BaseHandler) HandleResponse(c fiber.Ctx, data interface{}, err error) {
	h.HandleResponseStatus(c, common.StatusOK, data, err)
}

// HandleCreated is HandleResponse answering 201 on success.
func (h *BaseHandler) HandleCreated(c fiber.Ctx, data interface{}, err error) {
	h.HandleResponseStatus(c, common.StatusCreated, data, err)
}

// HandleResponseStatus writes the uniform envelope. Typed errors keep their
// code and status; anything else is a 500 without driver details.
func (h *BaseHandler) HandleResponseStatus(c fiber.Ctx, status int, data interface{}, err error) {
	if err != nil {
		var customErr *common.Error
		if errors.As(err, &customErr) {
			body := fiber.Map{
				"code":    customErr.Code.Code,
				"message": customErr.Message,
				"status":  "error",
			}
			if _, isCause := customErr.Details.(error); !isCause && customErr.Details != nil {
				body["details"] = customErr.Details
			}
			if customErr.StatusCode >= common.StatusInternalServerError {
				logger.WithRequest(c).WithError(err).Error("Request failed")
			}
			_ = JSONResponse(c, customErr.StatusCode, body)
			return
		}
		logger.WithRequest(c).WithError(err).Error("Request failed with untyped error")
		_ = JSONResponse(c, common.StatusInternalServerError, fiber.Map{
			"code":    common.ErrCodeInternalServer.Code,
			"message": common.MsgInternalError,
			"status":  "error",
		})
		return
	}

	_ = JSONResponse(c, status, fiber.Map{
		"code":    status,
		"message": common.MsgSuccess,
		"data":    data,
		"status":  "success",
	})
}
