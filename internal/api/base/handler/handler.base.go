// Package basehdl holds the request parsing and response helpers shared by
// every fiber handler.
package basehdl

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
	"github.com/AbdUllahO7/idigitek-server/internal/global"
	"github.com/AbdUllahO7/idigitek-server/internal/utility"
)

// BaseHandler is embedded by domain handlers.
type BaseHandler struct{}

// NewBaseHandler returns a BaseHandler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// FieldError is one failed validation rule, reported in error details.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// DecodeBody decodes the JSON body into input without validating it.
func (h *BaseHandler) DecodeBody(c fiber.Ctx, input interface{}) error {
	body := c.Body()
	if len(bytes.TrimSpace(body)) == 0 {
		return common.NewError(common.ErrCodeValidationFormat, "request body is empty", common.StatusBadRequest, nil)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(input); err != nil {
		return common.NewError(common.ErrCodeValidationFormat, "request body is not valid JSON: "+err.Error(), common.StatusBadRequest, nil)
	}
	return nil
}

// ParseRequestBody decodes the JSON body into input and validates it.
func (h *BaseHandler) ParseRequestBody(c fiber.Ctx, input interface{}) error {
	if err := h.DecodeBody(c, input); err != nil {
		return err
	}
	return h.ValidateInput(input)
}

// ValidateInput runs the `validate` tags of input.
func (h *BaseHandler) ValidateInput(input interface{}) error {
	err := global.GetValidator().Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return common.NewError(common.ErrCodeValidationInput, err.Error(), common.StatusBadRequest, nil)
	}
	details := make([]FieldError, 0, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, FieldError{Field: fe.Namespace(), Rule: fe.Tag(), Param: fe.Param()})
		names = append(names, fe.Field())
	}
	return common.NewError(common.ErrCodeValidationInput,
		common.MsgValidationError+": "+strings.Join(names, ", "), common.StatusBadRequest, details)
}

// ParseID reads the URI param name as an ObjectID.
func (h *BaseHandler) ParseID(c fiber.Ctx, name string) (primitive.ObjectID, error) {
	raw := c.Params(name)
	id, ok := utility.ParseObjectID(raw)
	if !ok {
		return primitive.NilObjectID, common.NewValidationError("%s %q is not a valid ObjectID", name, raw)
	}
	return id, nil
}

// QueryID reads an optional ObjectID from the query string. A missing key
// yields the zero id.
func (h *BaseHandler) QueryID(c fiber.Ctx, key string) (primitive.ObjectID, error) {
	raw := c.Query(key)
	if raw == "" {
		return primitive.NilObjectID, nil
	}
	id, ok := utility.ParseObjectID(raw)
	if !ok {
		return primitive.NilObjectID, common.NewValidationError("%s %q is not a valid ObjectID", key, raw)
	}
	return id, nil
}

// QueryBool reads a boolean query flag, falling back to def when missing.
func (h *BaseHandler) QueryBool(c fiber.Ctx, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, common.NewValidationError("%s must be true or false", key)
	}
	return v, nil
}

// ParsePagination reads page and limit, defaulting to 1 and 10.
func (h *BaseHandler) ParsePagination(c fiber.Ctx) (int64, int64) {
	page, err := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.ParseInt(c.Query("limit", "10"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 10
	}
	return page, limit
}
