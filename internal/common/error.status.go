// Package common holds the typed error taxonomy shared by every layer.
package common

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP status codes carried by typed errors. The core never speaks HTTP; the
// transport reads StatusCode to pick a response code.
const (
	StatusOK                  = 200
	StatusCreated             = 201
	StatusBadRequest          = 400
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
	StatusServiceUnavailable  = 503
)

// Response messages
const (
	MsgSuccess          = "Operation completed successfully"
	MsgValidationError  = "Invalid data"
	MsgNotFound         = "Resource not found"
	MsgConflict         = "Resource already exists"
	MsgTransactionError = "Transaction failed"
	MsgDatabaseError    = "Database error"
	MsgInternalError    = "Internal server error"
)

// ErrorCode is a hierarchical error code (category / sub-category).
type ErrorCode struct {
	Code        string // e.g. VAL_001
	Category    string
	SubCategory string
	Description string
}

var (
	// System errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Internal system error",
	}

	ErrCodeRateLimit = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "RateLimit",
		Description: "Too many requests",
	}

	// Validation errors (VAL_xxx)
	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Malformed or out-of-range input",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Data could not be decoded",
	}

	// Database errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Generic database error",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Database connection error",
	}

	ErrCodeNotFound = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "NotFound",
		Description: "Identifier does not resolve",
	}

	ErrCodeConflict = ErrorCode{
		Code:        "DB_003",
		Category:    "Database",
		SubCategory: "Conflict",
		Description: "Duplicate name, slug or relation",
	}

	ErrCodeTransaction = ErrorCode{
		Code:        "DB_004",
		Category:    "Database",
		SubCategory: "Transaction",
		Description: "Commit or rollback failure",
	}
)

// Error is the only error type that leaves the service layer.
type Error struct {
	Code       ErrorCode
	Message    string
	StatusCode int
	Details    any
}

// Error returns the human readable message.
func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error carrying the same code, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Code == t.Code.Code
}

// Unwrap exposes a wrapped cause stored in Details.
func (e *Error) Unwrap() error {
	if cause, ok := e.Details.(error); ok {
		return cause
	}
	return nil
}

// NewError builds a typed error.
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Sentinels, compared by code.
var (
	ErrValidation    = NewError(ErrCodeValidationInput, MsgValidationError, StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Invalid data format", StatusBadRequest, nil)
	ErrNotFound      = NewError(ErrCodeNotFound, MsgNotFound, StatusNotFound, nil)
	ErrConflict      = NewError(ErrCodeConflict, MsgConflict, StatusConflict, nil)
	ErrTransaction   = NewError(ErrCodeTransaction, MsgTransactionError, StatusInternalServerError, nil)
	ErrConnection    = NewError(ErrCodeDatabaseConnection, "Database connection error", StatusServiceUnavailable, nil)
)

// NewValidationError reports malformed input or a bad order value.
func NewValidationError(format string, args ...any) error {
	return NewError(ErrCodeValidationInput, fmt.Sprintf(format, args...), StatusBadRequest, nil)
}

// NewNotFoundError reports an identifier that does not resolve.
func NewNotFoundError(format string, args ...any) error {
	return NewError(ErrCodeNotFound, fmt.Sprintf(format, args...), StatusNotFound, nil)
}

// NewConflictError reports a duplicate name, slug or relation pair.
func NewConflictError(format string, args ...any) error {
	return NewError(ErrCodeConflict, fmt.Sprintf(format, args...), StatusConflict, nil)
}

// NewTransactionError wraps a store-level commit/abort failure.
func NewTransactionError(cause error) error {
	return NewError(ErrCodeTransaction, MsgTransactionError, StatusInternalServerError, cause)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsTransaction reports whether err is a TransactionError.
func IsTransaction(err error) bool { return errors.Is(err, ErrTransaction) }

// ConvertMongoError maps driver errors onto the taxonomy. Typed errors pass
// through untouched.
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return NewError(ErrCodeConflict, MsgConflict, StatusConflict, err)
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return NewError(ErrCodeDatabaseConnection, "Database connection error", StatusServiceUnavailable, err)
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && cmdErr.HasErrorLabel("TransientTransactionError") {
		return NewTransactionError(err)
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
