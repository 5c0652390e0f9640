package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorKinds(t *testing.T) {
	nf := NewNotFoundError("section %s not found", "abc")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsConflict(nf))
	assert.Equal(t, "section abc not found", nf.Error())

	wrapped := fmt.Errorf("outer: %w", NewConflictError("duplicate slug"))
	assert.True(t, IsConflict(wrapped))

	assert.True(t, IsValidation(NewValidationError("bad order")))

	cause := errors.New("commit failed")
	tx := NewTransactionError(cause)
	assert.True(t, IsTransaction(tx))
	assert.ErrorIs(t, tx, cause)

	var typed *Error
	assert.True(t, errors.As(tx, &typed))
	assert.Equal(t, StatusInternalServerError, typed.StatusCode)
}

func TestConvertMongoError(t *testing.T) {
	assert.Nil(t, ConvertMongoError(nil))

	assert.True(t, IsNotFound(ConvertMongoError(mongo.ErrNoDocuments)))

	dup := mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}}}
	assert.True(t, IsConflict(ConvertMongoError(dup)))

	typed := NewValidationError("kept")
	assert.Same(t, typed, ConvertMongoError(typed))

	transient := mongo.CommandError{Code: 112, Labels: []string{"TransientTransactionError"}}
	assert.True(t, IsTransaction(ConvertMongoError(transient)))

	generic := ConvertMongoError(errors.New("boom"))
	var e *Error
	assert.True(t, errors.As(generic, &e))
	assert.Equal(t, ErrCodeDatabase.Code, e.Code.Code)
}
