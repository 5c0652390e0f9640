package basesvc

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AbdUllahO7/idigitek-server/internal/common"
)

// Transactor runs fn atomically. Store calls made with the ctx handed to fn
// take part in the transaction; when fn returns an error nothing it wrote is
// kept.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor runs transactions on a client session. The server must be
// a replica set or a sharded cluster.
type MongoTransactor struct {
	client *mongo.Client
}

// NewMongoTransactor binds client.
func NewMongoTransactor(client *mongo.Client) *MongoTransactor {
	return &MongoTransactor{client: client}
}

func (t *MongoTransactor) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return common.ConvertMongoError(err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		return wrapTxError(err)
	}
	return nil
}

// wrapTxError keeps validation, not-found, conflict and transaction errors
// raised inside the transaction and wraps everything else, driver failures
// already converted to DB errors included, as a TransactionError.
func wrapTxError(err error) error {
	if common.IsValidation(err) || errors.Is(err, common.ErrInvalidFormat) ||
		common.IsNotFound(err) || common.IsConflict(err) || common.IsTransaction(err) {
		return err
	}
	return common.NewTransactionError(err)
}
