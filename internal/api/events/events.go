// Package events is the in-process bus for content changes. Services emit
// after a transaction commits; subscribers (audit log, asset cleanup) react
// asynchronously.
package events

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Operations carried by DataChangeEvent.
const (
	OpInsert     = "insert"
	OpUpdate     = "update"
	OpUpsert     = "upsert"
	OpDelete     = "delete"
	OpSoftDelete = "softDelete"
	OpReorder    = "reorder"
)

// DataChangeEvent describes one committed change. Document is the entity after
// the change, nil on delete.
type DataChangeEvent struct {
	CollectionName string
	Operation      string
	DocumentID     primitive.ObjectID
	Document       interface{}
	// Affected counts the rows touched by a cascade or a batch.
	Affected int
}

// AssetReleasedEvent lists image URLs no entity references anymore.
type AssetReleasedEvent struct {
	Source primitive.ObjectID
	URLs   []string
}

type DataChangeHandler func(ctx context.Context, e DataChangeEvent)

type AssetReleasedHandler func(ctx context.Context, e AssetReleasedEvent)

var (
	handlersMu    sync.RWMutex
	dataHandlers  []DataChangeHandler
	assetHandlers []AssetReleasedHandler
)

// OnDataChanged subscribes h to every DataChangeEvent.
func OnDataChanged(h DataChangeHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	dataHandlers = append(dataHandlers, h)
}

// OnAssetReleased subscribes h to every AssetReleasedEvent.
func OnAssetReleased(h AssetReleasedHandler) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	assetHandlers = append(assetHandlers, h)
}

// Reset drops every subscriber.
func Reset() {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	dataHandlers = nil
	assetHandlers = nil
}

// EmitDataChanged runs each handler in its own goroutine. A panicking handler
// is logged and does not affect the others.
func EmitDataChanged(ctx context.Context, e DataChangeEvent) {
	handlersMu.RLock()
	list := make([]DataChangeHandler, len(dataHandlers))
	copy(list, dataHandlers)
	handlersMu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, h := range list {
		go func(fn DataChangeHandler) {
			defer recoverHandler("data changed")
			fn(ctx, e)
		}(h)
	}
}

// EmitAssetReleased is EmitDataChanged for released assets. Empty URL lists
// are not emitted.
func EmitAssetReleased(ctx context.Context, e AssetReleasedEvent) {
	if len(e.URLs) == 0 {
		return
	}
	handlersMu.RLock()
	list := make([]AssetReleasedHandler, len(assetHandlers))
	copy(list, assetHandlers)
	handlersMu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	for _, h := range list {
		go func(fn AssetReleasedHandler) {
			defer recoverHandler("asset released")
			fn(ctx, e)
		}(h)
	}
}

func recoverHandler(kind string) {
	if r := recover(); r != nil {
		logrus.WithFields(logrus.Fields{"event": kind, "panic": r}).Error("Event handler panicked")
	}
}
