package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitDataChanged(t *testing.T) {
	Reset()
	defer Reset()

	got := make(chan DataChangeEvent, 2)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { panic("bad subscriber") })
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) { got <- e })

	ctx, cancel := context.WithCancel(context.Background())
	EmitDataChanged(ctx, DataChangeEvent{CollectionName: "sections", Operation: OpInsert})
	cancel()

	select {
	case e := <-got:
		assert.Equal(t, "sections", e.CollectionName)
		assert.Equal(t, OpInsert, e.Operation)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
}

func TestEmitAssetReleasedSkipsEmpty(t *testing.T) {
	Reset()
	defer Reset()

	got := make(chan AssetReleasedEvent, 2)
	OnAssetReleased(func(ctx context.Context, e AssetReleasedEvent) { got <- e })

	EmitAssetReleased(context.Background(), AssetReleasedEvent{})
	EmitAssetReleased(context.Background(), AssetReleasedEvent{URLs: []string{"https://cdn/a.png"}})

	select {
	case e := <-got:
		require.Len(t, e.URLs, 1)
	case <-time.After(time.Second):
		t.Fatal("handler was not called")
	}
	select {
	case <-got:
		t.Fatal("empty release was emitted")
	case <-time.After(50 * time.Millisecond):
	}
}
