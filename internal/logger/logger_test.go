package logger

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(cfg *LogConfig, w *syncBuffer) (*logrus.Logger, *AsyncHook) {
	l := logrus.New()
	l.SetOutput(bytes.NewBuffer(nil))
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	hook := NewAsyncHookWithWriters([]io.Writer{w}, 10)
	l.AddHook(NewFilterHook(cfg))
	l.AddHook(hook)
	return l, hook
}

func TestAsyncHookWritesAfterClose(t *testing.T) {
	out := &syncBuffer{}
	l, hook := newTestLogger(&LogConfig{}, out)

	l.WithField("collection", "sections").Info("first")
	assert.NoError(t, hook.Close())
	assert.Contains(t, out.String(), "first")

	l.Info("second")
	assert.Contains(t, out.String(), "second", "closed hooks write synchronously")
}

func TestFilterHook(t *testing.T) {
	out := &syncBuffer{}
	l, hook := newTestLogger(&LogConfig{FilterCollections: "relations", FilterLogTypes: "*"}, out)

	l.WithField("collection", "sections").Info("dropped")
	l.WithField("collection", "relations").Info("kept")
	l.WithField("collection", "sections").Error("errors always pass")
	_ = hook.Close()

	got := out.String()
	assert.NotContains(t, got, "dropped")
	assert.Contains(t, got, "kept")
	assert.Contains(t, got, "errors always pass")
	assert.NotContains(t, got, filteredField)
}

func TestParseFilter(t *testing.T) {
	assert.Nil(t, parseFilter(""))
	assert.Nil(t, parseFilter("a,*"))
	assert.Equal(t, map[string]bool{"a": true, "b": true}, parseFilter(" A, b ,"))
}

func TestWithContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	entry := WithContext(ctx)
	assert.Equal(t, "req-1", entry.Data["request_id"])
}

func TestLogAudit(t *testing.T) {
	hook := test.NewLocal(GetAuditLogger())
	defer hook.Reset()

	ctx := ContextWithRequestID(context.Background(), "req-7")
	LogAudit(ctx, AuditAction{Action: "delete", ResourceType: "sections", ResourceID: "abc", Affected: 4})
	LogAudit(context.Background(), AuditAction{Action: "create", ResourceType: "languages", ResourceID: "def"})

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "delete", entries[0].Data["action"])
	assert.Equal(t, 4, entries[0].Data["affected"])
	assert.Equal(t, "req-7", entries[0].Data["request_id"])
	assert.NotContains(t, entries[1].Data, "affected")
	assert.NotContains(t, entries[1].Data, "request_id")
}
