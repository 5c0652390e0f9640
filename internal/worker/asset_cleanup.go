// Package worker holds the background jobs of the server.
package worker

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AbdUllahO7/idigitek-server/internal/api/events"
	"github.com/AbdUllahO7/idigitek-server/internal/logger"
)

const assetMaxAttempts = 3

// AssetRemover deletes one stored asset.
type AssetRemover interface {
	RemoveAsset(ctx context.Context, assetURL string) error
}

// LogRemover only records the URL. Used when assets live on a remote store
// the server has no credentials for.
type LogRemover struct{}

func (LogRemover) RemoveAsset(ctx context.Context, assetURL string) error {
	logger.WithContext(ctx).WithField("url", assetURL).Info("Asset released")
	return nil
}

// DirRemover deletes files under Dir. The URL path is resolved inside Dir;
// a path escaping it is refused and a missing file counts as removed.
type DirRemover struct {
	Dir string
}

var errAssetOutsideDir = errors.New("asset path escapes the upload directory")

func (r DirRemover) path(assetURL string) (string, error) {
	p := assetURL
	if u, err := url.Parse(assetURL); err == nil && u.Path != "" {
		p = u.Path
	}
	root, err := filepath.Abs(r.Dir)
	if err != nil {
		return "", err
	}
	full := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(p, "/")))
	rel, err := filepath.Rel(root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", errAssetOutsideDir
	}
	return full, nil
}

func (r DirRemover) RemoveAsset(ctx context.Context, assetURL string) error {
	full, err := r.path(assetURL)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	logger.WithContext(ctx).WithFields(logrus.Fields{"url": assetURL, "file": full}).Debug("Asset removed")
	return nil
}

// AssetCleanupWorker collects released asset URLs and removes them in
// batches. A URL that keeps failing is dropped after three attempts.
type AssetCleanupWorker struct {
	remover   AssetRemover
	interval  time.Duration
	batchSize int

	mu       sync.Mutex
	pending  []string
	queued   map[string]struct{}
	attempts map[string]int
}

// NewAssetCleanupWorker falls back to a 1 minute interval and batches of 50.
func NewAssetCleanupWorker(remover AssetRemover, interval time.Duration, batchSize int) *AssetCleanupWorker {
	if remover == nil {
		remover = LogRemover{}
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	return &AssetCleanupWorker{
		remover:   remover,
		interval:  interval,
		batchSize: batchSize,
		queued:    map[string]struct{}{},
		attempts:  map[string]int{},
	}
}

// Enqueue is an events.AssetReleasedHandler. URLs already waiting are not
// queued twice.
func (w *AssetCleanupWorker) Enqueue(_ context.Context, e events.AssetReleasedEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, u := range e.URLs {
		if u == "" {
			continue
		}
		if _, ok := w.queued[u]; ok {
			continue
		}
		w.queued[u] = struct{}{}
		w.pending = append(w.pending, u)
	}
}

// Pending returns the number of URLs waiting.
func (w *AssetCleanupWorker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

func (w *AssetCleanupWorker) take() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := len(w.pending)
	if n > w.batchSize {
		n = w.batchSize
	}
	batch := append([]string(nil), w.pending[:n]...)
	w.pending = w.pending[n:]
	return batch
}

// Flush removes one batch and returns how many URLs were removed. Failed
// URLs go back to the end of the queue.
func (w *AssetCleanupWorker) Flush(ctx context.Context) int {
	batch := w.take()
	if len(batch) == 0 {
		return 0
	}
	log := logger.WithContext(ctx)

	removed := 0
	var retry []string
	for _, u := range batch {
		err := w.remover.RemoveAsset(ctx, u)
		w.mu.Lock()
		switch {
		case err == nil:
			removed++
			delete(w.queued, u)
			delete(w.attempts, u)
		case w.attempts[u]+1 >= assetMaxAttempts:
			log.WithError(err).WithField("url", u).Error("Giving up on asset removal")
			delete(w.queued, u)
			delete(w.attempts, u)
		default:
			w.attempts[u]++
			retry = append(retry, u)
		}
		w.mu.Unlock()
	}

	if len(retry) > 0 {
		w.mu.Lock()
		w.pending = append(w.pending, retry...)
		w.mu.Unlock()
		log.WithField("count", len(retry)).Warn("Asset removal failed, will retry")
	}
	return removed
}

// Start flushes on every tick until ctx is done, then makes one last pass.
func (w *AssetCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(logrus.Fields{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("[ASSET_CLEANUP] Starting asset cleanup worker")

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			w.tick(drainCtx)
			cancel()
			log.Info("[ASSET_CLEANUP] Asset cleanup worker stopped")
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *AssetCleanupWorker) tick(ctx context.Context) {
	log := logger.GetAppLogger()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("[ASSET_CLEANUP] Panic while removing assets, continuing on next tick")
		}
	}()

	if removed := w.Flush(ctx); removed > 0 {
		log.WithFields(logrus.Fields{
			"removed": removed,
			"pending": w.Pending(),
		}).Info("[ASSET_CLEANUP] Removed released assets")
	}
}
