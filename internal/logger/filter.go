package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const filteredField = "_filtered"

// FilterHook marks entries the async writer must drop. It filters on the
// "collection" field and on the level. Errors are never dropped.
type FilterHook struct {
	collections map[string]bool
	levels      map[string]bool
}

// NewFilterHook builds the filter from cfg.
func NewFilterHook(cfg *LogConfig) *FilterHook {
	return &FilterHook{
		collections: parseFilter(cfg.FilterCollections),
		levels:      parseFilter(cfg.FilterLogTypes),
	}
}

// parseFilter turns "a,b" into a set. An empty or "*" filter is nil.
func parseFilter(s string) map[string]bool {
	set := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "*" {
			return nil
		}
		if part != "" {
			set[part] = true
		}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func (h *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *FilterHook) Fire(entry *logrus.Entry) error {
	if entry.Level <= logrus.ErrorLevel {
		return nil
	}
	if !h.Allows(entry) {
		entry.Data[filteredField] = true
	}
	return nil
}

// Allows reports whether entry passes the filter.
func (h *FilterHook) Allows(entry *logrus.Entry) bool {
	if h.levels != nil && !h.levels[entry.Level.String()] {
		return false
	}
	if h.collections != nil {
		if c, ok := entry.Data["collection"].(string); ok && !h.collections[strings.ToLower(c)] {
			return false
		}
	}
	return true
}
