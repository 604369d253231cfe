package metrics

import (
	"sync"
)

// Manager provides a synchronized read view over accumulated metrics for
// callers (e.g. the CLI's "stats" subcommand) that want a snapshot
// rather than scraping /metrics.
type Manager struct {
	mu        sync.RWMutex
	filesSeen int
	groups    int
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global metrics manager (singleton).
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = &Manager{}
	})
	return globalManager
}

// RecordCatalogSize records the current number of indexed files.
func (m *Manager) RecordCatalogSize(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.filesSeen = n
}

// RecordGroupsFound records the number of duplicate groups from the
// most recent discovery pass.
func (m *Manager) RecordGroupsFound(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = n
}

// Snapshot returns the manager's current counters as a plain map,
// convenient for JSON responses or CLI output.
func (m *Manager) Snapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]interface{}{
		"files_indexed":     m.filesSeen,
		"duplicate_groups":  m.groups,
	}
}
