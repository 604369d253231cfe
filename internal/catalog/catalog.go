// Package catalog provides the index façade spec §4.6 describes: it
// owns every FileEntry and the inverted index behind a single-writer,
// multiple-reader lock, and delegates configuration changes to an
// atomically published snapshot so in-flight queries never observe a
// partial update (spec §9 "Dynamic config setters → immutable
// snapshot").
package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/audiodup/audiodup/internal/cache"
	"github.com/audiodup/audiodup/internal/comparator"
	"github.com/audiodup/audiodup/internal/config"
	"github.com/audiodup/audiodup/internal/duplicates"
	"github.com/audiodup/audiodup/internal/errors"
	"github.com/audiodup/audiodup/internal/fingerprint"
	"github.com/audiodup/audiodup/internal/invindex"
	"github.com/audiodup/audiodup/internal/logger"
	"github.com/audiodup/audiodup/internal/metrics"
)

// FileEntry is a read-only record of one indexed file.
type FileEntry struct {
	FileID      string
	Path        string
	Fingerprint *fingerprint.Fingerprint
}

// Catalog owns the FileEntry arena and the inverted index. AddFile,
// AddFilesBatch, SetCache and Clear take the exclusive lock; every
// other operation takes the shared lock (spec §4.6 "Thread-safety").
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]FileEntry
	index   *invindex.Index
	cfg     *config.Manager
	cache   *cache.Client
	nextID  atomic.Uint64
}

// New returns an empty Catalog with default configuration.
func New() *Catalog {
	return &Catalog{
		entries: make(map[string]FileEntry),
		index:   invindex.New(),
		cfg:     config.NewManager(),
	}
}

// newFileID returns the next dense, monotonically assigned file ID
// (spec §3 Invariant: "file_id is a dense, monotonically assigned
// non-negative integer"), rendered zero-padded so that lexicographic
// string order agrees with numeric order — every other package treats
// file_id as an opaque string key, so outer-iteration and tie-break
// sorts over file IDs (spec §4.5.1, §4.4.3) stay correct without those
// packages needing to know it is secretly an integer.
func (c *Catalog) newFileID() string {
	id := c.nextID.Add(1) - 1
	return fmt.Sprintf("%020d", id)
}

// AddFile validates fp, assigns it a new file ID, and inserts it into
// the inverted index under an exclusive lock (spec §6.1, §4.4.2).
func (c *Catalog) AddFile(path string, fp *fingerprint.Fingerprint) (string, error) {
	if fp == nil || fp.Len() == 0 {
		return "", errors.InvalidFingerprint("nil or empty fingerprint")
	}

	fileID := c.newFileID()

	insertStart := time.Now()
	c.mu.Lock()
	c.entries[fileID] = FileEntry{FileID: fileID, Path: path, Fingerprint: fp}
	c.index.Insert(fileID, fp)
	size := len(c.entries)
	c.mu.Unlock()
	metrics.Get().IndexInsertDuration.WithLabelValues("default").Observe(time.Since(insertStart).Seconds())

	metrics.Get().CatalogFilesIndexed.WithLabelValues("default").Set(float64(size))
	metrics.GetManager().RecordCatalogSize(size)
	logger.Log.Debug("indexed file", logger.WithFileID(fileID), logger.WithFilePath(path))
	return fileID, nil
}

// AddFilesBatch inserts every (path, fingerprint) pair under a single
// exclusive-lock acquisition (spec §4.6 "single writer lock taken
// once"). A file that fails validation is skipped, not fatal to the
// batch (spec §7 "a failed ingest ... the overall scan continues").
func (c *Catalog) AddFilesBatch(paths []string, fps []*fingerprint.Fingerprint) []string {
	ids := make([]string, len(paths))

	insertStart := time.Now()
	c.mu.Lock()
	for i, fp := range fps {
		if fp == nil || fp.Len() == 0 {
			logger.Log.Warn("skipping invalid fingerprint in batch", logger.WithFilePath(paths[i]))
			continue
		}
		fileID := c.newFileID()
		c.entries[fileID] = FileEntry{FileID: fileID, Path: paths[i], Fingerprint: fp}
		c.index.Insert(fileID, fp)
		ids[i] = fileID
	}
	size := len(c.entries)
	c.mu.Unlock()
	metrics.Get().IndexInsertDuration.WithLabelValues("batch").Observe(time.Since(insertStart).Seconds())

	metrics.Get().CatalogFilesIndexed.WithLabelValues("default").Set(float64(size))
	metrics.GetManager().RecordCatalogSize(size)
	return ids
}

// Candidates returns candidate file IDs for fp under a shared lock
// (spec §4.4.3).
func (c *Catalog) Candidates(fp *fingerprint.Fingerprint) []string {
	snap := c.cfg.Load()

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := c.index.Candidates(fp, snap.HashThreshold)
	metrics.Get().CandidateCountPerCall.WithLabelValues("default").Observe(float64(len(out)))
	return out
}

// SetCache attaches a redis-backed candidate-list cache; nil disables
// caching (the default).
func (c *Catalog) SetCache(client *cache.Client) {
	c.mu.Lock()
	c.cache = client
	c.mu.Unlock()
}

// CandidatesCached behaves like Candidates but consults the attached
// cache first and populates it on a miss. Falls back to an uncached
// lookup when no cache is attached.
func (c *Catalog) CandidatesCached(ctx context.Context, fp *fingerprint.Fingerprint) []string {
	snap := c.cfg.Load()

	c.mu.RLock()
	cacheClient := c.cache
	c.mu.RUnlock()

	if cacheClient == nil {
		return c.Candidates(fp)
	}

	lowHashes := fp.LowHashes()
	if ids, ok := cacheClient.GetCandidates(ctx, snap.HashThreshold, lowHashes); ok {
		return ids
	}

	out := c.Candidates(fp)
	if err := cacheClient.SetCandidates(ctx, snap.HashThreshold, lowHashes, out); err != nil {
		logger.Log.Warn("failed to populate candidate cache", logger.WithCandidateCount(len(out)))
	}
	return out
}

// CandidatesForFile looks up fileID's fingerprint and returns its
// candidates, excluding fileID itself.
func (c *Catalog) CandidatesForFile(fileID string) []string {
	c.mu.RLock()
	entry, ok := c.entries[fileID]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	out := c.Candidates(entry.Fingerprint)
	filtered := out[:0]
	for _, id := range out {
		if id != fileID {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

// GetFile returns the FileEntry for fileID under a shared lock (spec
// §4.6, §7 "OutOfRange ... returned as a missing-value").
func (c *Catalog) GetFile(fileID string) (FileEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[fileID]
	return entry, ok
}

// Clear drops all state under an exclusive lock.
func (c *Catalog) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]FileEntry)
	c.index.Clear()
	c.nextID.Store(0)
	c.mu.Unlock()
	metrics.Get().CatalogFilesIndexed.WithLabelValues("default").Set(0)
	metrics.GetManager().RecordCatalogSize(0)
	metrics.GetManager().RecordGroupsFound(0)
}

// Len returns the number of indexed files.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// FileIDs returns every indexed file ID, in no particular order. Used
// by internal/snapshot to capture a point-in-time archive.
func (c *Catalog) FileIDs() []string {
	return (&catalogSource{c}).FileIDs()
}

// FindAllDuplicates runs discovery sequentially (spec §4.5).
func (c *Catalog) FindAllDuplicates(ctx context.Context) []duplicates.Group {
	return c.FindAllDuplicatesParallel(ctx, 1)
}

// FindAllDuplicatesParallel runs the dynamically-scheduled discovery
// sweep across workers goroutines against a single consistent config
// snapshot (spec §4.5, §9 "immutable snapshot").
func (c *Catalog) FindAllDuplicatesParallel(ctx context.Context, workers int) []duplicates.Group {
	snap := c.cfg.Load()
	engine := duplicates.New(&catalogSource{c}, comparator.New(snap))

	groups := engine.FindAllParallel(ctx, workers)
	metrics.Get().GroupsDiscovered.WithLabelValues("default").Set(float64(len(groups)))
	metrics.GetManager().RecordGroupsFound(len(groups))
	return groups
}

// catalogSource adapts Catalog to duplicates.Source without exposing
// the writer-side API.
type catalogSource struct {
	c *Catalog
}

func (s *catalogSource) FileIDs() []string {
	s.c.mu.RLock()
	defer s.c.mu.RUnlock()
	ids := make([]string, 0, len(s.c.entries))
	for id := range s.c.entries {
		ids = append(ids, id)
	}
	return ids
}

func (s *catalogSource) Fingerprint(fileID string) (*fingerprint.Fingerprint, bool) {
	entry, ok := s.c.GetFile(fileID)
	if !ok {
		return nil, false
	}
	return entry.Fingerprint, true
}

// Candidates routes through CandidatesCached so a cache attached via
// SetCache actually serves the discovery sweep's lookups, not just
// ad hoc external queries; CandidatesCached itself falls back to the
// uncached path when no cache is attached.
func (s *catalogSource) Candidates(fp *fingerprint.Fingerprint) []string {
	return s.c.CandidatesCached(context.Background(), fp)
}

// Configuration setters delegate to the config.Manager (spec §4.6).

func (c *Catalog) SetSimilarityThreshold(v float64) error { return c.cfg.SetSimilarityThreshold(v) }
func (c *Catalog) SetBitErrorThreshold(v float64) error   { return c.cfg.SetBitErrorThreshold(v) }
func (c *Catalog) SetMinimumOverlap(v int) error          { return c.cfg.SetMinimumOverlap(v) }
func (c *Catalog) SetMaxAlignmentOffset(v int) error      { return c.cfg.SetMaxAlignmentOffset(v) }
func (c *Catalog) SetAlignmentStep(v int) error           { return c.cfg.SetAlignmentStep(v) }
func (c *Catalog) SetHashThreshold(v int) error           { return c.cfg.SetHashThreshold(v) }
func (c *Catalog) SetSlidingWindow(size, stride int) error {
	return c.cfg.SetSlidingWindow(size, stride)
}
func (c *Catalog) SetGroupCoverageMin(v float64) error { return c.cfg.SetGroupCoverageMin(v) }

// Config returns the currently active configuration snapshot.
func (c *Catalog) Config() *config.Snapshot { return c.cfg.Load() }
