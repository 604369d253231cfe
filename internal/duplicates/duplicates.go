// Package duplicates implements the discovery engine spec §4.5
// describes: a dynamically-scheduled parallel sweep over a catalog's
// file IDs that proposes candidate groups, then a union-find merge
// pass that is the actual source of correctness (concurrent proposals
// can legitimately overlap; the merge reconciles them). The worker
// pool shape follows the dupedog verifier's job/collector split, swapped
// for a single atomic work-claim counter since every worker does the
// same kind of work here.
package duplicates

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/audiodup/audiodup/internal/comparator"
	"github.com/audiodup/audiodup/internal/fingerprint"
	"github.com/audiodup/audiodup/internal/metrics"
)

// Source is the read surface the engine needs from a catalog: the set
// of file IDs to sweep, their fingerprints, and inverted-index
// candidate retrieval. internal/catalog implements this.
type Source interface {
	FileIDs() []string
	Fingerprint(fileID string) (*fingerprint.Fingerprint, bool)
	Candidates(fp *fingerprint.Fingerprint) []string
}

// Group is a confirmed duplicate group: two or more file IDs, sorted
// ascending, plus the average pairwise similarity across the group
// (spec §4.5.2).
type Group struct {
	FileIDs       []string
	AvgSimilarity float64
}

// Engine runs duplicate discovery over a Source using a fixed
// Comparator configuration.
type Engine struct {
	source Source
	cmp    *comparator.Comparator
}

// New builds an Engine bound to source and cmp.
func New(source Source, cmp *comparator.Comparator) *Engine {
	return &Engine{source: source, cmp: cmp}
}

// FindAll runs discovery sequentially; equivalent to FindAllParallel
// with a single worker.
func (e *Engine) FindAll(ctx context.Context) []Group {
	return e.FindAllParallel(ctx, 1)
}

// FindAllParallel runs the algorithm in spec §4.5.1: workers dynamically
// claim file IDs (ascending order, atomic counter), skip anything
// already marked processed, gather candidates from the inverted index,
// confirm them with the comparator, and propose a group when two or
// more files match. Proposed groups race-tolerantly overlap because
// `processed` is read without synchronization as a pruning
// optimization only (spec §4.5.3); mergeGroups is what actually
// restores disjointness.
func (e *Engine) FindAllParallel(ctx context.Context, workers int) []Group {
	start := time.Now()
	defer func() {
		metrics.Get().DiscoveryDuration.WithLabelValues("default").Observe(time.Since(start).Seconds())
	}()

	fileIDs := append([]string(nil), e.source.FileIDs()...)
	sort.Strings(fileIDs)
	n := len(fileIDs)
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	processed := make([]atomic.Bool, n)
	var next atomic.Int64
	var mu sync.Mutex
	var proposed [][]string

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				i := next.Add(1) - 1
				if i >= int64(n) {
					return nil
				}
				idx := int(i)
				if processed[idx].Load() {
					continue
				}

				fileID := fileIDs[idx]
				fp, ok := e.source.Fingerprint(fileID)
				if !ok {
					processed[idx].Store(true)
					continue
				}

				group := []string{fileID}
				for _, candidate := range e.source.Candidates(fp) {
					if candidate == fileID {
						continue
					}
					candIdx := indexOf(fileIDs, candidate)
					if candIdx >= 0 && processed[candIdx].Load() {
						continue
					}
					candFP, ok := e.source.Fingerprint(candidate)
					if !ok {
						continue
					}
					result := e.cmp.Compare(fp, candFP)
					if result.IsDuplicate {
						group = append(group, candidate)
					}
				}

				if len(group) >= 2 {
					for _, member := range group {
						if mi := indexOf(fileIDs, member); mi >= 0 {
							processed[mi].Store(true)
						}
					}
					mu.Lock()
					proposed = append(proposed, group)
					mu.Unlock()
				} else {
					processed[idx].Store(true)
				}
			}
		})
	}
	_ = g.Wait()

	merged := mergeGroups(proposed)
	groups := make([]Group, 0, len(merged))
	for _, members := range merged {
		sort.Strings(members)
		groups = append(groups, Group{
			FileIDs:       members,
			AvgSimilarity: e.averageSimilarity(members),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].AvgSimilarity > groups[j].AvgSimilarity
	})
	return groups
}

// averageSimilarity computes the mean similarity_score over every
// unordered pair in members (spec §4.5.2).
func (e *Engine) averageSimilarity(members []string) float64 {
	if len(members) < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(members); i++ {
		fpI, okI := e.source.Fingerprint(members[i])
		if !okI {
			continue
		}
		for j := i + 1; j < len(members); j++ {
			fpJ, okJ := e.source.Fingerprint(members[j])
			if !okJ {
				continue
			}
			sum += e.cmp.Compare(fpI, fpJ).SimilarityScore
			pairs++
		}
	}
	if pairs == 0 {
		return 0
	}
	return sum / float64(pairs)
}

func indexOf(sorted []string, target string) int {
	i := sort.SearchStrings(sorted, target)
	if i < len(sorted) && sorted[i] == target {
		return i
	}
	return -1
}
