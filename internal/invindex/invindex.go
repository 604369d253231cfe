// Package invindex implements the 16-bit hash inverted index spec §4.4
// describes: an append-only, single-writer posting-list store that
// turns full pairwise comparison into sub-linear candidate retrieval.
package invindex

import (
	"sort"

	"github.com/audiodup/audiodup/internal/bitutil"
	"github.com/audiodup/audiodup/internal/fingerprint"
)

// Posting is one (file, position) occurrence of a hash bucket.
type Posting struct {
	FileID   string
	Position int
}

// Index maps a low-16-bit hash to the ordered list of postings that
// produced it. It is not safe for concurrent Insert calls; the
// catalog façade serializes writers with its own mutex (spec §4.4.4).
type Index struct {
	buckets map[uint16][]Posting
}

// New returns an empty Index.
func New() *Index {
	return &Index{buckets: make(map[uint16][]Posting)}
}

// Insert appends a posting for every word of fp under fileID (spec
// §4.4.2). Time is linear in fp.Len().
func (idx *Index) Insert(fileID string, fp *fingerprint.Fingerprint) {
	for p := 0; p < fp.Len(); p++ {
		h := bitutil.LowHash16(fp.At(p))
		idx.buckets[h] = append(idx.buckets[h], Posting{FileID: fileID, Position: p})
	}
}

// Clear removes every posting, returning the index to its zero state.
func (idx *Index) Clear() {
	idx.buckets = make(map[uint16][]Posting)
}

// Candidates returns file IDs with at least hashThreshold postings
// under fp's distinct low-16-bit hashes (a file that repeats a hash
// counts once per posting), sorted by hit count descending then file
// ID ascending (spec §4.4.3). The query
// fingerprint's own file ID, if registered, is included; callers must
// skip self-matches themselves.
func (idx *Index) Candidates(fp *fingerprint.Fingerprint, hashThreshold int) []string {
	hits := make(map[string]int)
	for h := range fp.LowHashes() {
		for _, posting := range idx.buckets[h] {
			hits[posting.FileID]++
		}
	}

	type tally struct {
		fileID string
		count  int
	}
	tallies := make([]tally, 0, len(hits))
	for fileID, count := range hits {
		if count < hashThreshold {
			continue
		}
		tallies = append(tallies, tally{fileID, count})
	}

	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].fileID < tallies[j].fileID
	})

	out := make([]string, len(tallies))
	for i, t := range tallies {
		out[i] = t.fileID
	}
	return out
}

// BucketCount reports the number of distinct hash buckets currently
// populated, bounded by 2^16 (spec §4.4.1).
func (idx *Index) BucketCount() int {
	return len(idx.buckets)
}
