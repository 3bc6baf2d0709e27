// Package nameidx resolves user-supplied artist names to identifiers, backs
// substring search, and provides O(1) uniform random selection (§4.2).
//
// The index is built once, at engine startup, from a store.Reader's record
// table and is read-only thereafter (§3 "Lifecycle", §5 "Shared resources").
package nameidx

import (
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/kvarro/artigraph/store"
)

// entry pairs a normalized (lowercased, trimmed) name with the dense record
// index it resolves to. Multiple entries may share the same name.
type entry struct {
	name  string
	index uint32
}

// Index is the name-to-identifier lookup structure (§4.2, §6.2).
type Index struct {
	reader *store.Reader

	// byName is sorted by (name, index), supporting resolve_exact via a
	// binary-searched range.
	byName []entry

	// trigrams maps a 3-gram of a normalized name to the set of record
	// indices whose name contains it, narrowing substring search at scale
	// (§4.2a of SPEC_FULL.md) instead of a linear scan over every name.
	trigrams map[string][]uint32

	// all is every record index in table order, giving O(1) random
	// selection without building a second slice at query time.
	all []uint32

	// rng is guarded by rngMu, since Random may run from concurrent queries.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option customizes Index construction.
type Option func(*Index)

// WithRand injects a deterministic random source, used by tests that need
// reproducible Random() results.
func WithRand(rng *rand.Rand) Option {
	return func(idx *Index) {
		if rng != nil {
			idx.rng = rng
		}
	}
}

// Build constructs an Index over every record in r. Complexity:
// O(n log n) for the name sort, O(total name bytes) for the trigram index.
func Build(r *store.Reader, opts ...Option) *Index {
	idx := &Index{
		reader:   r,
		trigrams: make(map[string][]uint32),
		rng:      rand.New(rand.NewSource(1)),
	}
	for _, opt := range opts {
		opt(idx)
	}

	n := r.Count()
	idx.byName = make([]entry, n)
	idx.all = make([]uint32, n)
	for i := 0; i < n; i++ {
		norm := normalize(r.Name(uint32(i)))
		idx.byName[i] = entry{name: norm, index: uint32(i)}
		idx.all[i] = uint32(i)
		for _, g := range trigramsOf(norm) {
			idx.trigrams[g] = append(idx.trigrams[g], uint32(i))
		}
	}
	sort.Slice(idx.byName, func(i, j int) bool {
		if idx.byName[i].name != idx.byName[j].name {
			return idx.byName[i].name < idx.byName[j].name
		}
		return idx.byName[i].index < idx.byName[j].index
	})

	return idx
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// ResolveExact returns every identifier whose normalized name equals the
// normalized query (§4.2 "resolve_exact").
func (idx *Index) ResolveExact(name string) []store.ArtistID {
	q := normalize(name)
	lo := sort.Search(len(idx.byName), func(i int) bool { return idx.byName[i].name >= q })
	var out []store.ArtistID
	for i := lo; i < len(idx.byName) && idx.byName[i].name == q; i++ {
		out = append(out, idx.reader.RecordAt(idx.byName[i].index).ID)
	}
	return out
}

// Resolved is one match from SearchSubstring, carrying the fields the
// engine's resolve_name operation returns (§6.3).
type Resolved struct {
	ID   store.ArtistID
	Name string
	URL  string
}

const (
	rankExact = iota
	rankPrefix
	rankSubstring
)

// SearchSubstring returns up to limit matches whose normalized name
// contains the normalized query, ranked exact first, then prefix, then
// other substring, ties broken lexicographically by name (§4.2).
func (idx *Index) SearchSubstring(query string, limit int) []Resolved {
	q := normalize(query)
	if q == "" || limit <= 0 {
		return nil
	}

	candidates := idx.candidateIndices(q)

	type match struct {
		rank  int
		name  string
		index uint32
	}
	seen := make(map[uint32]bool, len(candidates))
	matches := make([]match, 0, len(candidates))
	for _, i := range candidates {
		if seen[i] {
			continue
		}
		seen[i] = true
		name := normalize(idx.reader.Name(i))
		if !strings.Contains(name, q) {
			continue
		}
		r := rankSubstring
		switch {
		case name == q:
			r = rankExact
		case strings.HasPrefix(name, q):
			r = rankPrefix
		}
		matches = append(matches, match{rank: r, name: name, index: i})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		if matches[i].name != matches[j].name {
			return matches[i].name < matches[j].name
		}
		return matches[i].index < matches[j].index
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]Resolved, len(matches))
	for i, rk := range matches {
		rec := idx.reader.RecordAt(rk.index)
		out[i] = Resolved{ID: rec.ID, Name: idx.reader.Name(rk.index), URL: idx.reader.URL(rk.index)}
	}

	return out
}

// candidateIndices gathers a narrowed candidate set via the trigram index
// for queries of 3 or more runes; shorter queries fall back to a full scan,
// which is acceptable since such broad queries are rare and bounded by the
// corpus's name count (§4.2 "a linear scan is acceptable only at small
// scale" — here only for the narrow case of sub-trigram queries).
func (idx *Index) candidateIndices(q string) []uint32 {
	if len([]rune(q)) < 3 {
		return idx.all
	}

	grams := trigramsOf(q)
	if len(grams) == 0 {
		return idx.all
	}

	// Use only the rarest gram's postings as the candidate set; every match
	// contains that gram, and SearchSubstring's Contains check drops the
	// candidates that lack the rest of the query.
	best := grams[0]
	for _, g := range grams[1:] {
		if len(idx.trigrams[g]) < len(idx.trigrams[best]) {
			best = g
		}
	}
	return idx.trigrams[best]
}

func trigramsOf(s string) []string {
	r := []rune(s)
	if len(r) < 3 {
		return nil
	}
	grams := make([]string, 0, len(r)-2)
	for i := 0; i+3 <= len(r); i++ {
		grams = append(grams, string(r[i:i+3]))
	}
	return grams
}

// Random returns a uniformly random artist across the whole store, O(1)
// (§4.2 "random").
func (idx *Index) Random() (store.ArtistID, bool) {
	if len(idx.all) == 0 {
		return store.ArtistID{}, false
	}
	idx.rngMu.Lock()
	n := idx.rng.Intn(len(idx.all))
	idx.rngMu.Unlock()
	i := idx.all[n]
	return idx.reader.RecordAt(i).ID, true
}
