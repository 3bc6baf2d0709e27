package store

import (
	"encoding/binary"
	"math"
)

// Neighbors is a lazy, single-pass, forward-only sequence of
// (neighbor_id, similarity) pairs read directly out of a memory-mapped
// graph file. It yields no heap allocation beyond the pair returned by
// Next, and is cheap to abandon mid-way (§4.1, §9 "Lazy sequences").
//
// Entries in the underlying block are sorted by similarity descending, so
// Neighbors stops as soon as it sees an entry below minSimilarity: every
// remaining entry in the block is also below threshold.
type Neighbors struct {
	data          []byte
	pos           int
	remaining     uint32
	minSimilarity float32
	maxCount      int
	yielded       int
	done          bool
}

// newNeighbors builds a Neighbors iterator over data starting at the given
// byte offset, which must land exactly on the block's count field.
func newNeighbors(data []byte, offset uint64, minSimilarity float32, maxCount int) (*Neighbors, error) {
	if offset+AdjacencyCountSize > uint64(len(data)) {
		return nil, NewCorruptStore("adjacency offset out of bounds", nil)
	}
	count := binary.LittleEndian.Uint32(data[offset:])
	blockEnd := offset + AdjacencyCountSize + uint64(count)*AdjacencyEntrySize
	if blockEnd > uint64(len(data)) {
		return nil, NewCorruptStore("adjacency block overruns file", nil)
	}
	return &Neighbors{
		data:          data,
		pos:           int(offset) + AdjacencyCountSize,
		remaining:     count,
		minSimilarity: minSimilarity,
		maxCount:      maxCount,
	}, nil
}

// Next yields the next (neighbor, similarity) pair. ok is false once the
// sequence is exhausted by count, by maxCount, or by crossing below
// minSimilarity; once ok is false the iterator is permanently done.
func (n *Neighbors) Next() (neighbor ArtistID, similarity float32, ok bool) {
	if n.done || n.remaining == 0 || (n.maxCount > 0 && n.yielded >= n.maxCount) {
		n.done = true
		return ArtistID{}, 0, false
	}

	copy(neighbor[:], n.data[n.pos:n.pos+IDSize])
	bits := binary.LittleEndian.Uint32(n.data[n.pos+IDSize:])
	similarity = math.Float32frombits(bits)

	if similarity < n.minSimilarity {
		n.done = true
		return ArtistID{}, 0, false
	}

	n.pos += AdjacencyEntrySize
	n.remaining--
	n.yielded++

	return neighbor, similarity, true
}
