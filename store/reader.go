package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/edsrzf/mmap-go"
)

// Reader holds three memory-mapped files — forward graph, reverse graph,
// and metadata — open for the lifetime of the process (§3 "Lifecycle").
// It behaves as a shared immutable resource: once Open returns, Reader
// holds only the mappings and the parsed, read-only record table, so
// concurrent calls from multiple search workers are safe without locks
// (§4.1 "Guarantees", §5 "Shared resources").
type Reader struct {
	forward mmap.MMap
	reverse mmap.MMap
	meta    mmap.MMap

	records []Record // id-sorted, parsed once at Open
	arena   []byte   // string arena slice of meta
}

// Open memory-maps forward.graph, reverse.graph, and meta.bin from dir and
// parses the metadata header and record table. It returns *Error with
// KindCorruptStore for structural violations and KindIOFailure for OS-level
// failures.
func Open(dir string) (*Reader, error) {
	fwd, err := openMap(filepath.Join(dir, ForwardFileName))
	if err != nil {
		return nil, err
	}
	rev, err := openMap(filepath.Join(dir, ReverseFileName))
	if err != nil {
		fwd.Unmap()
		return nil, err
	}
	meta, err := openMap(filepath.Join(dir, MetaFileName))
	if err != nil {
		fwd.Unmap()
		rev.Unmap()
		return nil, err
	}

	r := &Reader{forward: fwd, reverse: rev, meta: meta}
	if err := r.parseMeta(); err != nil {
		_ = r.Close()
		return nil, err
	}

	return r, nil
}

func openMap(path string) (mmap.MMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewIOFailure("open "+path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, NewIOFailure("stat "+path, err)
	}
	if info.Size() == 0 {
		return nil, NewCorruptStore(path+" is empty", nil)
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, NewIOFailure("mmap "+path, err)
	}

	return m, nil
}

func (r *Reader) parseMeta() error {
	if len(r.meta) < HeaderSize {
		return NewCorruptStore("metadata file shorter than header", nil)
	}
	if !bytes.Equal(r.meta[0:MagicSize], Magic[:]) {
		return NewCorruptStore("bad magic in metadata file", nil)
	}
	version := binary.LittleEndian.Uint32(r.meta[MagicSize:])
	if version != FormatVersion {
		return NewCorruptStore(fmt.Sprintf("unsupported metadata version %d", version), nil)
	}
	count := binary.LittleEndian.Uint32(r.meta[MagicSize+4:])

	tableEnd := uint64(HeaderSize) + uint64(count)*RecordSize
	if tableEnd > uint64(len(r.meta)) {
		return NewCorruptStore("record table overruns metadata file", nil)
	}

	records := make([]Record, count)
	for i := uint32(0); i < count; i++ {
		start := HeaderSize + int(i)*RecordSize
		records[i] = decodeRecord(r.meta[start : start+RecordSize])
	}
	if !sort.SliceIsSorted(records, func(i, j int) bool { return records[i].ID.Less(records[j].ID) }) {
		return NewCorruptStore("record table is not sorted by id", nil)
	}

	r.records = records
	r.arena = r.meta[tableEnd:]

	return nil
}

// Count returns the total number of artists in the store (§6.3 "stats").
func (r *Reader) Count() int { return len(r.records) }

// RecordAt returns the record at the given dense record index (its position
// in the id-sorted table).
func (r *Reader) RecordAt(index uint32) Record { return r.records[index] }

// IndexOf returns the dense record index of id via binary search over the
// id-sorted table, or ok=false if id has no record.
func (r *Reader) IndexOf(id ArtistID) (index uint32, ok bool) {
	n := len(r.records)
	i := sort.Search(n, func(i int) bool { return !r.records[i].ID.Less(id) })
	if i < n && r.records[i].ID == id {
		return uint32(i), true
	}
	return 0, false
}

// Lookup resolves id to its record, or ok=false if unknown (§4.1 "lookup").
func (r *Reader) Lookup(id ArtistID) (rec Record, ok bool) {
	i, found := r.IndexOf(id)
	if !found {
		return Record{}, false
	}
	return r.records[i], true
}

// Name returns the display name of the artist at the given record index.
func (r *Reader) Name(index uint32) string {
	rec := r.records[index]
	return string(r.arena[rec.NameOffset : rec.NameOffset+uint32(rec.NameLength)])
}

// URL returns the canonical URL of the artist at the given record index.
func (r *Reader) URL(index uint32) string {
	rec := r.records[index]
	return string(r.arena[rec.URLOffset : rec.URLOffset+uint32(rec.URLLength)])
}

// Records exposes the id-sorted record table read-only, for consumers such
// as nameidx that build auxiliary indexes at startup.
func (r *Reader) Records() []Record { return r.records }

// Neighbors opens a lazy sequence of (neighbor, similarity) pairs for id in
// the given direction, truncated by minSimilarity and maxCount (§4.1).
// Returns ErrUnknownArtist if id has no record.
func (r *Reader) Neighbors(id ArtistID, dir Direction, minSimilarity float32, maxCount int) (*Neighbors, error) {
	rec, ok := r.Lookup(id)
	if !ok {
		return nil, NewUnknownArtist("no record for artist " + id.String())
	}
	return r.NeighborsAt(blockOffset(rec, dir), dir, minSimilarity, maxCount)
}

// NeighborsByIndex is like Neighbors but takes a dense record index,
// avoiding a redundant id lookup when the caller already resolved it
// (the search kernel operates on indices throughout).
func (r *Reader) NeighborsByIndex(index uint32, dir Direction, minSimilarity float32, maxCount int) (*Neighbors, error) {
	if int(index) >= len(r.records) {
		return nil, NewCorruptStore("record index out of range", nil)
	}
	rec := r.records[index]
	return r.NeighborsAt(blockOffset(rec, dir), dir, minSimilarity, maxCount)
}

// NeighborsAt opens a lazy sequence directly at a known block offset.
func (r *Reader) NeighborsAt(offset uint64, dir Direction, minSimilarity float32, maxCount int) (*Neighbors, error) {
	data := r.forward
	if dir == Reverse {
		data = r.reverse
	}
	return newNeighbors(data, offset, minSimilarity, maxCount)
}

func blockOffset(rec Record, dir Direction) uint64 {
	if dir == Reverse {
		return rec.ReverseOffset
	}
	return rec.ForwardOffset
}

// Close releases all three mappings. No search may hold a reference to the
// Reader past Close (§9 "Scoped mapping").
func (r *Reader) Close() error {
	var firstErr error
	for _, m := range []mmap.MMap{r.forward, r.reverse, r.meta} {
		if m == nil {
			continue
		}
		if err := m.Unmap(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return NewIOFailure("unmap", firstErr)
	}
	return nil
}
