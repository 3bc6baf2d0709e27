// Package compiler writes the three binary artifacts (forward graph,
// reverse graph, metadata) that store.Reader opens. It is the reader's
// exact inverse: given an in-memory graph description, it establishes the
// load-bearing invariants of the on-disk format (§3 of the specification)
// — descending-similarity adjacency blocks, an id-sorted record table, and
// offsets that land exactly on a block's count field.
//
// This is not the production NDJSON→binary ingestion pipeline (that remains
// an external collaborator); it exists so tests can exercise store.Reader
// and the search kernel against real mmap'd files, and so the CLI's build
// subcommand can materialize a toy or synthetic data directory.
package compiler

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/kvarro/artigraph/store"
)

// Edge is one outgoing (or incoming) adjacency entry before compilation;
// order is irrelevant, Compile sorts each artist's block by similarity
// descending before writing it.
type Edge struct {
	Neighbor   store.ArtistID
	Similarity float32
}

// Artist is one input record to Compile: its identity, display metadata,
// and both of its adjacency lists.
type Artist struct {
	ID      store.ArtistID
	Name    string
	URL     string
	Forward []Edge
	Reverse []Edge
}

// Compile writes forward.graph, reverse.graph, and meta.bin into dir,
// creating it if necessary. artists need not be sorted or have
// similarity-ordered adjacency lists; Compile normalizes both.
func Compile(dir string, artists []Artist) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return store.NewIOFailure("mkdir "+dir, err)
	}

	sorted := make([]Artist, len(artists))
	copy(sorted, artists)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID.Less(sorted[j].ID) })
	for i := range sorted {
		sortDescending(sorted[i].Forward)
		sortDescending(sorted[i].Reverse)
	}

	forwardOffsets, err := writeGraphFile(filepath.Join(dir, store.ForwardFileName), sorted, func(a Artist) []Edge { return a.Forward })
	if err != nil {
		return err
	}
	reverseOffsets, err := writeGraphFile(filepath.Join(dir, store.ReverseFileName), sorted, func(a Artist) []Edge { return a.Reverse })
	if err != nil {
		return err
	}

	return writeMetaFile(filepath.Join(dir, store.MetaFileName), sorted, forwardOffsets, reverseOffsets)
}

// sortDescending orders edges by similarity descending, breaking ties by
// neighbor id so the output is deterministic across compiles of the same
// input (§8 "Determinism").
func sortDescending(edges []Edge) {
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Similarity != edges[j].Similarity {
			return edges[i].Similarity > edges[j].Similarity
		}
		return edges[i].Neighbor.Less(edges[j].Neighbor)
	})
}

func writeGraphFile(path string, artists []Artist, pick func(Artist) []Edge) ([]uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, store.NewIOFailure("create "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)
	offsets := make([]uint64, len(artists))
	var cursor uint64

	var countBuf [store.AdjacencyCountSize]byte
	var entryBuf [store.AdjacencyEntrySize]byte
	for i, a := range artists {
		offsets[i] = cursor
		edges := pick(a)

		binary.LittleEndian.PutUint32(countBuf[:], uint32(len(edges)))
		if _, err := w.Write(countBuf[:]); err != nil {
			return nil, store.NewIOFailure("write "+path, err)
		}
		cursor += store.AdjacencyCountSize

		for _, e := range edges {
			if e.Similarity < 0 || e.Similarity > 1 || math.IsNaN(float64(e.Similarity)) {
				return nil, fmt.Errorf("compiler: artist %s: similarity %v out of [0,1]", a.ID, e.Similarity)
			}
			copy(entryBuf[0:store.IDSize], e.Neighbor[:])
			binary.LittleEndian.PutUint32(entryBuf[store.IDSize:], math.Float32bits(e.Similarity))
			if _, err := w.Write(entryBuf[:]); err != nil {
				return nil, store.NewIOFailure("write "+path, err)
			}
			cursor += store.AdjacencyEntrySize
		}
	}
	if err := w.Flush(); err != nil {
		return nil, store.NewIOFailure("flush "+path, err)
	}

	return offsets, nil
}

func writeMetaFile(path string, artists []Artist, forwardOffsets, reverseOffsets []uint64) error {
	f, err := os.Create(path)
	if err != nil {
		return store.NewIOFailure("create "+path, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, 1<<20)

	var header [store.HeaderSize]byte
	copy(header[0:store.MagicSize], store.Magic[:])
	binary.LittleEndian.PutUint32(header[store.MagicSize:], store.FormatVersion)
	binary.LittleEndian.PutUint32(header[store.MagicSize+4:], uint32(len(artists)))
	if _, err := w.Write(header[:]); err != nil {
		return store.NewIOFailure("write "+path, err)
	}

	var arena []byte
	records := make([]store.Record, len(artists))
	for i, a := range artists {
		nameOff := uint32(len(arena))
		arena = append(arena, a.Name...)
		urlOff := uint32(len(arena))
		arena = append(arena, a.URL...)

		records[i] = store.Record{
			ID:            a.ID,
			ForwardOffset: forwardOffsets[i],
			ReverseOffset: reverseOffsets[i],
			NameOffset:    nameOff,
			NameLength:    uint16(len(a.Name)),
			URLOffset:     urlOff,
			URLLength:     uint16(len(a.URL)),
		}
	}

	var recBuf [store.RecordSize]byte
	for _, r := range records {
		store.EncodeRecord(recBuf[:], r)
		if _, err := w.Write(recBuf[:]); err != nil {
			return store.NewIOFailure("write "+path, err)
		}
	}
	if _, err := w.Write(arena); err != nil {
		return store.NewIOFailure("write "+path, err)
	}

	return w.Flush()
}
