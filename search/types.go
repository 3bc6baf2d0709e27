// Package search implements the two traversal algorithms over a
// store.Reader — unweighted breadth-first search and weighted
// Dijkstra-style relaxation — each in point-to-point and single-source
// bounded (exploration) modes (§4.3).
//
// Algorithm and Mode are tagged choices, not an interface hierarchy
// (§9 "Variant dispatch, not subtyping"): callers pick one of each and the
// four resulting functions share a common Options and Result shape.
package search

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/kvarro/artigraph/store"
)

// Algorithm selects the traversal rule.
type Algorithm uint8

const (
	// BFS is the unweighted shortest-hop-count algorithm (§4.3.1).
	BFS Algorithm = iota
	// Weighted is the -log(similarity) cost Dijkstra-style algorithm (§4.3.2).
	Weighted
)

// Mode selects point-to-point pathfinding or single-source exploration.
type Mode uint8

const (
	// PointToPoint finds a path between two named endpoints.
	PointToPoint Mode = iota
	// Exploration bounds a neighborhood around a single source.
	Exploration
)

// noParent is the sentinel record index meaning "no predecessor", used in
// ParentFwd/ParentRev. A real record index can never equal this value
// because roaring bitmaps and the metadata table are capped well below it.
const noParent = ^uint32(0)

// Options bounds and configures a single search invocation (§4.3 "Parameters
// common to all invocations", §5 "Cancellation and timeouts").
type Options struct {
	// MinSimilarity floors every edge considered; must be in [0, 1].
	MinSimilarity float32
	// MaxRelations caps fan-out per node; must be in [1, 250].
	MaxRelations int
	// Budget caps the number of distinct artists visited (BFS) or popped
	// (Dijkstra); must be > 0.
	Budget int
	// Deadline, if non-zero, is a wall-clock cap checked at every node pop.
	Deadline time.Time
	// Ctx carries cooperative cancellation, checked at every node pop.
	Ctx context.Context
}

// Validate rejects out-of-range parameters before any I/O (§4.5
// "Invalid parameters ... rejected before any I/O with InvalidArgument").
func (o Options) Validate() error {
	if o.MinSimilarity < 0 || o.MinSimilarity > 1 {
		return store.NewInvalidArgument("min_similarity must be in [0, 1]")
	}
	if o.MaxRelations < 1 || o.MaxRelations > 250 {
		return store.NewInvalidArgument("max_relations must be in [1, 250]")
	}
	if o.Budget <= 0 {
		return store.NewInvalidArgument("budget must be > 0")
	}
	return nil
}

func (o Options) deadlineExceeded() bool {
	return !o.Deadline.IsZero() && time.Now().After(o.Deadline)
}

func (o Options) ctx() context.Context {
	if o.Ctx != nil {
		return o.Ctx
	}
	return context.Background()
}

// Stats reports timing and visit counters for the engine's stats surface
// (§6.3 "stats").
type Stats struct {
	Duration        time.Duration
	Visited         int
	EdgesConsidered int
}

// Result is the shared outcome shape of all four search entry points. Which
// fields are populated depends on Mode: point-to-point results carry
// ParentFwd/ParentRev/Meeting/Found; exploration results carry only
// ParentFwd (predecessors within the single frontier) plus Layer or Cost.
type Result struct {
	Algo Algorithm
	Mode Mode

	// Visited is the set of dense record indices the search touched,
	// used both for budget accounting and as the node set of the
	// resulting subgraph (§4.3.3).
	Visited *roaring.Bitmap

	// ParentFwd maps a visited record index to its predecessor on the
	// source side (exploration: its only predecessor in the search tree).
	ParentFwd map[uint32]uint32
	// ParentRev maps a visited record index to its predecessor on the
	// target side; populated only for bidirectional BFS point-to-point.
	ParentRev map[uint32]uint32
	// Meeting is the record index where the two BFS halves were spliced;
	// valid only when Found is true and Mode is PointToPoint with BFS.
	Meeting uint32
	// Found reports whether point-to-point search reached the target.
	Found bool
	// Source/Target are the endpoints' record indices (PointToPoint only).
	Source, Target uint32

	// Layer records each visited node's BFS hop distance from the source,
	// for presentation (§4.3.1 "single-source bounded").
	Layer map[uint32]int
	// Cost records each visited node's finalized -log(similarity) cost
	// from the source, for presentation (§4.3.2 "single-source bounded").
	Cost map[uint32]float64

	Stats Stats
}
