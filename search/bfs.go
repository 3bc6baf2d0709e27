package search

import (
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/kvarro/artigraph/store"
)

// BFSPointToPoint performs bidirectional BFS from source to target,
// alternating a full layer of expansion between the two sides each round
// (source side first), splicing the two halves at the first node discovered
// that the opposite side has already visited (§4.3.1 "Point-to-point",
// §4.3.3 "Meeting node").
func BFSPointToPoint(r *store.Reader, from, to store.ArtistID, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	sourceIdx, ok := r.IndexOf(from)
	if !ok {
		return nil, store.NewUnknownArtist("unknown source artist " + from.String())
	}
	targetIdx, ok := r.IndexOf(to)
	if !ok {
		return nil, store.NewUnknownArtist("unknown target artist " + to.String())
	}

	res := &Result{
		Algo: BFS, Mode: PointToPoint,
		Visited: roaring.New(),
		Source:  sourceIdx, Target: targetIdx,
	}

	if sourceIdx == targetIdx {
		res.Found = true
		res.Meeting = sourceIdx
		res.ParentFwd = map[uint32]uint32{sourceIdx: noParent}
		res.Visited.Add(sourceIdx)
		res.Stats = Stats{Duration: time.Since(start), Visited: 1}
		return res, nil
	}

	parentA := map[uint32]uint32{sourceIdx: noParent}
	parentB := map[uint32]uint32{targetIdx: noParent}
	frontierA := []uint32{sourceIdx}
	frontierB := []uint32{targetIdx}
	visited := roaring.New()
	visited.Add(sourceIdx)
	visited.Add(targetIdx)
	edgesConsidered := 0
	meeting := uint32(0)
	found := false
	expandA := true // source side takes the first turn

	for len(frontierA) > 0 && len(frontierB) > 0 && !found {
		if err := checkLiveness(opts, int(visited.GetCardinality())); err != nil {
			return nil, err
		}

		var curFrontier *[]uint32
		var curParent, otherParent map[uint32]uint32
		var dir store.Direction
		if expandA {
			curFrontier, curParent, otherParent, dir = &frontierA, parentA, parentB, store.Forward
		} else {
			curFrontier, curParent, otherParent, dir = &frontierB, parentB, parentA, store.Reverse
		}

		next := make([]uint32, 0, len(*curFrontier))
		for _, u := range *curFrontier {
			if found {
				break
			}
			it, err := r.NeighborsByIndex(u, dir, opts.MinSimilarity, opts.MaxRelations)
			if err != nil {
				return nil, asStoreError(err)
			}
			for {
				nb, _, ok := it.Next()
				if !ok {
					break
				}
				edgesConsidered++
				nbIdx, ok := r.IndexOf(nb)
				if !ok {
					return nil, store.NewCorruptStore("adjacency references unknown artist "+nb.String(), nil)
				}
				if _, already := curParent[nbIdx]; already {
					continue
				}
				curParent[nbIdx] = u
				if _, onOtherSide := otherParent[nbIdx]; onOtherSide {
					meeting = nbIdx
					found = true
					break
				}
				if !visited.Contains(nbIdx) {
					visited.Add(nbIdx)
					if err := checkLiveness(opts, int(visited.GetCardinality())); err != nil {
						return nil, err
					}
				}
				next = append(next, nbIdx)
			}
		}
		*curFrontier = next
		expandA = !expandA
	}

	res.Visited = visited
	res.Stats = Stats{Duration: time.Since(start), Visited: int(visited.GetCardinality()), EdgesConsidered: edgesConsidered}
	res.ParentFwd = parentA
	res.ParentRev = parentB
	if found {
		res.Found = true
		res.Meeting = meeting
	}

	return res, nil
}

// BFSExplore performs single-source bounded BFS on the graph in direction
// dir, stopping when the visited set reaches Budget, and records each
// node's BFS layer for presentation (§4.3.1 "Single-source bounded").
func BFSExplore(r *store.Reader, source store.ArtistID, dir store.Direction, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	sourceIdx, ok := r.IndexOf(source)
	if !ok {
		return nil, store.NewUnknownArtist("unknown artist " + source.String())
	}

	visited := roaring.New()
	visited.Add(sourceIdx)
	parent := map[uint32]uint32{sourceIdx: noParent}
	layer := map[uint32]int{sourceIdx: 0}
	frontier := []uint32{sourceIdx}
	edgesConsidered := 0

	for len(frontier) > 0 {
		if err := checkLiveness(opts, int(visited.GetCardinality())); err != nil {
			return nil, err
		}
		if int(visited.GetCardinality()) >= opts.Budget {
			break
		}

		next := make([]uint32, 0, len(frontier))
		for _, u := range frontier {
			if int(visited.GetCardinality()) >= opts.Budget {
				break
			}
			it, err := r.NeighborsByIndex(u, dir, opts.MinSimilarity, opts.MaxRelations)
			if err != nil {
				return nil, asStoreError(err)
			}
			for {
				nb, _, ok := it.Next()
				if !ok {
					break
				}
				edgesConsidered++
				nbIdx, ok := r.IndexOf(nb)
				if !ok {
					return nil, store.NewCorruptStore("adjacency references unknown artist "+nb.String(), nil)
				}
				if visited.Contains(nbIdx) {
					continue
				}
				if int(visited.GetCardinality()) >= opts.Budget {
					break
				}
				visited.Add(nbIdx)
				parent[nbIdx] = u
				layer[nbIdx] = layer[u] + 1
				next = append(next, nbIdx)
			}
		}
		frontier = next
	}

	return &Result{
		Algo: BFS, Mode: Exploration,
		Visited:   visited,
		ParentFwd: parent,
		Layer:     layer,
		Source:    sourceIdx,
		Stats:     Stats{Duration: time.Since(start), Visited: int(visited.GetCardinality()), EdgesConsidered: edgesConsidered},
	}, nil
}

// checkLiveness enforces the budget, deadline, and cancellation checks that
// apply at every node pop (§4.3 "budget", §5 "Cancellation and timeouts").
func checkLiveness(opts Options, visited int) error {
	select {
	case <-opts.ctx().Done():
		return store.NewCancelled("search cancelled", visited)
	default:
	}
	if opts.deadlineExceeded() {
		return store.NewCancelled("deadline exceeded", visited)
	}
	if visited > opts.Budget {
		return store.NewBudgetExceeded("visit budget exhausted", visited)
	}
	return nil
}

func asStoreError(err error) error {
	if _, ok := err.(*store.Error); ok {
		return err
	}
	return store.NewIOFailure("search", err)
}
