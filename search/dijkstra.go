package search

import (
	"container/heap"
	"math"
	"time"

	"github.com/RoaringBitmap/roaring"

	"github.com/kvarro/artigraph/store"
)

// edgeCost converts a similarity in (0, 1] to a non-negative additive cost,
// so that the cheapest path is the most-similar path (§4.3.2 "Weighted").
// A similarity of exactly 1 costs 0; similarity must be strictly positive,
// since -log(0) is infinite, so callers skip zero-similarity edges first.
func edgeCost(similarity float32) float64 {
	return -math.Log(float64(similarity))
}

// pqItem is one entry in the Dijkstra frontier. index doubles as the
// lexicographic tie-break proxy: the metadata table is sorted by artist ID,
// so comparing dense record indices is equivalent to comparing IDs.
type pqItem struct {
	index uint32
	cost  float64
	hops  int
}

// nodePQ is a lazy-deletion binary min-heap (§9, mirroring the teacher's
// dijkstra priority queue): stale entries left behind by a decrease-key are
// simply skipped on pop via the caller's "finalized" check, rather than
// located and fixed in place.
type nodePQ []pqItem

func (pq nodePQ) Len() int { return len(pq) }
func (pq nodePQ) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	if pq[i].hops != pq[j].hops {
		return pq[i].hops < pq[j].hops
	}
	return pq[i].index < pq[j].index
}
func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *nodePQ) Push(x any)   { *pq = append(*pq, x.(pqItem)) }
func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// DijkstraPointToPoint runs single-directional Dijkstra relaxation from
// source, terminating as soon as target is popped — at which point its cost
// is final, since costs are non-negative (§4.3.2 "Weighted", "Point-to-point").
func DijkstraPointToPoint(r *store.Reader, from, to store.ArtistID, opts Options) (*Result, error) {
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
		Algo: Weighted, Mode: PointToPoint,
		Source: sourceIdx, Target: targetIdx,
	}

	if sourceIdx == targetIdx {
		res.Found = true
		res.Meeting = sourceIdx
		res.ParentFwd = map[uint32]uint32{sourceIdx: noParent}
		res.Visited = roaring.New()
		res.Visited.Add(sourceIdx)
		res.Cost = map[uint32]float64{sourceIdx: 0}
		res.Stats = Stats{Duration: time.Since(start), Visited: 1}
		return res, nil
	}

	finalized := roaring.New()
	parent := map[uint32]uint32{sourceIdx: noParent}
	cost := map[uint32]float64{sourceIdx: 0}
	hops := map[uint32]int{sourceIdx: 0}

	pq := &nodePQ{{index: sourceIdx, cost: 0, hops: 0}}
	heap.Init(pq)

	edgesConsidered := 0
	found := false

	for pq.Len() > 0 {
		u := heap.Pop(pq).(pqItem)
		if finalized.Contains(u.index) {
			continue
		}
		if u.cost > cost[u.index] || (u.cost == cost[u.index] && u.hops > hops[u.index]) {
			continue // stale entry superseded by a cheaper decrease-key
		}
		finalized.Add(u.index)

		if err := checkLiveness(opts, int(finalized.GetCardinality())); err != nil {
			return nil, err
		}

		if u.index == targetIdx {
			found = true
			break
		}

		it, err := r.NeighborsByIndex(u.index, store.Forward, opts.MinSimilarity, opts.MaxRelations)
		if err != nil {
			return nil, asStoreError(err)
		}
		for {
			nb, sim, ok := it.Next()
			if !ok {
				break
			}
			edgesConsidered++
			if sim <= 0 {
				continue // a zero-floor edge carries infinite cost; never traversable
			}
			nbIdx, ok := r.IndexOf(nb)
			if !ok {
				return nil, store.NewCorruptStore("adjacency references unknown artist "+nb.String(), nil)
			}
			if finalized.Contains(nbIdx) {
				continue
			}
			c := u.cost + edgeCost(sim)
			h := u.hops + 1
			old, seen := cost[nbIdx]
			if !seen || c < old || (c == old && h < hops[nbIdx]) {
				cost[nbIdx] = c
				hops[nbIdx] = h
				parent[nbIdx] = u.index
				heap.Push(pq, pqItem{index: nbIdx, cost: c, hops: h})
			}
		}
	}

	res.Visited = finalized
	res.ParentFwd = parent
	res.Cost = cost
	res.Found = found
	if found {
		res.Meeting = targetIdx
	}
	res.Stats = Stats{Duration: time.Since(start), Visited: int(finalized.GetCardinality()), EdgesConsidered: edgesConsidered}
	return res, nil
}

// DijkstraExplore runs single-source Dijkstra relaxation in direction dir
// until Budget distinct nodes have been finalized, recording each node's
// finalized cost for presentation (§4.3.2 "Single-source bounded").
func DijkstraExplore(r *store.Reader, source store.ArtistID, dir store.Direction, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	sourceIdx, ok := r.IndexOf(source)
	if !ok {
		return nil, store.NewUnknownArtist("unknown artist " + source.String())
	}

	finalized := roaring.New()
	parent := map[uint32]uint32{sourceIdx: noParent}
	cost := map[uint32]float64{sourceIdx: 0}
	hops := map[uint32]int{sourceIdx: 0}

	pq := &nodePQ{{index: sourceIdx, cost: 0, hops: 0}}
	heap.Init(pq)

	edgesConsidered := 0

	for pq.Len() > 0 && int(finalized.GetCardinality()) < opts.Budget {
		u := heap.Pop(pq).(pqItem)
		if finalized.Contains(u.index) {
			continue
		}
		if u.cost > cost[u.index] || (u.cost == cost[u.index] && u.hops > hops[u.index]) {
			continue
		}
		finalized.Add(u.index)

		if err := checkLiveness(opts, int(finalized.GetCardinality())); err != nil {
			return nil, err
		}

		it, err := r.NeighborsByIndex(u.index, dir, opts.MinSimilarity, opts.MaxRelations)
		if err != nil {
			return nil, asStoreError(err)
		}
		for {
			nb, sim, ok := it.Next()
			if !ok {
				break
			}
			edgesConsidered++
			if sim <= 0 {
				continue
			}
			nbIdx, ok := r.IndexOf(nb)
			if !ok {
				return nil, store.NewCorruptStore("adjacency references unknown artist "+nb.String(), nil)
			}
			if finalized.Contains(nbIdx) {
				continue
			}
			c := u.cost + edgeCost(sim)
			h := u.hops + 1
			old, seen := cost[nbIdx]
			if !seen || c < old || (c == old && h < hops[nbIdx]) {
				cost[nbIdx] = c
				hops[nbIdx] = h
				parent[nbIdx] = u.index
				heap.Push(pq, pqItem{index: nbIdx, cost: c, hops: h})
			}
		}
	}

	return &Result{
		Algo: Weighted, Mode: Exploration,
		Visited:   finalized,
		ParentFwd: parent,
		Cost:      cost,
		Source:    sourceIdx,
		Stats:     Stats{Duration: time.Since(start), Visited: int(finalized.GetCardinality()), EdgesConsidered: edgesConsidered},
	}, nil
}
