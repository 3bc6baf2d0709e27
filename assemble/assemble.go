// Package assemble turns a raw search.Result into the response shapes the
// engine returns to its callers: a hop-ordered path, the induced subgraph of
// visited nodes and qualifying edges, and display-ready names/URLs (§4.3.3
// "Result assembly").
package assemble

import (
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

// Node is a visited artist enriched with its display name and URL.
type Node struct {
	ID   store.ArtistID
	Name string
	URL  string
}

// Edge is one displayed relation between two visited nodes.
type Edge struct {
	From, To   store.ArtistID
	Similarity float32
}

// Subgraph is the induced subgraph over a search's visited set (§4.3.3
// steps 2-4): every visited node, enriched, and every qualifying edge
// between two visited nodes.
type Subgraph struct {
	Nodes []Node
	Edges []Edge
}

// Path reconstructs the hop-ordered node list for a point-to-point result.
// It reports (nil, false) if res.Found is false. For BFS it walks
// predecessors from the meeting node back to the source, and from the
// meeting node forward to the target via the reverse side's predecessor
// chain (§4.3.3 step 1); for Dijkstra there is only one predecessor chain,
// walked back from the target.
func Path(r *store.Reader, res *search.Result) ([]Node, bool) {
	if !res.Found {
		return nil, false
	}

	var indices []uint32
	if res.ParentRev != nil {
		// Bidirectional: source -> meeting (via ParentFwd, reversed) then
		// meeting -> target (via ParentRev, walked forward).
		var sourceSide []uint32
		for i := res.Meeting; ; {
			sourceSide = append(sourceSide, i)
			p, ok := res.ParentFwd[i]
			if !ok || p == noParent {
				break
			}
			i = p
		}
		for i, j := 0, len(sourceSide)-1; i < j; i, j = i+1, j-1 {
			sourceSide[i], sourceSide[j] = sourceSide[j], sourceSide[i]
		}

		var targetSide []uint32
		for i := res.ParentRev[res.Meeting]; i != noParent; {
			targetSide = append(targetSide, i)
			p, ok := res.ParentRev[i]
			if !ok {
				break
			}
			i = p
		}

		indices = append(sourceSide, targetSide...)
	} else {
		// Single direction: walk back from the target via ParentFwd.
		var rev []uint32
		for i := res.Target; ; {
			rev = append(rev, i)
			p := res.ParentFwd[i]
			if p == noParent {
				break
			}
			i = p
		}
		indices = make([]uint32, len(rev))
		for i, idx := range rev {
			indices[len(rev)-1-i] = idx
		}
	}

	nodes := make([]Node, len(indices))
	for i, idx := range indices {
		nodes[i] = nodeAt(r, idx)
	}
	return nodes, true
}

// noParent mirrors search's sentinel; duplicated here since search does not
// export it and a predecessor chain must recognize the root.
const noParent = ^uint32(0)

// Nodes enriches every visited record index with its display name and URL.
func Nodes(r *store.Reader, res *search.Result) []Node {
	out := make([]Node, 0, res.Visited.GetCardinality())
	it := res.Visited.Iterator()
	for it.HasNext() {
		out = append(out, nodeAt(r, it.Next()))
	}
	return out
}

// Edges enumerates every edge (u, v, w) with both endpoints visited, w at
// or above minSimilarity, and w among the top maxRelations neighbors of u
// (§4.3.3 step 3). It reuses the same floor and cap the search ran with, so
// the reader iterator itself enforces the "top maxRelations out of u" rule.
func Edges(r *store.Reader, res *search.Result, minSimilarity float32, maxRelations int) ([]Edge, error) {
	visited := res.Visited
	var out []Edge

	it := visited.Iterator()
	for it.HasNext() {
		u := it.Next()
		nit, err := r.NeighborsByIndex(u, store.Forward, minSimilarity, maxRelations)
		if err != nil {
			return nil, err
		}
		uRec := r.RecordAt(u)
		for {
			nb, sim, ok := nit.Next()
			if !ok {
				break
			}
			vIdx, ok := r.IndexOf(nb)
			if !ok || !visited.Contains(vIdx) {
				continue
			}
			out = append(out, Edge{From: uRec.ID, To: nb, Similarity: sim})
		}
	}
	return out, nil
}

// Build assembles the full subgraph (nodes and qualifying edges) for a
// search result, as used by explore_forward/explore_reverse and as the
// context around a found path.
func Build(r *store.Reader, res *search.Result, minSimilarity float32, maxRelations int) (Subgraph, error) {
	edges, err := Edges(r, res, minSimilarity, maxRelations)
	if err != nil {
		return Subgraph{}, err
	}
	return Subgraph{Nodes: Nodes(r, res), Edges: edges}, nil
}

func nodeAt(r *store.Reader, idx uint32) Node {
	rec := r.RecordAt(idx)
	return Node{ID: rec.ID, Name: r.Name(idx), URL: r.URL(idx)}
}
