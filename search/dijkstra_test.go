package search_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

func TestDijkstraPointToPoint_CheapestPath(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.DijkstraPointToPoint(r, ids["A"], ids["E"], defaultOpts())
	require.NoError(t, err)
	require.True(t, res.Found)

	wantCost := -math.Log(0.9) - math.Log(0.8) - math.Log(0.9)
	require.InDelta(t, wantCost, res.Cost[res.Target], 1e-9)

	// Reconstruct the path from ParentFwd; it must be A, B, D, E — the same
	// path BFS finds here, since it also happens to be fewest-hop.
	var rev []string
	for i := res.Target; ; {
		rev = append(rev, r.Name(i))
		p := res.ParentFwd[i]
		if p == ^uint32(0) {
			break
		}
		i = p
	}
	chain := make([]string, len(rev))
	for i, n := range rev {
		chain[len(rev)-1-i] = n
	}
	require.Equal(t, []string{"A", "B", "D", "E"}, chain)
}

func TestDijkstraPointToPoint_SameSourceAndTarget(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.DijkstraPointToPoint(r, ids["A"], ids["A"], defaultOpts())
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, float64(0), res.Cost[res.Source])
}

func TestDijkstraPointToPoint_UnknownSource(t *testing.T) {
	r, ids := sixArtistGraph(t)

	var unknown store.ArtistID
	unknown[0] = 0xEE
	_, err := search.DijkstraPointToPoint(r, unknown, ids["E"], defaultOpts())
	require.Error(t, err)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, store.KindUnknownArtist, serr.Kind)
}

func TestDijkstraExplore_CostsIncreaseMonotonically(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.DijkstraExplore(r, ids["A"], store.Forward, defaultOpts())
	require.NoError(t, err)

	aIdx, _ := r.IndexOf(ids["A"])
	bIdx, _ := r.IndexOf(ids["B"])
	cIdx, _ := r.IndexOf(ids["C"])
	require.Equal(t, float64(0), res.Cost[aIdx])
	require.Less(t, res.Cost[bIdx], res.Cost[cIdx]) // 0.9 similarity cheaper than 0.4
}

func TestDijkstraExplore_BudgetCapsFinalizedCount(t *testing.T) {
	r, ids := sixArtistGraph(t)

	opts := defaultOpts()
	opts.Budget = 2
	res, err := search.DijkstraExplore(r, ids["A"], store.Forward, opts)
	require.NoError(t, err)
	require.Equal(t, 2, int(res.Visited.GetCardinality()))
}
