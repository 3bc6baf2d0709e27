package search_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvarro/artigraph/compiler"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

// sixArtistGraph builds the spec's canonical A..F fixture:
//
//	A→B(0.9), A→C(0.4), B→D(0.8), C→D(0.5), D→E(0.9), E→F(0.1), F→A(0.2)
func sixArtistGraph(t *testing.T) (*store.Reader, map[string]store.ArtistID) {
	t.Helper()
	names := []string{"A", "B", "C", "D", "E", "F"}
	ids := make(map[string]store.ArtistID, len(names))
	for i, n := range names {
		var id store.ArtistID
		id[0] = byte(i + 1)
		ids[n] = id
	}

	type fwdEdge struct {
		from, to string
		sim      float32
	}
	edges := []fwdEdge{
		{"A", "B", 0.9},
		{"A", "C", 0.4},
		{"B", "D", 0.8},
		{"C", "D", 0.5},
		{"D", "E", 0.9},
		{"E", "F", 0.1},
		{"F", "A", 0.2},
	}
	forward := map[string][]compiler.Edge{}
	reverse := map[string][]compiler.Edge{}
	for _, e := range edges {
		forward[e.from] = append(forward[e.from], compiler.Edge{Neighbor: ids[e.to], Similarity: e.sim})
		reverse[e.to] = append(reverse[e.to], compiler.Edge{Neighbor: ids[e.from], Similarity: e.sim})
	}

	artists := make([]compiler.Artist, 0, len(names))
	for _, n := range names {
		artists = append(artists, compiler.Artist{
			ID: ids[n], Name: n, URL: "https://example.invalid/" + n,
			Forward: forward[n], Reverse: reverse[n],
		})
	}

	dir := t.TempDir()
	require.NoError(t, compiler.Compile(dir, artists))
	r, err := store.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r, ids
}

func defaultOpts() search.Options {
	return search.Options{MinSimilarity: 0, MaxRelations: 10, Budget: 10}
}

func path(t *testing.T, r *store.Reader, res *search.Result) []string {
	t.Helper()
	require.True(t, res.Found)

	var fwd []uint32
	for i := res.Meeting; ; {
		fwd = append(fwd, i)
		p, ok := res.ParentFwd[i]
		if !ok || p == ^uint32(0) {
			break
		}
		i = p
	}
	for i, j := 0, len(fwd)-1; i < j; i, j = i+1, j-1 {
		fwd[i], fwd[j] = fwd[j], fwd[i]
	}

	var rev []uint32
	if res.ParentRev != nil {
		for i := res.ParentRev[res.Meeting]; ; {
			if i == ^uint32(0) {
				break
			}
			rev = append(rev, i)
			p, ok := res.ParentRev[i]
			if !ok || p == ^uint32(0) {
				break
			}
			i = p
		}
	}

	all := append(fwd, rev...)
	names := make([]string, len(all))
	for i, idx := range all {
		names[i] = r.Name(idx)
	}
	return names
}

func TestBFSPointToPoint_ShortestHopPath(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.BFSPointToPoint(r, ids["A"], ids["E"], defaultOpts())
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, []string{"A", "B", "D", "E"}, path(t, r, res))
	require.Equal(t, 4, res.Stats.Visited)
}

func TestBFSPointToPoint_SameSourceAndTarget(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.BFSPointToPoint(r, ids["A"], ids["A"], defaultOpts())
	require.NoError(t, err)
	require.True(t, res.Found)
	require.Equal(t, res.Source, res.Meeting)
	require.Equal(t, 1, res.Stats.Visited)
}

func TestBFSPointToPoint_NoPathUnderThreshold(t *testing.T) {
	r, ids := sixArtistGraph(t)

	opts := defaultOpts()
	opts.MinSimilarity = 0.5
	res, err := search.BFSPointToPoint(r, ids["A"], ids["F"], opts)
	require.NoError(t, err)
	require.False(t, res.Found)
}

func TestBFSPointToPoint_UnknownTarget(t *testing.T) {
	r, ids := sixArtistGraph(t)

	var unknown store.ArtistID
	unknown[0] = 0xEE
	_, err := search.BFSPointToPoint(r, ids["A"], unknown, defaultOpts())
	require.Error(t, err)
	var serr *store.Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, store.KindUnknownArtist, serr.Kind)
}

func TestBFSExplore_BudgetStopsAtFirstLayer(t *testing.T) {
	r, ids := sixArtistGraph(t)

	opts := defaultOpts()
	opts.Budget = 3
	res, err := search.BFSExplore(r, ids["A"], store.Forward, opts)
	require.NoError(t, err)
	require.Equal(t, 3, int(res.Visited.GetCardinality()))

	got := make(map[string]bool)
	it := res.Visited.Iterator()
	for it.HasNext() {
		got[r.Name(it.Next())] = true
	}
	require.True(t, got["A"] && got["B"] && got["C"])
}

func TestBFSExplore_LayersIncreaseWithHops(t *testing.T) {
	r, ids := sixArtistGraph(t)

	res, err := search.BFSExplore(r, ids["A"], store.Forward, defaultOpts())
	require.NoError(t, err)
	aIdx, _ := r.IndexOf(ids["A"])
	bIdx, _ := r.IndexOf(ids["B"])
	dIdx, _ := r.IndexOf(ids["D"])
	require.Equal(t, 0, res.Layer[aIdx])
	require.Equal(t, 1, res.Layer[bIdx])
	require.Equal(t, 2, res.Layer[dIdx])
}
