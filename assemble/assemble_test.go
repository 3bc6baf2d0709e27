package assemble_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvarro/artigraph/assemble"
	"github.com/kvarro/artigraph/compiler"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

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
		{"A", "B", 0.9}, {"A", "C", 0.4}, {"B", "D", 0.8},
		{"C", "D", 0.5}, {"D", "E", 0.9}, {"E", "F", 0.1}, {"F", "A", 0.2},
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

func TestPath_BFSBidirectional(t *testing.T) {
	r, ids := sixArtistGraph(t)
	res, err := search.BFSPointToPoint(r, ids["A"], ids["E"], search.Options{MinSimilarity: 0, MaxRelations: 10, Budget: 10})
	require.NoError(t, err)

	nodes, found := assemble.Path(r, res)
	require.True(t, found)
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	require.Equal(t, []string{"A", "B", "D", "E"}, names)
}

func TestPath_DijkstraSingleDirection(t *testing.T) {
	r, ids := sixArtistGraph(t)
	res, err := search.DijkstraPointToPoint(r, ids["A"], ids["E"], search.Options{MinSimilarity: 0, MaxRelations: 10, Budget: 10})
	require.NoError(t, err)

	nodes, found := assemble.Path(r, res)
	require.True(t, found)
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name
	}
	require.Equal(t, []string{"A", "B", "D", "E"}, names)
}

func TestPath_NotFound(t *testing.T) {
	r, ids := sixArtistGraph(t)
	res, err := search.BFSPointToPoint(r, ids["A"], ids["F"], search.Options{MinSimilarity: 0.5, MaxRelations: 10, Budget: 10})
	require.NoError(t, err)

	_, found := assemble.Path(r, res)
	require.False(t, found)
}

func TestBuild_ExploreSubgraphEdgesAmongVisited(t *testing.T) {
	r, ids := sixArtistGraph(t)
	res, err := search.BFSExplore(r, ids["A"], store.Forward, search.Options{MinSimilarity: 0, MaxRelations: 10, Budget: 3})
	require.NoError(t, err)

	sg, err := assemble.Build(r, res, 0, 10)
	require.NoError(t, err)
	require.Len(t, sg.Nodes, 3)

	names := map[string]bool{}
	for _, n := range sg.Nodes {
		names[n.Name] = true
	}
	require.True(t, names["A"] && names["B"] && names["C"])

	var sawAB bool
	for _, e := range sg.Edges {
		if r.Name(mustIdx(t, r, e.From)) == "A" && r.Name(mustIdx(t, r, e.To)) == "B" {
			sawAB = true
		}
	}
	require.True(t, sawAB)
}

func mustIdx(t *testing.T, r *store.Reader, id store.ArtistID) uint32 {
	t.Helper()
	i, ok := r.IndexOf(id)
	require.True(t, ok)
	return i
}
