package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kvarro/artigraph/assemble"
	"github.com/kvarro/artigraph/compiler"
	"github.com/kvarro/artigraph/config"
	"github.com/kvarro/artigraph/engine"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

// buildSixArtistEngine compiles the specification's canonical A..F fixture
// once and opens an Engine over it:
//
//	A→B(0.9), A→C(0.4), B→D(0.8), C→D(0.5), D→E(0.9), E→F(0.1), F→A(0.2)
func buildSixArtistEngine(t *testing.T) (*engine.Engine, map[string]store.ArtistID) {
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

	cfg := config.Default()
	cfg.DataDir = dir
	e, err := engine.Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e, ids
}

func floatPtr(f float32) *float32 { return &f }
func intPtr(i int) *int           { return &i }

func pathNames(path []assemble.Node) []string {
	out := make([]string, len(path))
	for i, n := range path {
		out[i] = n.Name
	}
	return out
}

// TestEngine_SixArtistFixtureScenarios runs the specification's six
// concrete scenarios against a single compiled fixture.
func TestEngine_SixArtistFixtureScenarios(t *testing.T) {
	e, ids := buildSixArtistEngine(t)
	ctx := context.Background()

	t.Run("scenario 1: BFS path A to E", func(t *testing.T) {
		res, err := e.FindPath(ctx, ids["A"], ids["E"], engine.Query{
			MinSimilarity: floatPtr(0), MaxRelations: intPtr(10), Budget: intPtr(10),
			Algorithm: search.BFS,
		})
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, []string{"A", "B", "D", "E"}, pathNames(res.Path))
		// 4 on the source side (A, B, C, D) plus the target E: Stats.Visited
		// counts the union of both sides.
		require.Equal(t, 5, res.Stats.Visited)
	})

	t.Run("scenario 2: weighted path A to E", func(t *testing.T) {
		res, err := e.FindPath(ctx, ids["A"], ids["E"], engine.Query{
			MinSimilarity: floatPtr(0), MaxRelations: intPtr(10), Budget: intPtr(10),
			Algorithm: search.Weighted,
		})
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, []string{"A", "B", "D", "E"}, pathNames(res.Path))
	})

	t.Run("scenario 3: no path under threshold", func(t *testing.T) {
		res, err := e.FindPath(ctx, ids["A"], ids["F"], engine.Query{
			MinSimilarity: floatPtr(0.5), MaxRelations: intPtr(10), Budget: intPtr(10),
			Algorithm: search.BFS,
		})
		require.NoError(t, err)
		require.False(t, res.Found)
	})

	t.Run("scenario 4: same source and target", func(t *testing.T) {
		res, err := e.FindPath(ctx, ids["A"], ids["A"], engine.Query{
			MinSimilarity: floatPtr(0), MaxRelations: intPtr(10), Budget: intPtr(10),
			Algorithm: search.BFS,
		})
		require.NoError(t, err)
		require.True(t, res.Found)
		require.Equal(t, []string{"A"}, pathNames(res.Path))
		require.Equal(t, 1, res.Stats.Visited)
	})

	t.Run("scenario 5: budget-limited explore", func(t *testing.T) {
		res, err := e.ExploreForward(ctx, ids["A"], engine.Query{
			MinSimilarity: floatPtr(0), MaxRelations: intPtr(10), Budget: intPtr(3),
			Algorithm: search.BFS,
		})
		require.NoError(t, err)
		require.Len(t, res.Subgraph.Nodes, 3)
		names := map[string]bool{}
		for _, n := range res.Subgraph.Nodes {
			names[n.Name] = true
		}
		require.True(t, names["A"] && names["B"] && names["C"])
	})

	t.Run("scenario 6: unknown target", func(t *testing.T) {
		var unknown store.ArtistID
		unknown[0] = 0xEE
		_, err := e.FindPath(ctx, ids["A"], unknown, engine.Query{
			MinSimilarity: floatPtr(0), MaxRelations: intPtr(10), Budget: intPtr(10),
			Algorithm: search.BFS,
		})
		require.Error(t, err)
		var serr *store.Error
		require.ErrorAs(t, err, &serr)
		require.Equal(t, store.KindUnknownArtist, serr.Kind)
	})
}

func TestEngine_ResolveAndRandomAndStats(t *testing.T) {
	e, ids := buildSixArtistEngine(t)
	ctx := context.Background()

	got, err := e.ResolveName(ctx, "A", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, ids["A"], got[0].ID)

	_, ok, err := e.RandomArtist(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	stats, err := e.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, stats.ArtistCount)
}
