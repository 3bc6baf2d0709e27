package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvarro/artigraph/builder"
	"github.com/kvarro/artigraph/compiler"
	"github.com/kvarro/artigraph/store"
)

var (
	flagBuildOut       string
	flagBuildFixture   string
	flagBuildSynthetic int
	flagBuildEdgeProb  float64
	flagBuildSeed      int64
	flagBuildIDScheme  string
	flagBuildIDPrefix  string
)

// idSchemes maps --id-scheme values to the builder.IDFn option that
// generates a --synthetic run's artist identifiers. "prefix" is handled
// separately since it also consumes --id-prefix.
var idSchemes = map[string]builder.BuilderOption{
	"default":      builder.WithDefaultIDs(),
	"symbol":       builder.WithSymbolIDs(),
	"alphanumeric": builder.WithAlphanumericIDs(),
	"excel":        builder.WithExcelColumnIDs(),
	"hex":          builder.WithHexIDs(),
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile a data directory from a fixture file or a synthetic random graph (§4.1a Compiler)",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&flagBuildOut, "out", "./data", "Output data directory")
	buildCmd.Flags().StringVar(&flagBuildFixture, "fixture", "", "Path to a JSON fixture (array of artists with id/name/url/forward/reverse)")
	buildCmd.Flags().IntVar(&flagBuildSynthetic, "synthetic", 0, "Generate a synthetic graph with this many artists instead of reading a fixture")
	buildCmd.Flags().Float64Var(&flagBuildEdgeProb, "edge-probability", 0.1, "Edge inclusion probability for --synthetic")
	buildCmd.Flags().Int64Var(&flagBuildSeed, "seed", 1, "RNG seed for --synthetic")
	buildCmd.Flags().StringVar(&flagBuildIDScheme, "id-scheme", "default",
		"Artist ID scheme for --synthetic: default, symbol, alphanumeric, excel, hex, prefix")
	buildCmd.Flags().StringVar(&flagBuildIDPrefix, "id-prefix", "v",
		"Prefix used when --id-scheme=prefix")
}

// resolveIDScheme turns --id-scheme (and --id-prefix, for the "prefix"
// scheme) into the builder.BuilderOption RandomSimilarityGraph applies to
// its per-artist IDFn.
func resolveIDScheme(scheme, prefix string) (builder.BuilderOption, error) {
	if scheme == "prefix" {
		return builder.WithSymbNumb(prefix), nil
	}
	opt, ok := idSchemes[scheme]
	if !ok {
		return nil, fmt.Errorf("build: unknown --id-scheme %q", scheme)
	}
	return opt, nil
}

// fixtureArtist is the on-disk JSON shape accepted by --fixture; it mirrors
// compiler.Artist but with string-encoded artist identifiers.
type fixtureArtist struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	URL     string        `json:"url"`
	Forward []fixtureEdge `json:"forward"`
	Reverse []fixtureEdge `json:"reverse"`
}

type fixtureEdge struct {
	Neighbor   string  `json:"neighbor"`
	Similarity float32 `json:"similarity"`
}

func runBuild(cmd *cobra.Command, args []string) error {
	var artists []compiler.Artist
	switch {
	case flagBuildSynthetic > 0:
		if flagBuildIDScheme == "symbol" && flagBuildSynthetic > 26 {
			return fmt.Errorf("build: --id-scheme=symbol only covers 26 artists, got --synthetic=%d", flagBuildSynthetic)
		}
		idOpt, err := resolveIDScheme(flagBuildIDScheme, flagBuildIDPrefix)
		if err != nil {
			return err
		}
		a, err := builder.RandomSimilarityGraph(flagBuildSynthetic, flagBuildEdgeProb, builder.WithSeed(flagBuildSeed), idOpt)
		if err != nil {
			return err
		}
		artists = a
	case flagBuildFixture != "":
		a, err := loadFixture(flagBuildFixture)
		if err != nil {
			return err
		}
		artists = a
	default:
		return fmt.Errorf("build: one of --fixture or --synthetic is required")
	}

	if err := compiler.Compile(flagBuildOut, artists); err != nil {
		return err
	}
	fmt.Printf("compiled %d artists into %s\n", len(artists), flagBuildOut)
	return nil
}

func loadFixture(path string) ([]compiler.Artist, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in []fixtureArtist
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, err
	}

	artists := make([]compiler.Artist, len(in))
	for i, fa := range in {
		id, err := store.ParseArtistID(fa.ID)
		if err != nil {
			return nil, fmt.Errorf("fixture artist %d: %w", i, err)
		}
		fwd, err := mustEdges(fa.Forward)
		if err != nil {
			return nil, fmt.Errorf("fixture artist %d forward: %w", i, err)
		}
		rev, err := mustEdges(fa.Reverse)
		if err != nil {
			return nil, fmt.Errorf("fixture artist %d reverse: %w", i, err)
		}
		artists[i] = compiler.Artist{
			ID: id, Name: fa.Name, URL: fa.URL,
			Forward: fwd,
			Reverse: rev,
		}
	}
	return artists, nil
}

func mustEdges(in []fixtureEdge) ([]compiler.Edge, error) {
	out := make([]compiler.Edge, 0, len(in))
	for _, e := range in {
		id, err := store.ParseArtistID(e.Neighbor)
		if err != nil {
			return nil, err
		}
		out = append(out, compiler.Edge{Neighbor: id, Similarity: e.Similarity})
	}
	return out, nil
}
