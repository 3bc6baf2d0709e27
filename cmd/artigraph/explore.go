package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvarro/artigraph/assemble"
	"github.com/kvarro/artigraph/engine"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

var exploreForwardCmd = &cobra.Command{
	Use:   "explore <artist-id>",
	Short: "Explore the bounded neighborhood forward from an artist (§6.3 explore_forward)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplore(false),
}

var exploreReverseCmd = &cobra.Command{
	Use:   "explore-reverse <artist-id>",
	Short: "Explore the bounded neighborhood of predecessors of an artist (§6.3 explore_reverse)",
	Args:  cobra.ExactArgs(1),
	RunE:  runExplore(true),
}

func runExplore(reverse bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := store.ParseArtistID(args[0])
		if err != nil {
			return err
		}

		e, err := openEngine()
		if err != nil {
			return err
		}
		defer e.Close()

		min, maxRel, budget := queryOverrides(cmd)
		algo := search.BFS
		if flagWeighted {
			algo = search.Weighted
		}
		q := engine.Query{MinSimilarity: min, MaxRelations: maxRel, Budget: budget, Algorithm: algo}

		var res engine.ExploreResult
		if reverse {
			res, err = e.ExploreReverse(context.Background(), id, q)
		} else {
			res, err = e.ExploreForward(context.Background(), id, q)
		}
		if err != nil {
			return err
		}
		printSubgraph(res.Subgraph)
		fmt.Printf("visited: %d, edges considered: %d\n", res.Stats.Visited, res.Stats.EdgesConsidered)
		return nil
	}
}

func printSubgraph(sg assemble.Subgraph) {
	for _, n := range sg.Nodes {
		fmt.Printf("node  %s  %s\n", n.ID.String(), n.Name)
	}
	for _, e := range sg.Edges {
		fmt.Printf("edge  %s -> %s  %.3f\n", e.From.String(), e.To.String(), e.Similarity)
	}
}
