package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kvarro/artigraph/engine"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

var pathCmd = &cobra.Command{
	Use:   "path <from-artist-id> <to-artist-id>",
	Short: "Find a path between two artists (§6.3 find_path)",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

func runPath(cmd *cobra.Command, args []string) error {
	from, err := store.ParseArtistID(args[0])
	if err != nil {
		return err
	}
	to, err := store.ParseArtistID(args[1])
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

	res, err := e.FindPath(context.Background(), from, to, engine.Query{
		MinSimilarity: min, MaxRelations: maxRel, Budget: budget, Algorithm: algo,
	})
	if err != nil {
		return err
	}
	if !res.Found {
		fmt.Println("no path found")
		return nil
	}
	for i, n := range res.Path {
		if i > 0 {
			fmt.Print(" -> ")
		}
		fmt.Print(n.Name)
	}
	fmt.Println()
	fmt.Printf("hops: %d, visited: %d, edges considered: %d\n", len(res.Path)-1, res.Stats.Visited, res.Stats.EdgesConsidered)
	return nil
}
