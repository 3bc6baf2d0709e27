package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick a uniformly random artist (§6.3 random_artist)",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

func runRandom(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	id, ok, err := e.RandomArtist(context.Background())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("store is empty")
		return nil
	}
	fmt.Println(id.String())
	return nil
}
