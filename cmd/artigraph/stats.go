package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print corpus-wide counters (§6.3 stats)",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	s, err := e.Stats(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("artists: %s\n", humanize.Comma(int64(s.ArtistCount)))
	return nil
}
