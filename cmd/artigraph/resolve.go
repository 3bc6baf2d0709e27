package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var flagResolveLimit int

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a name to matching artists (§6.3 resolve_name)",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().IntVar(&flagResolveLimit, "limit", 10, "Maximum matches to return")
}

func runResolve(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	matches, err := e.ResolveName(context.Background(), args[0], flagResolveLimit)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s  %s  %s\n", m.ID.String(), m.Name, m.URL)
	}
	return nil
}
