// Command artigraph is the CLI front-end over the engine package: it is
// the only consumer of the engine in this repository (§6.5 of
// SPEC_FULL.md). There is deliberately no HTTP server here.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kvarro/artigraph/config"
	"github.com/kvarro/artigraph/engine"
)

var (
	flagDataDir   string
	flagConfig    string
	flagEnvFile   string
	flagMinSim    float32
	flagMaxRel    int
	flagBudget    int
	flagWeighted  bool
	flagJSONQuiet bool
)

var rootCmd = &cobra.Command{
	Use:   "artigraph",
	Short: "Query a compiled artist-similarity graph",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Override the configured data directory")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "artigraph.toml", "Path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Path to a developer .env file")
	rootCmd.PersistentFlags().Float32Var(&flagMinSim, "min-similarity", 0, "Override the default similarity floor")
	rootCmd.PersistentFlags().IntVar(&flagMaxRel, "max-relations", 0, "Override the default per-node fan-out cap")
	rootCmd.PersistentFlags().IntVar(&flagBudget, "budget", 0, "Override the default visit budget")
	rootCmd.PersistentFlags().BoolVar(&flagWeighted, "weighted", false, "Use the weighted (Dijkstra) algorithm instead of BFS")

	rootCmd.AddCommand(pathCmd, exploreForwardCmd, exploreReverseCmd, resolveCmd, randomCmd, statsCmd, buildCmd, browseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openEngine loads configuration (TOML file, then env, then the CLI's own
// flag overrides, §6.4a) and opens the engine over the resolved data dir.
func openEngine() (*engine.Engine, error) {
	cfg, err := config.Load(flagConfig, flagEnvFile)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	return engine.Open(cfg, slog.Default())
}

// queryOverrides builds an engine.Query from whichever persistent flags the
// caller actually set, leaving the rest nil so the engine falls back to its
// configured defaults.
func queryOverrides(cmd *cobra.Command) (min *float32, maxRel, budget *int) {
	if cmd.Flags().Changed("min-similarity") {
		v := flagMinSim
		min = &v
	}
	if cmd.Flags().Changed("max-relations") {
		v := flagMaxRel
		maxRel = &v
	}
	if cmd.Flags().Changed("budget") {
		v := flagBudget
		budget = &v
	}
	return
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
