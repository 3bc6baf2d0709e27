// Package config loads and layers the engine's runtime configuration:
// compiled-in defaults, an optional TOML settings file, environment
// variables (including an optional .env developer file), and finally
// whatever the CLI's flags override (§6.4, §6.4a of SPEC_FULL.md).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// envPrefix namespaces every environment variable this package reads, e.g.
// ARTIGRAPH_DATA_DIR, ARTIGRAPH_SEARCH_POOL_SIZE.
const envPrefix = "ARTIGRAPH_"

// Config is the explicit struct threaded into engine.Open (§9 "Configuration
// as explicit struct, never ambient"). Every field has a compiled-in default
// applied by Default before any layering happens.
type Config struct {
	// DataDir holds the three files a store.Reader opens.
	DataDir string `toml:"data_dir"`

	// DefaultMinSimilarity, DefaultMaxRelations, DefaultBudget fill in
	// query parameters a caller omits (§6.4 "applied when caller omits them").
	DefaultMinSimilarity float32 `toml:"default_min_similarity"`
	DefaultMaxRelations  int     `toml:"default_max_relations"`
	DefaultBudget        int     `toml:"default_budget"`

	// SearchPoolSize and TrivialPoolSize bound the two worker pools (§5).
	SearchPoolSize  int64 `toml:"search_pool_size"`
	TrivialPoolSize int64 `toml:"trivial_pool_size"`

	// RequestTimeout caps how long a single query may run before it is
	// cancelled with Cancelled (§5 "Cancellation and timeouts").
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// Default returns the compiled-in baseline every layer builds on.
func Default() Config {
	return Config{
		DataDir:              "./data",
		DefaultMinSimilarity: 0,
		DefaultMaxRelations:  50,
		DefaultBudget:        10_000,
		SearchPoolSize:       4,
		TrivialPoolSize:      8,
		RequestTimeout:       5 * time.Second,
	}
}

// Load builds a Config by layering, lowest priority first: compiled-in
// defaults, the TOML file at path (skipped if path is empty or the file
// does not exist), then environment variables (after loading envFile, if
// non-empty, via godotenv — a missing envFile is not an error). CLI flags
// are layered on top of the returned Config by the caller, since cobra owns
// flag parsing.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: stat %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envPrefix + "DATA_DIR"); ok {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_MIN_SIMILARITY"); ok {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("config: %sDEFAULT_MIN_SIMILARITY: %w", envPrefix, err)
		}
		cfg.DefaultMinSimilarity = float32(f)
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_MAX_RELATIONS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sDEFAULT_MAX_RELATIONS: %w", envPrefix, err)
		}
		cfg.DefaultMaxRelations = n
	}
	if v, ok := os.LookupEnv(envPrefix + "DEFAULT_BUDGET"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %sDEFAULT_BUDGET: %w", envPrefix, err)
		}
		cfg.DefaultBudget = n
	}
	if v, ok := os.LookupEnv(envPrefix + "SEARCH_POOL_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sSEARCH_POOL_SIZE: %w", envPrefix, err)
		}
		cfg.SearchPoolSize = n
	}
	if v, ok := os.LookupEnv(envPrefix + "TRIVIAL_POOL_SIZE"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sTRIVIAL_POOL_SIZE: %w", envPrefix, err)
		}
		cfg.TrivialPoolSize = n
	}
	if v, ok := os.LookupEnv(envPrefix + "REQUEST_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
