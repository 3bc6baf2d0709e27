// Package builder provides internal configuration types and functional options
// for graph and fixture constructors. It centralizes common settings such as
// random number generator, vertex/artist ID scheme, and edge weight
// distribution to keep constructor implementations DRY and consistent.
//
// builderConfig holds three fields:
//   - rng:      *rand.Rand source for randomness (nil → deterministic).
//   - idFn:     IDFn to produce vertex/artist identifiers from integer indices.
//   - weightFn: WeightFn to produce edge weights given an RNG.
//
// Use newBuilderConfig to obtain a config with sensible defaults, then apply
// any number of BuilderOption in order. Later options override earlier ones.
//
// Complexity: newBuilderConfig applies N options in O(N) time, O(1) extra space.
package builder

import "math/rand"

// builderConfig holds the configurable parameters for constructors:
//   - rng:      source of randomness (nil means deterministic).
//   - idFn:     function mapping index→identifier (IDFn).
//   - weightFn: function mapping rng→edge weight (WeightFn).
//
// builderConfig is not safe for concurrent mutation; each builder invocation
// should create its own config via newBuilderConfig.
type builderConfig struct {
	rng      *rand.Rand // optional RNG; nil means deterministic behavior
	idFn     IDFn       // function to generate identifiers from indices
	weightFn WeightFn   // function to generate edge weights
}

// newBuilderConfig returns a builderConfig initialized with defaults, then
// applies each provided BuilderOption in order. If opts is empty, returns
// defaults: nil RNG, DefaultIDFn, DefaultWeightFn.
//
// Complexity: O(len(opts)) time, O(1) extra space.
func newBuilderConfig(opts ...BuilderOption) *builderConfig {
	cfg := &builderConfig{
		rng:      nil,             // no RNG → deterministic ID and weight functions
		idFn:     DefaultIDFn,     // decimal IDs "0","1",…
		weightFn: DefaultWeightFn, // constant DefaultEdgeWeight
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}
