// Package builder provides deterministic, functional-options-style
// constructors for artist-similarity fixtures, plus the reusable ID-scheme
// and edge-weight-distribution primitives they're built from.
//
//   - Configuration primitives:
//     BuilderOption mutates a builderConfig (RNG, ID scheme, weight function)
//     before a constructor runs; newBuilderConfig resolves defaults.
//   - Identifier schemes (IDFn): DefaultIDFn, SymbolIDFn, ExcelColumnIDFn,
//     AlphanumericIDFn, HexIDFn, SymbolNumberIDFn.
//   - Edge-weight distributions (WeightFn): DefaultWeightFn, ConstantWeightFn,
//     UniformWeightFn, NormalWeightFn, ExponentialWeightFn.
//   - RandomSimilarityGraph synthesizes a directed artist-similarity graph
//     for the CLI's `build --synthetic` mode and for large-graph tests.
//
// Guarantees: fail-fast panics in option constructors on meaningless
// parameters (nil scheme, negative weight, ...); everything else returns
// sentinel errors (ErrTooFewVertices, ErrInvalidProbability,
// ErrNeedRandSource) for callers to branch on with errors.Is.
package builder
