// SPDX-License-Identifier: MIT
// Package: lvlath/builder
//
// impl_similarity.go - implementation of RandomSimilarityGraph(n, p).
//
// Canonical model (adapted from RandomSparse's Erdős–Rényi trial order):
//   - Directed: for every ordered pair (i,j) with i != j, include the edge
//     independently with probability p.
//   - Each included edge draws its similarity from cfg.weightFn, which
//     defaults to UniformWeightFn(0, 1) here (not the package-wide constant
//     DefaultWeightFn) so an unconfigured call still produces a varied
//     similarity graph rather than every edge at weight 1. A draw of
//     exactly 0 is discarded rather than emitted, since the storage
//     format's min_similarity floor treats 0 as "no edge" (§4.3.2). Callers
//     that pass WithWeightFn/WithConstantWeight/WithNormalWeight/etc.
//     override this default in the usual later-option-wins order; they are
//     responsible for keeping draws within (0, 1] if they want valid
//     similarity scores.
//   - Unlike RandomSparse, there is no undirected/multigraph/core.Graph
//     mode to honor: the output is a plain []compiler.Artist slice, fed
//     straight into compiler.Compile.
//
// Contract:
//   - n ≥ 2 (else ErrTooFewVertices).
//   - 0 ≤ p ≤ 1 (else ErrInvalidProbability).
//   - cfg.rng must be non-nil (else ErrNeedRandSource); artist identifiers,
//     edge inclusion, and similarity sampling all consume it, so
//     determinism requires WithSeed or WithRand.
//   - cfg.idFn supplies each artist's display name (idx 0..n-1).
//
// Complexity:
//   - Time: O(n) vertices + O(n^2) Bernoulli trials.
//   - Space: O(n + E) for the returned artists and their edge lists.

package builder

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/kvarro/artigraph/compiler"
	"github.com/kvarro/artigraph/store"
)

const (
	methodRandomSimilarityGraph      = "RandomSimilarityGraph"
	minRandomSimilarityGraphVertices = 2

	probMin = 0.0
	probMax = 1.0
)

// RandomSimilarityGraph synthesizes a directed artist-similarity graph of n
// artists for the CLI's `build --synthetic` mode and for tests that need a
// larger-than-the-canonical-fixture graph (§4.1a "Compiler").
func RandomSimilarityGraph(n int, p float64, opts ...BuilderOption) ([]compiler.Artist, error) {
	if n < minRandomSimilarityGraphVertices {
		return nil, fmt.Errorf("%s: n=%d < min=%d: %w",
			methodRandomSimilarityGraph, n, minRandomSimilarityGraphVertices, ErrTooFewVertices)
	}
	if p < probMin || p > probMax {
		return nil, fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w",
			methodRandomSimilarityGraph, p, probMin, probMax, ErrInvalidProbability)
	}

	// A bare WithWeightFn(UniformWeightFn(0, 1)) goes first so a caller's own
	// weight option (later in opts) still wins via newBuilderConfig's
	// last-one-wins application order.
	cfg := newBuilderConfig(append([]BuilderOption{WithWeightFn(UniformWeightFn(0, 1))}, opts...)...)
	if cfg.rng == nil {
		return nil, fmt.Errorf("%s: rng is required: %w", methodRandomSimilarityGraph, ErrNeedRandSource)
	}
	rng := cfg.rng

	ids := make([]store.ArtistID, n)
	artists := make([]compiler.Artist, n)
	for i := 0; i < n; i++ {
		ids[i] = randomArtistID(rng)
		artists[i] = compiler.Artist{ID: ids[i], Name: cfg.idFn(i)}
	}

	// Stable trial order: i asc, then j asc, matching RandomSparse's
	// determinism guarantee for a fixed seed and n.
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if rng.Float64() > p {
				continue
			}
			sim := float32(cfg.weightFn(rng))
			if sim == 0 {
				continue
			}
			artists[i].Forward = append(artists[i].Forward, compiler.Edge{Neighbor: ids[j], Similarity: sim})
			artists[j].Reverse = append(artists[j].Reverse, compiler.Edge{Neighbor: ids[i], Similarity: sim})
		}
	}

	return artists, nil
}

// randomArtistID draws 16 random bytes from rng and stamps them as a
// version-4 UUID, so synthetic fixtures look like real MusicBrainz-derived
// identifiers (§3 "Data model").
func randomArtistID(rng *rand.Rand) store.ArtistID {
	var b [16]byte
	_, _ = rng.Read(b[:])
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return store.NewArtistIDFromUUID(uuid.UUID(b))
}
