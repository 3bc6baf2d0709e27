// SPDX-License-Identifier: MIT
// Package: lvlath/builder
//
// errors.go — sentinel errors for the builder package.
//
// Only sentinel variables are exposed; callers branch with errors.Is against
// them rather than matching error strings. Wrapping context is attached with
// %w at the call site (see impl_similarity.go).

package builder

import "errors"

// ErrTooFewVertices indicates that n is smaller than a constructor's minimum.
var ErrTooFewVertices = errors.New("builder: parameter too small")

// ErrInvalidProbability indicates a probability value outside [0,1].
var ErrInvalidProbability = errors.New("builder: probability out of range")

// ErrNeedRandSource indicates a stochastic constructor requires a non-nil
// *rand.Rand in the resolved builderConfig (supply WithSeed or WithRand).
var ErrNeedRandSource = errors.New("builder: rng is required")
