// Package artigraph roots a small storage-and-search engine over a
// precomputed artist-similarity graph.
//
// The data model is a directed graph of artists, where an edge's weight is
// a similarity score in [0, 1]. The graph is read from three memory-mapped
// binary files (store.Reader), searched with either unweighted BFS or
// -log(similarity)-weighted Dijkstra relaxation (search), and the raw
// traversal result is turned into a display-ready path and subgraph
// (assemble). A name index (nameidx) resolves free-text artist names to
// identifiers. The engine package is the facade a caller actually talks
// to; cmd/artigraph is the only consumer of that facade in this repository.
//
// Subpackages:
//
//	store/     — binary graph reader: mmap'd files, offset-indexed records, lazy adjacency iteration
//	compiler/  — the reader's exact inverse: writes the three binary artifacts from an in-memory graph
//	nameidx/   — name-to-identifier resolution, substring search, uniform random selection
//	search/    — BFS and Dijkstra-style traversal, point-to-point and single-source bounded
//	assemble/  — turns a search.Result into a path, subgraph, and display names
//	config/    — layered configuration: defaults, TOML file, environment, CLI flags
//	engine/    — the facade wiring all of the above behind a worker-pool-gated API
//	builder/   — deterministic graph/fixture generators, including a synthetic similarity-graph generator
//	cmd/artigraph/ — the CLI front-end
package artigraph
