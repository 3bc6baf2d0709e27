// Package engine is the facade that wires a store.Reader, a nameidx.Index,
// the search kernel, and the result assembler behind the six operations a
// caller actually invokes (§6.3): find_path, explore_forward,
// explore_reverse, resolve_name, random_artist, stats.
//
// Two worker pools gate concurrent access (§5, §9 "no cyclic ownership"):
// cheap, bounded lookups go through the trivial pool, and traversal queries
// go through the search pool, so a storm of path requests cannot starve name
// resolution.
package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kvarro/artigraph/assemble"
	"github.com/kvarro/artigraph/config"
	"github.com/kvarro/artigraph/nameidx"
	"github.com/kvarro/artigraph/search"
	"github.com/kvarro/artigraph/store"
)

// Engine owns the memory-mapped store and the structures built on top of
// it. It is safe for concurrent use; the underlying reader never mutates
// after Open, and the worker pools are the only synchronization point.
type Engine struct {
	reader *store.Reader
	names  *nameidx.Index
	cfg    config.Config
	log    *slog.Logger

	searchPool  *semaphore.Weighted
	trivialPool *semaphore.Weighted
}

// Open builds an Engine over the store at cfg.DataDir. The returned Engine
// owns the reader and must be Closed when the caller is done with it.
func Open(cfg config.Config, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.Default()
	}
	r, err := store.Open(cfg.DataDir)
	if err != nil {
		logFatalKind(log, err, cfg.DataDir)
		return nil, err
	}
	return &Engine{
		reader:      r,
		names:       nameidx.Build(r),
		cfg:         cfg,
		log:         log,
		searchPool:  semaphore.NewWeighted(cfg.SearchPoolSize),
		trivialPool: semaphore.NewWeighted(cfg.TrivialPoolSize),
	}, nil
}

// Close releases the underlying memory-mapped files.
func (e *Engine) Close() error {
	return e.reader.Close()
}

// Query carries the parameters common to find_path/explore_forward/
// explore_reverse, with zero values meaning "use the engine's configured
// default" (§6.4 "applied when caller omits them").
type Query struct {
	MinSimilarity *float32
	MaxRelations  *int
	Budget        *int
	Algorithm     search.Algorithm
	Deadline      time.Time
}

func (e *Engine) resolveOptions(ctx context.Context, q Query) search.Options {
	opts := search.Options{
		MinSimilarity: e.cfg.DefaultMinSimilarity,
		MaxRelations:  e.cfg.DefaultMaxRelations,
		Budget:        e.cfg.DefaultBudget,
		Ctx:           ctx,
	}
	if q.MinSimilarity != nil {
		opts.MinSimilarity = *q.MinSimilarity
	}
	if q.MaxRelations != nil {
		opts.MaxRelations = *q.MaxRelations
	}
	if q.Budget != nil {
		opts.Budget = *q.Budget
	}
	if !q.Deadline.IsZero() {
		opts.Deadline = q.Deadline
	} else if e.cfg.RequestTimeout > 0 {
		opts.Deadline = time.Now().Add(e.cfg.RequestTimeout)
	}
	return opts
}

// PathResult is the response shape of FindPath.
type PathResult struct {
	Found    bool
	Path     []assemble.Node
	Subgraph assemble.Subgraph
	Stats    search.Stats
}

// FindPath resolves from/to to identifiers already looked up by the caller
// and runs the selected algorithm between them (§6.3 "find_path").
func (e *Engine) FindPath(ctx context.Context, from, to store.ArtistID, q Query) (PathResult, error) {
	if err := e.searchPool.Acquire(ctx, 1); err != nil {
		return PathResult{}, store.NewCancelled("search pool acquire cancelled", 0)
	}
	defer e.searchPool.Release(1)

	opts := e.resolveOptions(ctx, q)
	var res *search.Result
	var err error
	switch q.Algorithm {
	case search.Weighted:
		res, err = search.DijkstraPointToPoint(e.reader, from, to, opts)
	default:
		res, err = search.BFSPointToPoint(e.reader, from, to, opts)
	}
	if err != nil {
		e.logIfFatal(ctx, err)
		return PathResult{}, err
	}

	sg, err := assemble.Build(e.reader, res, opts.MinSimilarity, opts.MaxRelations)
	if err != nil {
		e.logIfFatal(ctx, err)
		return PathResult{}, err
	}
	nodes, found := assemble.Path(e.reader, res)
	return PathResult{Found: found, Path: nodes, Subgraph: sg, Stats: res.Stats}, nil
}

// ExploreResult is the response shape of ExploreForward/ExploreReverse.
type ExploreResult struct {
	Subgraph assemble.Subgraph
	Stats    search.Stats
}

// ExploreForward returns the bounded neighborhood rooted at id, following
// forward edges (§6.3 "explore_forward").
func (e *Engine) ExploreForward(ctx context.Context, id store.ArtistID, q Query) (ExploreResult, error) {
	return e.explore(ctx, id, store.Forward, q)
}

// ExploreReverse returns the bounded neighborhood of predecessors of id,
// following reverse edges (§6.3 "explore_reverse").
func (e *Engine) ExploreReverse(ctx context.Context, id store.ArtistID, q Query) (ExploreResult, error) {
	return e.explore(ctx, id, store.Reverse, q)
}

func (e *Engine) explore(ctx context.Context, id store.ArtistID, dir store.Direction, q Query) (ExploreResult, error) {
	if err := e.searchPool.Acquire(ctx, 1); err != nil {
		return ExploreResult{}, store.NewCancelled("search pool acquire cancelled", 0)
	}
	defer e.searchPool.Release(1)

	opts := e.resolveOptions(ctx, q)
	var res *search.Result
	var err error
	switch q.Algorithm {
	case search.Weighted:
		res, err = search.DijkstraExplore(e.reader, id, dir, opts)
	default:
		res, err = search.BFSExplore(e.reader, id, dir, opts)
	}
	if err != nil {
		e.logIfFatal(ctx, err)
		return ExploreResult{}, err
	}

	sg, err := assemble.Build(e.reader, res, opts.MinSimilarity, opts.MaxRelations)
	if err != nil {
		e.logIfFatal(ctx, err)
		return ExploreResult{}, err
	}
	return ExploreResult{Subgraph: sg, Stats: res.Stats}, nil
}

// ResolveName resolves a display name to the artists it matches: exact
// matches first via nameidx.ResolveExact, falling back to ranked substring
// search (§6.3 "resolve_name", §4.2).
func (e *Engine) ResolveName(ctx context.Context, name string, limit int) ([]nameidx.Resolved, error) {
	if err := e.trivialPool.Acquire(ctx, 1); err != nil {
		return nil, store.NewCancelled("trivial pool acquire cancelled", 0)
	}
	defer e.trivialPool.Release(1)

	if exact := e.names.ResolveExact(name); len(exact) > 0 {
		if limit > 0 && len(exact) > limit {
			exact = exact[:limit]
		}
		out := make([]nameidx.Resolved, 0, len(exact))
		for _, id := range exact {
			rec, ok := e.reader.Lookup(id)
			if !ok {
				continue
			}
			idx, _ := e.reader.IndexOf(id)
			out = append(out, nameidx.Resolved{ID: rec.ID, Name: e.reader.Name(idx), URL: e.reader.URL(idx)})
		}
		return out, nil
	}
	return e.names.SearchSubstring(name, limit), nil
}

// RandomArtist returns a uniformly random artist identifier (§6.3 "random_artist").
func (e *Engine) RandomArtist(ctx context.Context) (store.ArtistID, bool, error) {
	if err := e.trivialPool.Acquire(ctx, 1); err != nil {
		return store.ArtistID{}, false, store.NewCancelled("trivial pool acquire cancelled", 0)
	}
	defer e.trivialPool.Release(1)

	id, ok := e.names.Random()
	return id, ok, nil
}

// Stats summarizes the loaded store, for the CLI's stats subcommand.
type Stats struct {
	ArtistCount int
}

// Stats reports corpus-wide counters (§6.3 "stats").
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	if err := e.trivialPool.Acquire(ctx, 1); err != nil {
		return Stats{}, store.NewCancelled("trivial pool acquire cancelled", 0)
	}
	defer e.trivialPool.Release(1)

	return Stats{ArtistCount: e.reader.Count()}, nil
}

func (e *Engine) logIfFatal(ctx context.Context, err error) {
	if se, ok := err.(*store.Error); ok && (se.Kind == store.KindCorruptStore || se.Kind == store.KindIOFailure) {
		e.log.ErrorContext(ctx, "fatal store error", "kind", se.Kind.String(), "msg", se.Msg)
	}
}

func logFatalKind(log *slog.Logger, err error, dataDir string) {
	if se, ok := err.(*store.Error); ok {
		log.Error("failed to open store", "kind", se.Kind.String(), "data_dir", dataDir, "msg", se.Msg)
	}
}
