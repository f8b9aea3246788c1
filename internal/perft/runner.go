package perft

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/storage"
)

// ResultStore persists finished runs. *storage.Storage implements it.
type ResultStore interface {
	LoadPerft(fen, promotions string, depth int) (storage.PerftResult, bool, error)
	SavePerft(r storage.PerftResult) error
	RecordRun(nodes uint64, elapsed time.Duration, cached bool) error
}

// Options configures a Runner.
type Options struct {
	// Workers bounds the number of root moves searched at once.
	// Zero means GOMAXPROCS.
	Workers    int
	Promotions board.PromotionMode
	// TableSize is the number of in-memory cache entries. Zero disables the
	// cache.
	TableSize int
	Logger    logr.Logger
	// Store, when set, is consulted before and updated after each run.
	Store ResultStore
}

// Result describes one run.
type Result struct {
	FEN     string
	Depth   int
	Nodes   uint64
	Divide  []MoveCount
	Elapsed time.Duration
	// Cached is true when the count came from the result store.
	Cached bool
}

// NodesPerSecond returns the counting speed, or 0 for cached or instant runs.
func (r Result) NodesPerSecond() float64 {
	if r.Cached || r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Nodes) / r.Elapsed.Seconds()
}

// Runner counts perft trees in parallel, one goroutine per root move.
type Runner struct {
	workers    int
	promotions board.PromotionMode
	cache      *Cache
	store      ResultStore
	log        logr.Logger
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	r := &Runner{
		workers:    opts.Workers,
		promotions: opts.Promotions,
		store:      opts.Store,
		log:        opts.Logger,
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if opts.TableSize > 0 {
		r.cache = NewCache(opts.TableSize)
	}
	if r.log.GetSink() == nil {
		r.log = logr.Discard()
	}
	return r
}

// Cache returns the in-memory cache, or nil when disabled.
func (r *Runner) Cache() *Cache {
	return r.cache
}

func (r *Runner) newGenerator() *board.MoveGenerator {
	gen := board.NewMoveGenerator()
	gen.Promotions = r.promotions
	return gen
}

// Run counts the leaf nodes of b at depth. Each root move is counted on its
// own clone of b, so b is only read. Cancelling ctx stops the run before the
// next root move starts. A stored result skips the tree walk but has no
// per-move breakdown.
func (r *Runner) Run(ctx context.Context, b *board.Board, depth int) (Result, error) {
	fen := b.FEN()
	res := Result{FEN: fen, Depth: depth}

	if r.store != nil && depth > 0 {
		stored, ok, err := r.store.LoadPerft(fen, r.promotions.String(), depth)
		if err != nil {
			return res, fmt.Errorf("load stored result: %w", err)
		}
		if ok {
			r.log.V(1).Info("using stored result", "fen", fen, "depth", depth, "nodes", stored.Nodes)
			res.Nodes = stored.Nodes
			res.Cached = true
			if err := r.store.RecordRun(res.Nodes, 0, true); err != nil {
				return res, fmt.Errorf("record run: %w", err)
			}
			return res, nil
		}
	}

	start := time.Now()
	divide, err := r.Divide(ctx, b, depth)
	if err != nil {
		return res, err
	}
	res.Elapsed = time.Since(start)
	res.Divide = divide
	res.Nodes = Total(divide)
	if depth <= 0 {
		res.Nodes = 1
	}

	r.log.V(1).Info("perft finished",
		"fen", fen,
		"depth", depth,
		"nodes", res.Nodes,
		"elapsed", res.Elapsed,
		"nps", int64(res.NodesPerSecond()))
	if r.cache != nil {
		r.log.V(2).Info("perft cache", "entries", r.cache.Len(), "hitRate", r.cache.HitRate())
	}

	if r.store != nil && depth > 0 {
		if err := r.store.SavePerft(storage.PerftResult{
			FEN:        fen,
			Depth:      depth,
			Promotions: r.promotions.String(),
			Nodes:      res.Nodes,
			Elapsed:    res.Elapsed,
		}); err != nil {
			return res, fmt.Errorf("save result: %w", err)
		}
		if err := r.store.RecordRun(res.Nodes, res.Elapsed, false); err != nil {
			return res, fmt.Errorf("record run: %w", err)
		}
	}

	return res, nil
}

// Divide counts the subtree of every root move in parallel and returns the
// counts sorted by UCI move string.
func (r *Runner) Divide(ctx context.Context, b *board.Board, depth int) ([]MoveCount, error) {
	if depth <= 0 {
		return nil, nil
	}

	moves := r.newGenerator().GenerateMoves(b, true)
	counts := make([]MoveCount, len(moves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, m := range moves {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			child := b.Clone()
			child.MakeMove(m, true)
			gen := r.newGenerator()

			var nodes uint64
			if r.cache != nil {
				nodes = countCached(child, gen, r.cache, depth-1)
			} else {
				nodes = CountUnmake(child, gen, depth-1)
			}
			counts[i] = MoveCount{Move: m, Nodes: nodes}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sortByMove(counts)
	return counts, nil
}
