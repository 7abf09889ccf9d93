// Package graph coordinates the workers for a set of graphed functions.
package graph

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/plotexpr"
	"github.com/zephyrtronium/plotexpr/worker"
)

var (
	// ErrUnknown is returned for requests naming a function that isn't in
	// the graph.
	ErrUnknown = errors.New("graph: unknown function")
	// ErrSuperseded is returned by Sample when a newer request or edit has
	// replaced the results for every function.
	ErrSuperseded = errors.New("graph: superseded")
)

// Graph is a set of functions, each sampled by its own worker. It is safe for
// concurrent use.
type Graph struct {
	mu  sync.Mutex
	fns map[string]*function
	// seq orders Set and Sample calls so that only the latest buffer for each
	// function is kept.
	seq uint64

	log   zerolog.Logger
	limit int
	opts  []plotexpr.ParseOption
}

type function struct {
	w *worker.Worker
	// seq is the sequence number of the latest recorded buffer or edit.
	seq uint64
	buf []plotexpr.Point
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger for a graph and its workers. The default
// discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Graph) {
		g.log = log
	}
}

// WithConcurrency sets the maximum number of functions sampled at once. The
// default is GOMAXPROCS. n <= 0 means no limit.
func WithConcurrency(n int) Option {
	return func(g *Graph) {
		g.limit = n
	}
}

// WithParseOptions sets the options used to parse every function.
func WithParseOptions(opts ...plotexpr.ParseOption) Option {
	return func(g *Graph) {
		g.opts = append(g.opts, opts...)
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		fns:   make(map[string]*function),
		log:   zerolog.Nop(),
		limit: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Set parses src as the function with the given id, adding the function if it
// is new. If src doesn't parse, the function stays in the graph but samples
// as empty until the next successful Set.
//
// If ctx ends before the worker replies, the worker may or may not have
// received src. Either way, every buffer recorded after Set returns comes
// from whichever expression the worker holds at that point.
func (g *Graph) Set(ctx context.Context, id, src string) error {
	g.mu.Lock()
	f := g.fns[id]
	if f == nil {
		l := g.log.With().Str("function", id).Logger()
		f = &function{w: worker.New(worker.WithLogger(l), worker.WithParseOptions(g.opts...))}
		g.fns[id] = f
		g.log.Debug().Str("function", id).Msg("added")
	}
	g.mu.Unlock()
	err := f.w.Parse(ctx, src)
	// The worker serves requests in order, so a Sample that takes its
	// sequence number after this point reaches the worker after the parse.
	// Anything that started earlier may have sampled the old source.
	g.mu.Lock()
	g.seq++
	f.seq = g.seq
	f.buf = nil
	g.mu.Unlock()
	if err != nil {
		return fmt.Errorf("parsing %s: %w", id, err)
	}
	return nil
}

// Remove deletes a function and stops its worker. It returns false if there
// was no such function.
func (g *Graph) Remove(id string) bool {
	g.mu.Lock()
	f := g.fns[id]
	delete(g.fns, id)
	g.mu.Unlock()
	if f == nil {
		return false
	}
	f.w.Close()
	g.log.Debug().Str("function", id).Msg("removed")
	return true
}

// IDs returns the ids of the functions in the graph in sorted order.
func (g *Graph) IDs() []string {
	g.mu.Lock()
	ids := make([]string, 0, len(g.fns))
	for id := range g.fns {
		ids = append(ids, id)
	}
	g.mu.Unlock()
	slices.Sort(ids)
	return ids
}

// Valid returns whether the function with the given id has a usable
// expression.
func (g *Graph) Valid(ctx context.Context, id string) (bool, error) {
	g.mu.Lock()
	f := g.fns[id]
	g.mu.Unlock()
	if f == nil {
		return false, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return f.w.Valid(ctx)
}

// Sample samples every function in parallel. The result holds a buffer for
// each function whose result was not superseded by a later Sample or Set
// while this one was in progress. Functions with no valid expression have
// empty buffers.
func (g *Graph) Sample(ctx context.Context, req plotexpr.SampleRequest) (map[string][]plotexpr.Point, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.seq++
	seq := g.seq
	fns := make(map[string]*function, len(g.fns))
	for id, f := range g.fns {
		fns[id] = f
	}
	g.mu.Unlock()

	var (
		mu    sync.Mutex
		stale atomic.Int32
	)
	r := make(map[string][]plotexpr.Point, len(fns))
	grp, ctx := errgroup.WithContext(ctx)
	if g.limit > 0 {
		grp.SetLimit(g.limit)
	}
	for id, f := range fns {
		grp.Go(func() error {
			pts, err := f.w.Sample(ctx, req)
			if errors.Is(err, worker.ErrClosed) {
				// Removed while we were waiting.
				stale.Add(1)
				return nil
			}
			if err != nil {
				return fmt.Errorf("sampling %s: %w", id, err)
			}
			if !g.record(f, seq, pts) {
				g.log.Debug().Str("function", id).Uint64("seq", seq).Msg("discarded superseded samples")
				stale.Add(1)
				return nil
			}
			mu.Lock()
			r[id] = pts
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	if len(fns) > 0 && int(stale.Load()) == len(fns) {
		return nil, ErrSuperseded
	}
	return r, nil
}

// record keeps pts as the latest buffer for f unless something newer has
// already been recorded.
func (g *Graph) record(f *function, seq uint64, pts []plotexpr.Point) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seq < f.seq {
		return false
	}
	f.seq = seq
	f.buf = pts
	return true
}

// Buffer returns the latest sample buffer recorded for a function. The
// second result is false if there is no such function or it hasn't been
// sampled since its last Set.
func (g *Graph) Buffer(id string) ([]plotexpr.Point, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	f := g.fns[id]
	if f == nil || f.buf == nil {
		return nil, false
	}
	return f.buf, true
}

// Close removes every function and stops their workers.
func (g *Graph) Close() {
	g.mu.Lock()
	fns := g.fns
	g.fns = make(map[string]*function)
	g.mu.Unlock()
	for _, f := range fns {
		f.w.Close()
	}
}
