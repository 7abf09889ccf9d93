// Package worker runs one graphed function in its own goroutine.
//
// A Worker owns at most one parsed expression at a time. Callers send it new
// source text with Parse and ask it for sample buffers with Sample. Requests
// are served one at a time in the order they arrive, and nothing is shared
// between workers, so separate functions parse and sample in parallel.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/plotexpr"
)

// ErrClosed is returned by requests to a worker that has been closed.
var ErrClosed = errors.New("worker: closed")

// Worker evaluates a single function off the caller's goroutine.
type Worker struct {
	reqs chan request
	done chan struct{}
	once sync.Once

	log  zerolog.Logger
	opts []plotexpr.ParseOption
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger for a worker. The default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(w *Worker) {
		w.log = log
	}
}

// WithParseOptions sets the options the worker uses to parse expressions.
func WithParseOptions(opts ...plotexpr.ParseOption) Option {
	return func(w *Worker) {
		w.opts = append(w.opts, opts...)
	}
}

type reqKind int8

const (
	reqParse reqKind = iota
	reqSample
	reqValid
)

type request struct {
	kind   reqKind
	src    string
	sample plotexpr.SampleRequest
	reply  chan response
}

type response struct {
	pts   []plotexpr.Point
	valid bool
	err   error
}

// New starts a worker. The worker runs until Close is called.
func New(opts ...Option) *Worker {
	w := &Worker{
		reqs: make(chan request),
		done: make(chan struct{}),
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	go w.run()
	w.log.Debug().Msg("worker started")
	return w
}

func (w *Worker) run() {
	// e is owned by this goroutine alone.
	var e *plotexpr.Expr
	for {
		select {
		case <-w.done:
			return
		case r := <-w.reqs:
			// reply is buffered, so this never blocks even if the caller has
			// given up on the request.
			r.reply <- w.serve(&e, r)
		}
	}
}

func (w *Worker) serve(e **plotexpr.Expr, r request) response {
	switch r.kind {
	case reqParse:
		a, err := plotexpr.Parse(r.src, w.opts...)
		// A failed parse leaves no program, not the previous one.
		*e = a
		if err != nil {
			w.log.Debug().Err(err).Str("src", r.src).Msg("parse failed")
			return response{err: err}
		}
		w.log.Debug().Str("src", r.src).Stringer("tree", a).Msg("parsed")
		return response{valid: true}
	case reqSample:
		if *e == nil {
			return response{pts: []plotexpr.Point{}}
		}
		start := time.Now()
		pts, err := (*e).SampleFor(r.sample)
		if err != nil {
			w.log.Debug().Err(err).Msg("sample rejected")
			return response{err: err}
		}
		w.log.Debug().
			Int("points", len(pts)).
			Float64("xmin", r.sample.Viewport.XMin).
			Float64("xmax", r.sample.Viewport.XMax).
			Dur("took", time.Since(start)).
			Msg("sampled")
		return response{pts: pts}
	case reqValid:
		return response{valid: *e != nil}
	default:
		panic("worker: unknown request kind")
	}
}

// do sends a request and waits for its response. If ctx ends first, the
// worker still finishes the request, but its response is dropped.
func (w *Worker) do(ctx context.Context, r request) (response, error) {
	r.reply = make(chan response, 1)
	select {
	case w.reqs <- r:
	case <-w.done:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
	select {
	case resp := <-r.reply:
		return resp, nil
	case <-w.done:
		return response{}, ErrClosed
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}

// Parse replaces the worker's expression with one parsed from src. If src
// doesn't parse, the worker is left with no expression and the parse error is
// returned.
func (w *Worker) Parse(ctx context.Context, src string) error {
	resp, err := w.do(ctx, request{kind: reqParse, src: src})
	if err != nil {
		return err
	}
	return resp.err
}

// Sample samples the worker's expression. If the worker has no expression, the
// result is an empty buffer with no error.
func (w *Worker) Sample(ctx context.Context, req plotexpr.SampleRequest) ([]plotexpr.Point, error) {
	resp, err := w.do(ctx, request{kind: reqSample, sample: req})
	if err != nil {
		return nil, err
	}
	return resp.pts, resp.err
}

// Valid returns whether the worker has an expression to sample.
func (w *Worker) Valid(ctx context.Context) (bool, error) {
	resp, err := w.do(ctx, request{kind: reqValid})
	if err != nil {
		return false, err
	}
	return resp.valid, nil
}

// Close stops the worker immediately. Responses to requests in progress are
// never delivered. Close is safe to call more than once.
func (w *Worker) Close() {
	w.once.Do(func() {
		close(w.done)
		w.log.Debug().Msg("worker closed")
	})
}
