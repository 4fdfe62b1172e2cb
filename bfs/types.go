// Package bfs provides tunable options and error definitions
// for breadth-first search over a network.Snapshot.
package bfs

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartNotFound is returned when the start index is outside the snapshot.
	ErrStartNotFound = errors.New("bfs: start station not found")

	// ErrSnapshotNil is returned if a nil snapshot pointer is passed.
	ErrSnapshotNil = errors.New("bfs: snapshot is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("bfs: invalid option supplied")
)

// Option configures Walk behavior via functional arguments.
// If an Option is invalid (e.g. a nil context), it is recorded internally
// and surfaced as ErrOptionViolation when Walk is invoked.
type Option func(*Options)

// Options holds parameters and callbacks to customize a walk.
// Station arguments are arena indices into Snapshot.Stations.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a station. If it returns an error,
	// the walk aborts and propagates that error.
	OnVisit func(station, depth int) error

	err error
}

// DefaultOptions returns Options with a background context and a no-op
// visit hook.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		OnVisit: func(int, int) error { return nil },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx == nil {
			o.err = fmt.Errorf("%w: nil context", ErrOptionViolation)
			return
		}
		o.Ctx = ctx
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the walk.
func WithOnVisit(fn func(station, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Result holds the outcome of a walk. Depth is indexed by station;
// unreached stations have Depth -1.
type Result struct {
	Start int
	Order []int
	Depth []int
}

// Reached reports whether station i was discovered. With an early stop,
// discovered stations may not have been visited yet.
func (r *Result) Reached(i int) bool {
	return i >= 0 && i < len(r.Depth) && r.Depth[i] >= 0
}
