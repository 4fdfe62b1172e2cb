package tsp

import (
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrNotClosed is returned when a route does not start and end at the
	// same station, or is shorter than two entries.
	ErrNotClosed = errors.New("tsp: route is not a closed loop")

	// ErrNilDistance is returned when no distance function is supplied.
	ErrNilDistance = errors.New("tsp: distance function is nil")

	// ErrBadOptions is returned for negative Eps, MaxPasses or TimeLimit.
	ErrBadOptions = errors.New("tsp: invalid options")
)

// DistanceFunc returns the symmetric, non-negative weight between two stops.
type DistanceFunc func(a, b int) float64

// Options bounds the local search.
//
//	Eps       – minimal improvement a move must achieve (Δ < −Eps).
//	MaxPasses – full scans over all (i, j) pairs; 0 means until a pass
//	            makes no improvement.
//	TimeLimit – soft wall-clock budget; 0 means none. Checked sparsely.
type Options struct {
	Eps       float64
	MaxPasses int
	TimeLimit time.Duration
}

// DefaultOptions returns Eps 1e-12 with no pass or time bound.
func DefaultOptions() Options {
	return Options{Eps: 1e-12}
}

func (o Options) validate() error {
	if o.Eps < 0 || o.MaxPasses < 0 || o.TimeLimit < 0 {
		return ErrBadOptions
	}
	return nil
}

// StopReason tells why TwoOpt returned.
type StopReason int

const (
	// Converged means the last pass found no improving move.
	Converged StopReason = iota
	// PassLimit means MaxPasses was reached.
	PassLimit
	// TimeLimit means the soft deadline passed.
	TimeLimit
)

// String returns a short label for logs and metrics.
func (r StopReason) String() string {
	switch r {
	case Converged:
		return "converged"
	case PassLimit:
		return "pass_limit"
	case TimeLimit:
		return "time_limit"
	default:
		return "unknown"
	}
}

// Result is the improved route and search statistics.
type Result struct {
	Route        []int
	Cost         float64
	Passes       int
	Improvements int
	Stopped      StopReason
}
