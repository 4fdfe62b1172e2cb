// Package tsp provides local search for closed vehicle routes.
//
// A vehicle route is a station sequence whose first and last entries are the
// same station. TwoOpt shortens such a loop by repeatedly replacing two
// edges with the two edges obtained by reversing the segment between them.
// The result is a local optimum, not a global one.
//
// Bounds (Options):
//
//   - Eps:       strictness of the acceptance rule Δ < −Eps.
//   - MaxPasses: cap on full scans; 0 runs to convergence.
//   - TimeLimit: soft wall-clock budget, checked every 1024 evaluations.
//
// A run stopped by a bound returns the best route so far with Stopped set;
// it is not an error. At convergence the search is idempotent: running it
// again on its output makes no move.
//
// Distances come from a DistanceFunc so the caller decides the metric; the
// route optimizer uses Euclidean distance between station positions.
package tsp
