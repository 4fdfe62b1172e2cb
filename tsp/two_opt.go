// Package tsp - bounded 2-opt on closed vehicle routes.
//
// TwoOpt performs full passes over every index pair (i, j) with
// j ≥ i+2 and j ≤ len−2 on a route whose first and last entries coincide:
//
//	Δ = d(r[i], r[j]) + d(r[i+1], r[j+1]) − d(r[i], r[i+1]) − d(r[j], r[j+1])
//
// When Δ < −Eps the segment r[i+1..j] is reversed in place and the scan
// continues with the next pair. Passes repeat until one makes no move, or a
// bound in Options is hit.
//
// Complexity:
//   - One pass: O(n²) delta evaluations; an accepted move costs O(j−i).
//   - Overall: O(passes·n²) time, O(n) extra space for the working copy.
package tsp

import "time"

// TwoOpt improves a closed route. The input slice is not modified.
// Routes with fewer than four entries are returned unchanged.
func TwoOpt(route []int, dist DistanceFunc, opts Options) (Result, error) {
	if dist == nil {
		return Result{}, ErrNilDistance
	}
	if err := opts.validate(); err != nil {
		return Result{}, err
	}
	if len(route) < 2 || route[0] != route[len(route)-1] {
		return Result{}, ErrNotClosed
	}

	cur := make([]int, len(route))
	copy(cur, route)
	res := Result{Route: cur}
	n := len(cur)

	var (
		useDeadline bool
		deadline    time.Time
		step        int
	)
	if opts.TimeLimit > 0 {
		useDeadline = true
		deadline = time.Now().Add(opts.TimeLimit)
	}
	// Check every 1024 evaluations to keep the clock out of the hot loop.
	expired := func() bool {
		step++
		if !useDeadline || step&1023 != 0 {
			return false
		}
		return time.Now().After(deadline)
	}

	for {
		if opts.MaxPasses > 0 && res.Passes >= opts.MaxPasses {
			res.Stopped = PassLimit
			break
		}
		res.Passes++
		improved := false

		for i := 0; i+3 < n; i++ {
			for j := i + 2; j <= n-2; j++ {
				a, b, c, d := cur[i], cur[i+1], cur[j], cur[j+1]
				delta := (dist(a, c) + dist(b, d)) - (dist(a, b) + dist(c, d))
				if delta < -opts.Eps {
					reverse(cur, i+1, j)
					res.Improvements++
					improved = true
				}
				if expired() {
					res.Stopped = TimeLimit
					res.Cost = RouteCost(cur, dist)
					return res, nil
				}
			}
		}

		if !improved {
			res.Stopped = Converged
			break
		}
	}

	res.Cost = RouteCost(cur, dist)

	return res, nil
}

// reverse flips route[i..k] in place.
func reverse(route []int, i, k int) {
	for i < k {
		route[i], route[k] = route[k], route[i]
		i++
		k--
	}
}
