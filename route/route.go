// Package route re-plans existing vehicle routes: closed loops are shortened
// with 2-opt, open paths are replaced by the shortest path between their
// endpoints. A POD action is emitted only when the station sequence changes.
package route

import (
	"context"
	"slices"
	"time"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/dijkstra"
	"github.com/dsetzer/codingame-fall-2024/network"
	"github.com/dsetzer/codingame-fall-2024/tsp"
)

// Method names the algorithm applied to a vehicle.
type Method string

const (
	MethodTwoOpt       Method = "two_opt"
	MethodShortestPath Method = "shortest_path"
)

// Options configures the optimizer.
type Options struct {
	TwoOpt tsp.Options
}

// DefaultOptions returns unbounded 2-opt with the default tolerance.
func DefaultOptions() Options {
	return Options{TwoOpt: tsp.DefaultOptions()}
}

// Outcome is the decision for one vehicle. Route holds station ids.
type Outcome struct {
	Vehicle    int
	Method     Method
	Route      []int
	Changed    bool
	Degenerate bool
	Stopped    tsp.StopReason
}

// Plan is the result of optimizing every vehicle of a snapshot.
type Plan struct {
	Actions   []action.Action
	Outcomes  []Outcome
	Skipped   int
	Truncated bool
}

// Vehicle decides the route for a single vehicle. Errors only arise from
// invalid options or indices and are not expected for a built snapshot.
func Vehicle(s *network.Snapshot, v network.Vehicle, opts Options) (Outcome, error) {
	out := Outcome{Vehicle: v.ID}
	current := s.RouteIDs(v.Route)

	var next []int
	switch {
	case len(v.Route) < 2:
		out.Route = current
		return out, nil
	case v.Closed():
		out.Method = MethodTwoOpt
		res, err := tsp.TwoOpt(v.Route, s.Distance, opts.TwoOpt)
		if err != nil {
			return out, err
		}
		next = res.Route
		out.Stopped = res.Stopped
	default:
		out.Method = MethodShortestPath
		p, err := dijkstra.ShortestPath(s, v.Route[0], v.Route[len(v.Route)-1])
		if err != nil {
			return out, err
		}
		next = p.Stations
		out.Degenerate = p.Degenerate
	}

	out.Route = s.RouteIDs(next)
	out.Changed = !slices.Equal(out.Route, current)

	return out, nil
}

// Optimize runs Vehicle over every vehicle of s in arena order, skipping
// ids in skip (e.g. vehicles destroyed earlier in the turn). When ctx ends,
// the remaining vehicles keep their routes and Plan.Truncated is set. A
// context deadline also caps each 2-opt run.
func Optimize(ctx context.Context, s *network.Snapshot, skip map[int]bool, opts Options) Plan {
	var plan Plan
	for _, v := range s.Vehicles {
		if ctx.Err() != nil {
			plan.Truncated = true
			break
		}
		if skip[v.ID] {
			plan.Skipped++
			continue
		}

		vo := opts
		if dl, ok := ctx.Deadline(); ok {
			left := time.Until(dl)
			if left <= 0 {
				plan.Truncated = true
				break
			}
			if vo.TwoOpt.TimeLimit == 0 || left < vo.TwoOpt.TimeLimit {
				vo.TwoOpt.TimeLimit = left
			}
		}

		o, err := Vehicle(s, v, vo)
		if err != nil {
			plan.Skipped++
			continue
		}
		plan.Outcomes = append(plan.Outcomes, o)
		if o.Changed {
			plan.Actions = append(plan.Actions, action.Pod(o.Vehicle, o.Route, 0))
		}
	}

	return plan
}
