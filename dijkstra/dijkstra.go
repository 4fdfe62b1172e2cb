package dijkstra

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/dsetzer/codingame-fall-2024/network"
)

// ShortestPath returns the minimum-weight path from one station to another.
// Links are bidirectional with Euclidean weight; teleports are directed
// entrance→exit with weight 0. The search stops as soon as the destination
// is settled. When no path exists it returns the degenerate Path [from, to]
// rather than an error; errors are reserved for invalid input.
//
// Complexity:
//
//   - Time:  O((S + L + T) log S)
//   - Space: O(S + L + T) (lazy decrease-key keeps stale heap entries)
func ShortestPath(s *network.Snapshot, from, to int) (Path, error) {
	if s == nil {
		return Path{}, ErrNilSnapshot
	}
	if from < 0 || from >= len(s.Stations) {
		return Path{}, fmt.Errorf("%w: source %d", ErrStationNotFound, from)
	}
	if to < 0 || to >= len(s.Stations) {
		return Path{}, fmt.Errorf("%w: target %d", ErrStationNotFound, to)
	}

	n := len(s.Stations)
	r := &runner{
		snap:    s,
		target:  to,
		visited: make([]bool, n),
		pq:      make(nodePQ, 0, n),
		tree: &tree{
			source: from,
			dist:   make([]float64, n),
			prev:   make([]int, n),
		},
	}
	r.init()
	r.process()

	if p, ok := r.tree.pathTo(to); ok {
		return p, nil
	}
	return Path{Stations: []int{from, to}, Cost: math.Inf(1), Degenerate: true}, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	snap    *network.Snapshot
	target  int
	visited []bool
	pq      nodePQ
	tree    *tree
}

func (r *runner) init() {
	for v := range r.tree.dist {
		r.tree.dist[v] = math.Inf(1)
		r.tree.prev[v] = -1
	}
	r.tree.dist[r.tree.source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.tree.source, dist: 0})
}

// process settles stations in order of distance until the heap drains or the
// target is settled.
func (r *runner) process() {
	for r.pq.Len() > 0 {
		item := heap.Pop(&r.pq).(*nodeItem)
		u := item.id

		// Stale entry left behind by lazy decrease-key.
		if r.visited[u] {
			continue
		}
		r.visited[u] = true
		if u == r.target {
			return
		}
		r.relax(u)
	}
}

// relax improves distances to the neighbors of the settled station u.
func (r *runner) relax(u int) {
	for _, arc := range r.snap.Arcs(u) {
		v := arc.To
		if r.visited[v] {
			continue
		}
		newDist := r.tree.dist[u] + arc.Weight
		// Strict improvement only; equal-cost alternatives keep the first
		// predecessor found.
		if newDist >= r.tree.dist[v] {
			continue
		}
		r.tree.dist[v] = newDist
		r.tree.prev[v] = u
		heap.Push(&r.pq, &nodeItem{id: v, dist: newDist})
	}
}

// nodeItem represents a station and its tentative distance from the source.
type nodeItem struct {
	id   int
	dist float64
}

// nodePQ is a min-heap of *nodeItem ordered by distance, then by station
// index so that equal distances pop deterministically.
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist != pq[j].dist {
		return pq[i].dist < pq[j].dist
	}
	return pq[i].id < pq[j].id
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x any) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}
