// Package dijkstra defines the result types and errors for uniform-cost
// search over a network.Snapshot.
package dijkstra

import (
	"errors"
	"math"
)

// Sentinel errors returned by the Dijkstra implementation.
var (
	// ErrNilSnapshot indicates that a nil *network.Snapshot was passed.
	ErrNilSnapshot = errors.New("dijkstra: snapshot is nil")

	// ErrStationNotFound indicates a source or target index outside the snapshot.
	ErrStationNotFound = errors.New("dijkstra: station not found in snapshot")
)

// Path is a station sequence (arena indices) with its total weight.
//
// Degenerate marks the placeholder [from, to] returned when no connecting
// route exists; it does not model a real connection and Cost is +Inf.
type Path struct {
	Stations   []int
	Cost       float64
	Degenerate bool
}

// tree is the single-source state: dist[v] is +Inf and prev[v] is -1 for
// stations not settled.
type tree struct {
	source int
	dist   []float64
	prev   []int
}

func (t *tree) reached(v int) bool {
	return v >= 0 && v < len(t.dist) && !math.IsInf(t.dist[v], 1)
}

// pathTo rebuilds the path from source to v by walking prev.
func (t *tree) pathTo(v int) (Path, bool) {
	if !t.reached(v) {
		return Path{}, false
	}
	var rev []int
	for cur := v; cur != -1; cur = t.prev[cur] {
		rev = append(rev, cur)
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return Path{Stations: rev, Cost: t.dist[v]}, true
}
