// Package bfs provides breadth-first search over a network.Snapshot,
// returning hop distances and visit order.
//
// Walk follows links in both directions and teleports from entrance to exit,
// the same arcs the route search uses. Neighbors are enqueued in
// Snapshot.Arcs order (links in adjacency order, then teleports), so the
// visit sequence is reproducible for a given input.
//
// Options:
//
//   - WithContext: cancellation, checked once per dequeued station.
//   - WithOnVisit: hook; an error from it aborts the walk, which lets a
//     caller stop early once the stations it cares about are found.
//
// The engine walks from every supply station to find demand edges whose
// delivery station cannot be reached.
//
// Complexity (S = stations, L = links, T = teleports)
//
//   - Time:   O(S + L + T)
//   - Memory: O(S)
package bfs
