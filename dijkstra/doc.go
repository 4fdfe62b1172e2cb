// Package dijkstra implements uniform-cost shortest-path search over the
// link and teleport graph of a network.Snapshot.
//
// Overview:
//
//   - Links are traversed in both directions with weight equal to their
//     Euclidean length; teleports are traversed from entrance to exit only,
//     with weight 0.
//   - A min-heap with lazy decrease-key expands the closest unsettled
//     station next. Ties on distance pop the lower station index first.
//   - ShortestPath stops as soon as the destination is settled and rebuilds
//     the path from predecessor links.
//
// Unreachable destinations:
//
//	ShortestPath never fails because the graph is disconnected. It returns
//	Path{Stations: [from, to], Degenerate: true, Cost: +Inf}, a placeholder
//	the caller may forward as a route but must not treat as a real
//	connection. Errors are reserved for invalid input:
//
//	  - ErrNilSnapshot
//	  - ErrStationNotFound (source or target index out of range)
//
// Performance and complexity (S stations, L links, T teleports):
//
//   - Time:  O((S + L + T) log S)
//   - Space: O(S + L + T) worst case for stale heap entries.
//
// Thread safety:
//
//   - A search only reads the snapshot. Concurrent searches over the same
//     snapshot are safe.
package dijkstra
