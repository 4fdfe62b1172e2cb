// Package network holds the per-turn world model of the transit controller:
// stations (a tagged union of supply and delivery variants), built links,
// teleports and vehicles, plus the economy constants in Rules.
//
// Build turns the raw, id-based World delivered by the input layer into an
// immutable Snapshot whose entities are addressed by small integer indices
// into flat slices. Every later stage (candidate generation, planners, route
// search) reads the same Snapshot and never mutates it.
//
// Referential-integrity problems in the input (unknown station ids, self
// links, duplicate links, routes with unknown stops) never fail a turn. They
// are skipped or repaired and recorded in Snapshot.Issues.
//
// Costs:
//
//	link build    floor(length × TubeCostPerUnit)
//	link upgrade  BaseCost × c(c+1)/2 at capacity c
//	teleport      TeleportCost
//	vehicle       PodCost, refund PodRefund on destroy
//
// Complexity: Build is linear in the size of the World; lookups are O(1)
// except VehiclesServing, which is O(Σ|route|).
package network
