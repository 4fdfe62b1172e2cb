// Package networktest provides a fluent builder for network.World fixtures
// used across package tests.
package networktest

import "github.com/dsetzer/codingame-fall-2024/network"

// Builder accumulates a World. Methods return the receiver for chaining.
type Builder struct {
	w network.World
}

// New starts an empty world with zero budget.
func New() *Builder { return &Builder{} }

// Budget sets the turn budget.
func (b *Builder) Budget(n int) *Builder {
	b.w.Budget = n
	return b
}

// Supply adds a landing pad. pending maps passenger type to count.
func (b *Builder) Supply(id, x, y int, pending map[int]int) *Builder {
	b.w.Stations = append(b.w.Stations, network.StationSpec{ID: id, Type: 0, X: x, Y: y, Pending: pending})
	return b
}

// Delivery adds a module accepting passenger type typ (typ must be non-zero).
func (b *Builder) Delivery(id, x, y, typ int) *Builder {
	b.w.Stations = append(b.w.Stations, network.StationSpec{ID: id, Type: typ, X: x, Y: y})
	return b
}

// Link adds a tube of the given capacity.
func (b *Builder) Link(a, c, capacity int) *Builder {
	b.w.Links = append(b.w.Links, network.LinkSpec{A: a, B: c, Capacity: capacity})
	return b
}

// Teleport adds a teleport from entrance to exit.
func (b *Builder) Teleport(entrance, exit int) *Builder {
	b.w.Links = append(b.w.Links, network.LinkSpec{A: entrance, B: exit, Capacity: 0})
	return b
}

// Vehicle adds a pod following route (station ids).
func (b *Builder) Vehicle(id int, route ...int) *Builder {
	b.w.Vehicles = append(b.w.Vehicles, network.VehicleSpec{ID: id, Route: route})
	return b
}

// Loaded adds a pod carrying the given passenger types.
func (b *Builder) Loaded(id int, manifest []int, route ...int) *Builder {
	b.w.Vehicles = append(b.w.Vehicles, network.VehicleSpec{ID: id, Route: route, Manifest: manifest})
	return b
}

// World returns the accumulated input.
func (b *Builder) World() network.World { return b.w }

// Snapshot builds the world with default rules.
func (b *Builder) Snapshot() *network.Snapshot {
	return network.Build(b.w, network.DefaultRules())
}
