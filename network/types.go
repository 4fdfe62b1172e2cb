package network

import (
	"errors"
	"math"

	"github.com/dsetzer/codingame-fall-2024/geom"
)

// Sentinel errors for snapshot queries and input validation.
var (
	// ErrStationNotFound indicates a lookup by an id absent from the snapshot.
	ErrStationNotFound = errors.New("network: station not found")

	// ErrIndexOutOfRange indicates an arena index outside the station slice.
	ErrIndexOutOfRange = errors.New("network: station index out of range")

	// ErrBadRules indicates a Rules value with a non-positive cost or limit.
	ErrBadRules = errors.New("network: invalid rules")
)

// Kind discriminates the two station variants.
type Kind int

const (
	// KindSupply is a landing pad that emits typed passengers.
	KindSupply Kind = iota

	// KindDelivery is a module that accepts a single passenger type.
	KindDelivery
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindSupply:
		return "supply"
	case KindDelivery:
		return "delivery"
	default:
		return "unknown"
	}
}

// Station is a tagged union over supply and delivery stations.
//
// Pending is only populated for KindSupply; Accepts is only meaningful for
// KindDelivery. Callers dispatch with a switch on Kind.
type Station struct {
	ID         int
	Pos        geom.Point
	Kind       Kind
	Teleporter bool

	// Pending maps passenger type to waiting count (supply only).
	Pending map[int]int

	// Accepts is the passenger type this station consumes (delivery only).
	Accepts int
}

// TotalPending returns the number of passengers waiting at a supply station,
// and zero for any other variant.
func (st *Station) TotalPending() int {
	switch st.Kind {
	case KindSupply:
		total := 0
		for _, n := range st.Pending {
			total += n
		}
		return total
	default:
		return 0
	}
}

// Link is a built tube between two stations addressed by arena index.
type Link struct {
	A, B     int
	Capacity int
	Length   float64
	BaseCost int
}

// Other returns the endpoint of l that is not i.
func (l Link) Other(i int) int {
	if l.A == i {
		return l.B
	}
	return l.A
}

// UpgradeCost returns the accumulated upgrade price for l at its current
// capacity: it starts at BaseCost for capacity 1 and grows by
// BaseCost×newCapacity on every increment, i.e. BaseCost×c(c+1)/2.
func (l Link) UpgradeCost() int {
	c := max(l.Capacity, 1)
	return l.BaseCost * c * (c + 1) / 2
}

// Teleport is a zero-time, one-way connection from Entrance to Exit.
type Teleport struct {
	Entrance, Exit int
}

// Vehicle is a pod travelling along Route (arena indices).
type Vehicle struct {
	ID       int
	Route    []int
	Position int

	// Manifest holds the passenger types currently aboard.
	Manifest []int
}

// Closed reports whether the route starts and ends at the same station.
func (v Vehicle) Closed() bool {
	return len(v.Route) > 0 && v.Route[0] == v.Route[len(v.Route)-1]
}

// Visits reports whether station index i appears anywhere on the route.
func (v Vehicle) Visits(i int) bool {
	for _, s := range v.Route {
		if s == i {
			return true
		}
	}
	return false
}

// Rules holds the game economy constants the planners work with.
type Rules struct {
	TubeCostPerUnit    float64 // resources per unit of link length
	TeleportCost       int
	PodCost            int
	PodRefund          int
	PodCapacity        int
	MaxLinksPerStation int
	MaxLinkCapacity    int
}

// DefaultRules returns the standard economy.
func DefaultRules() Rules {
	return Rules{
		TubeCostPerUnit:    10,
		TeleportCost:       5000,
		PodCost:            1000,
		PodRefund:          750,
		PodCapacity:        10,
		MaxLinksPerStation: 5,
		MaxLinkCapacity:    3,
	}
}

// Validate returns ErrBadRules if any cost or limit is non-positive, or if
// the refund exceeds the construction cost.
func (r Rules) Validate() error {
	if r.TubeCostPerUnit <= 0 || r.TeleportCost <= 0 || r.PodCost <= 0 ||
		r.PodRefund < 0 || r.PodCapacity <= 0 || r.MaxLinksPerStation <= 0 ||
		r.MaxLinkCapacity <= 0 {
		return ErrBadRules
	}
	if r.PodRefund > r.PodCost {
		return ErrBadRules
	}
	return nil
}

// LinkCost returns floor(length × TubeCostPerUnit).
func (r Rules) LinkCost(length float64) int {
	return int(math.Floor(length * r.TubeCostPerUnit))
}

// StationSpec is a raw station as delivered by the input layer.
// Type 0 is a supply station; any other value is a delivery station whose
// accepted passenger type equals Type.
type StationSpec struct {
	ID      int
	Type    int
	X, Y    int
	Pending map[int]int
}

// LinkSpec is a raw travel route. Capacity 0 denotes a teleport.
type LinkSpec struct {
	A, B     int
	Capacity int
}

// VehicleSpec is a raw pod with its route as station ids.
type VehicleSpec struct {
	ID       int
	Route    []int
	Position int
	Manifest []int
}

// World is the unindexed per-turn input.
type World struct {
	Budget   int
	Stations []StationSpec
	Links    []LinkSpec
	Vehicles []VehicleSpec
}

// IssueKind classifies a referential-integrity problem found while indexing.
type IssueKind string

const (
	IssueUnknownStation IssueKind = "unknown_station"
	IssueSelfLink       IssueKind = "self_link"
	IssueDuplicateLink  IssueKind = "duplicate_link"
	IssueBadCapacity    IssueKind = "bad_capacity"
	IssueEmptyRoute     IssueKind = "empty_route"
	IssueRouteStop      IssueKind = "route_stop_dropped"
)

// Issue records one skipped or repaired input entry.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}
