package network

import (
	"fmt"

	"github.com/dsetzer/codingame-fall-2024/geom"
)

// Snapshot is the immutable, arena-indexed view of one turn.
//
// Stations, links, teleports and vehicles live in flat slices and refer to
// each other by slice index. Callers must treat every exported slice as
// read-only; planners never mutate a snapshot.
type Snapshot struct {
	Budget int
	Rules  Rules

	Stations  []Station
	Links     []Link
	Teleports []Teleport
	Vehicles  []Vehicle

	// Issues lists input entries that were skipped or repaired by Build.
	Issues []Issue

	stationByID   map[int]int
	adjacency     [][]int // station index → link indices
	teleportsFrom [][]int // station index → teleport indices leaving it
	linkByPair    map[[2]int]int
	vehicleByID   map[int]int
}

// Arc is one traversable step out of a station: along a link in either
// direction (Weight = link length) or through a teleport entrance (Weight 0).
type Arc struct {
	To       int
	Weight   float64
	Teleport bool
}

// Build indexes w into a Snapshot. The indices are built in a fixed order:
// stations by id (last write wins), link adjacency (each link under both
// endpoints), vehicles by id, then the teleport list.
//
// Build never fails on bad references: offending entries are skipped and
// reported in Snapshot.Issues.
//
// Complexity: O(S + L + Σ|route|).
func Build(w World, rules Rules) *Snapshot {
	s := &Snapshot{
		Budget:      w.Budget,
		Rules:       rules,
		stationByID: make(map[int]int, len(w.Stations)),
		linkByPair:  make(map[[2]int]int, len(w.Links)),
		vehicleByID: make(map[int]int, len(w.Vehicles)),
	}

	s.indexStations(w.Stations)
	s.adjacency = make([][]int, len(s.Stations))
	s.teleportsFrom = make([][]int, len(s.Stations))
	s.indexLinks(w.Links)
	s.indexVehicles(w.Vehicles)

	return s
}

func (s *Snapshot) indexStations(specs []StationSpec) {
	for _, spec := range specs {
		st := Station{
			ID:  spec.ID,
			Pos: geom.Point{X: spec.X, Y: spec.Y},
		}
		if spec.Type == 0 {
			st.Kind = KindSupply
			st.Pending = make(map[int]int, len(spec.Pending))
			for typ, n := range spec.Pending {
				if n > 0 {
					st.Pending[typ] = n
				}
			}
		} else {
			st.Kind = KindDelivery
			st.Accepts = spec.Type
		}

		if idx, ok := s.stationByID[spec.ID]; ok {
			s.Stations[idx] = st
			continue
		}
		s.stationByID[spec.ID] = len(s.Stations)
		s.Stations = append(s.Stations, st)
	}
}

func (s *Snapshot) indexLinks(specs []LinkSpec) {
	var teleports []LinkSpec
	for _, spec := range specs {
		a, okA := s.stationByID[spec.A]
		b, okB := s.stationByID[spec.B]
		if !okA || !okB {
			s.issue(IssueUnknownStation, "route %d-%d references an unknown station", spec.A, spec.B)
			continue
		}
		if a == b {
			s.issue(IssueSelfLink, "route %d-%d connects a station to itself", spec.A, spec.B)
			continue
		}
		if spec.Capacity == 0 {
			teleports = append(teleports, spec)
			continue
		}
		if spec.Capacity < 0 {
			s.issue(IssueBadCapacity, "route %d-%d has negative capacity %d", spec.A, spec.B, spec.Capacity)
			continue
		}

		key := pairKey(a, b)
		if li, ok := s.linkByPair[key]; ok {
			s.issue(IssueDuplicateLink, "link %d-%d listed twice; capacity %d replaces %d",
				spec.A, spec.B, spec.Capacity, s.Links[li].Capacity)
			s.Links[li].Capacity = spec.Capacity
			continue
		}

		length := geom.Distance(s.Stations[a].Pos, s.Stations[b].Pos)
		li := len(s.Links)
		s.Links = append(s.Links, Link{
			A:        a,
			B:        b,
			Capacity: spec.Capacity,
			Length:   length,
			BaseCost: s.Rules.LinkCost(length),
		})
		s.linkByPair[key] = li
		s.adjacency[a] = append(s.adjacency[a], li)
		s.adjacency[b] = append(s.adjacency[b], li)
	}

	for _, spec := range teleports {
		a := s.stationByID[spec.A]
		b := s.stationByID[spec.B]
		s.teleportsFrom[a] = append(s.teleportsFrom[a], len(s.Teleports))
		s.Teleports = append(s.Teleports, Teleport{Entrance: a, Exit: b})
		s.Stations[a].Teleporter = true
		s.Stations[b].Teleporter = true
	}
}

func (s *Snapshot) indexVehicles(specs []VehicleSpec) {
	for _, spec := range specs {
		route := make([]int, 0, len(spec.Route))
		for _, id := range spec.Route {
			idx, ok := s.stationByID[id]
			if !ok {
				s.issue(IssueRouteStop, "vehicle %d: stop %d is not a known station", spec.ID, id)
				continue
			}
			route = append(route, idx)
		}
		if len(route) == 0 {
			s.issue(IssueEmptyRoute, "vehicle %d has no resolvable stops", spec.ID)
			continue
		}

		v := Vehicle{
			ID:       spec.ID,
			Route:    route,
			Position: spec.Position,
			Manifest: append([]int(nil), spec.Manifest...),
		}
		if idx, ok := s.vehicleByID[spec.ID]; ok {
			s.Vehicles[idx] = v
			continue
		}
		s.vehicleByID[spec.ID] = len(s.Vehicles)
		s.Vehicles = append(s.Vehicles, v)
	}
}

func (s *Snapshot) issue(kind IssueKind, format string, args ...any) {
	s.Issues = append(s.Issues, Issue{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// pairKey returns an order-independent key for the station pair (i, j).
func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// StationIndex returns the arena index of the station with the given id.
func (s *Snapshot) StationIndex(id int) (int, bool) {
	idx, ok := s.stationByID[id]
	return idx, ok
}

// ResolveStation is StationIndex returning ErrStationNotFound on a miss.
func (s *Snapshot) ResolveStation(id int) (int, error) {
	idx, ok := s.stationByID[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrStationNotFound, id)
	}
	return idx, nil
}

// VehicleIndex returns the arena index of the vehicle with the given id.
func (s *Snapshot) VehicleIndex(id int) (int, bool) {
	idx, ok := s.vehicleByID[id]
	return idx, ok
}

// HasVehicleID reports whether a vehicle with this id exists.
func (s *Snapshot) HasVehicleID(id int) bool {
	_, ok := s.vehicleByID[id]
	return ok
}

// Adjacent returns the indices of links touching station i.
func (s *Snapshot) Adjacent(i int) []int {
	if i < 0 || i >= len(s.adjacency) {
		return nil
	}
	return s.adjacency[i]
}

// Arcs returns every step out of station i: links first (in adjacency
// order), then teleports whose entrance is i.
func (s *Snapshot) Arcs(i int) []Arc {
	if i < 0 || i >= len(s.adjacency) {
		return nil
	}
	arcs := make([]Arc, 0, len(s.adjacency[i])+len(s.teleportsFrom[i]))
	for _, li := range s.adjacency[i] {
		l := s.Links[li]
		arcs = append(arcs, Arc{To: l.Other(i), Weight: l.Length})
	}
	for _, ti := range s.teleportsFrom[i] {
		arcs = append(arcs, Arc{To: s.Teleports[ti].Exit, Teleport: true})
	}
	return arcs
}

// Degree returns the number of links touching station i.
func (s *Snapshot) Degree(i int) int {
	return len(s.Adjacent(i))
}

// LinkBetween returns the link index joining i and j in either direction.
func (s *Snapshot) LinkBetween(i, j int) (int, bool) {
	li, ok := s.linkByPair[pairKey(i, j)]
	return li, ok
}

// Distance returns the Euclidean distance between stations i and j.
func (s *Snapshot) Distance(i, j int) float64 {
	return geom.Distance(s.Stations[i].Pos, s.Stations[j].Pos)
}

// VehiclesServing counts vehicles whose route visits both i and j.
func (s *Snapshot) VehiclesServing(i, j int) int {
	n := 0
	for _, v := range s.Vehicles {
		if v.Visits(i) && v.Visits(j) {
			n++
		}
	}
	return n
}

// RouteIDs maps a route of arena indices back to station ids.
func (s *Snapshot) RouteIDs(route []int) []int {
	ids := make([]int, len(route))
	for k, idx := range route {
		ids[k] = s.Stations[idx].ID
	}
	return ids
}

// Validate checks that i is a valid arena index.
func (s *Snapshot) Validate(i int) error {
	if i < 0 || i >= len(s.Stations) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, len(s.Stations))
	}
	return nil
}
