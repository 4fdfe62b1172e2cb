package planner

import (
	"sort"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/network"
)

// DemandEdge is a (supply, delivery) station pair sharing a passenger type
// with passengers of that type waiting at the supply station.
type DemandEdge struct {
	Supply, Delivery int // arena indices
	Type             int
	Pending          int
}

// DemandEdges lists demand edges in a fixed order: supply stations by arena
// index, passenger types ascending, delivery stations by arena index.
func DemandEdges(s *network.Snapshot) []DemandEdge {
	modules := make(map[int][]int)
	for i := range s.Stations {
		if st := &s.Stations[i]; st.Kind == network.KindDelivery {
			modules[st.Accepts] = append(modules[st.Accepts], i)
		}
	}

	var out []DemandEdge
	for i := range s.Stations {
		st := &s.Stations[i]
		switch st.Kind {
		case network.KindSupply:
			types := make([]int, 0, len(st.Pending))
			for typ, n := range st.Pending {
				if n > 0 {
					types = append(types, typ)
				}
			}
			sort.Ints(types)
			for _, typ := range types {
				for _, m := range modules[typ] {
					out = append(out, DemandEdge{Supply: i, Delivery: m, Type: typ, Pending: st.Pending[typ]})
				}
			}
		default:
			continue
		}
	}
	return out
}

// Fleet sizes the vehicle fleet. For every demand edge it needs
// ceil(pending / PodCapacity) vehicles minus those already visiting both
// endpoints, and emits POD actions while the ledger covers PodCost. New ids
// come from linear probing upward from 1, skipping ids in use or issued
// earlier in the call.
//
// Afterwards, while the ledger holds less than PodCost, vehicles carrying
// fewer than PodCapacity/2 passengers are destroyed and PodRefund is credited.
func Fleet(s *network.Snapshot, l *Ledger) []action.Action {
	var out []action.Action
	ids := idAllocator{snap: s, issued: make(map[int]bool)}
	r := s.Rules

	for _, e := range DemandEdges(s) {
		need := ceilDiv(e.Pending, r.PodCapacity) - s.VehiclesServing(e.Supply, e.Delivery)
		for need > 0 && l.Spend(r.PodCost) == nil {
			route := []int{s.Stations[e.Supply].ID, s.Stations[e.Delivery].ID}
			out = append(out, action.Pod(ids.next(), route, r.PodCost))
			need--
		}
	}

	for _, v := range s.Vehicles {
		if l.Remaining() >= r.PodCost {
			break
		}
		if len(v.Manifest) >= r.PodCapacity/2 {
			continue
		}
		l.Refund(r.PodRefund)
		out = append(out, action.Destroy(v.ID, r.PodRefund))
	}

	return out
}

type idAllocator struct {
	snap   *network.Snapshot
	issued map[int]bool
	cursor int
}

func (a *idAllocator) next() int {
	for {
		a.cursor++
		if !a.snap.HasVehicleID(a.cursor) && !a.issued[a.cursor] {
			a.issued[a.cursor] = true
			return a.cursor
		}
	}
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
