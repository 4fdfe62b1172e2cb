package planner

import (
	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/candidate"
	"github.com/dsetzer/codingame-fall-2024/network"
)

// Links drains cands in order and commits a TUBE for every candidate the
// ledger can pay for. An unaffordable candidate is skipped, not a stop
// signal; the scan ends once nothing remains. Links accepted earlier in the
// pass count toward the degree limit and the crossing check.
//
// It then emits UPGRADE for existing links below Rules.MaxLinkCapacity whose
// serving vehicle count is at least their capacity, when UpgradeCost fits.
//
// Complexity: O(C·A + L·V·R) for C candidates, A accepted links, and V
// vehicles with routes of length R.
func Links(s *network.Snapshot, cands []candidate.Pair, l *Ledger) []action.Action {
	var (
		out      []action.Action
		accepted []candidate.Segment
		added    = make(map[int]int)
		limit    = s.Rules.MaxLinksPerStation
	)

	for _, c := range cands {
		if l.Remaining() <= 0 {
			break
		}
		if s.Degree(c.A)+added[c.A] >= limit || s.Degree(c.B)+added[c.B] >= limit {
			continue
		}
		if crossesAccepted(s, c, accepted) {
			continue
		}
		cost := s.Rules.LinkCost(c.Distance)
		if l.Spend(cost) != nil {
			continue
		}
		accepted = append(accepted, candidate.Segment{A: c.A, B: c.B})
		added[c.A]++
		added[c.B]++
		out = append(out, action.Tube(s.Stations[c.A].ID, s.Stations[c.B].ID, cost))
	}

	for _, link := range s.Links {
		if link.Capacity >= s.Rules.MaxLinkCapacity {
			continue
		}
		if s.VehiclesServing(link.A, link.B) < link.Capacity {
			continue
		}
		cost := link.UpgradeCost()
		if l.Spend(cost) != nil {
			continue
		}
		out = append(out, action.Upgrade(s.Stations[link.A].ID, s.Stations[link.B].ID, cost))
	}

	return out
}

func crossesAccepted(s *network.Snapshot, c candidate.Pair, accepted []candidate.Segment) bool {
	for _, seg := range accepted {
		if candidate.Crosses(s, c.A, c.B, seg) {
			return true
		}
	}
	return false
}
