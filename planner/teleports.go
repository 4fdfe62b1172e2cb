package planner

import (
	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/candidate"
	"github.com/dsetzer/codingame-fall-2024/network"
)

// Teleports commits a TELEPORT per candidate, in order, and stops at the
// first one the ledger cannot pay Rules.TeleportCost for.
func Teleports(s *network.Snapshot, cands []candidate.Pair, l *Ledger) []action.Action {
	var out []action.Action
	for _, c := range cands {
		if l.Spend(s.Rules.TeleportCost) != nil {
			break
		}
		out = append(out, action.Teleport(s.Stations[c.A].ID, s.Stations[c.B].ID, s.Rules.TeleportCost))
	}
	return out
}
