// Package action defines the per-turn action intents emitted by the planners
// and their textual protocol form.
package action

import (
	"strconv"
	"strings"
)

// Kind names an action verb.
type Kind string

const (
	KindTube     Kind = "TUBE"
	KindUpgrade  Kind = "UPGRADE"
	KindTeleport Kind = "TELEPORT"
	KindPod      Kind = "POD"
	KindDestroy  Kind = "DESTROY"
)

// Wait is the no-op line emitted for a turn without actions.
const Wait = "WAIT"

// Separator joins actions on a single output line.
const Separator = ";"

// Action is one decision for the current turn. Station and vehicle
// references are game ids, not arena indices.
//
//	TUBE, UPGRADE, TELEPORT  Stations = [a, b]
//	POD                      Vehicle, Stations = route
//	DESTROY                  Vehicle
//
// Cost is the ledger amount the action commits; DESTROY carries the
// negative refund.
type Action struct {
	Kind     Kind  `json:"kind"`
	Vehicle  int   `json:"vehicle,omitempty"`
	Stations []int `json:"stations,omitempty"`
	Cost     int   `json:"cost"`
}

// Tube builds a link between stations a and b.
func Tube(a, b, cost int) Action {
	return Action{Kind: KindTube, Stations: []int{a, b}, Cost: cost}
}

// Upgrade raises the capacity of the a–b link by one.
func Upgrade(a, b, cost int) Action {
	return Action{Kind: KindUpgrade, Stations: []int{a, b}, Cost: cost}
}

// Teleport builds a teleport from entrance to exit.
func Teleport(entrance, exit, cost int) Action {
	return Action{Kind: KindTeleport, Stations: []int{entrance, exit}, Cost: cost}
}

// Pod creates vehicle id, or replaces its route, with the given stops.
func Pod(id int, route []int, cost int) Action {
	return Action{Kind: KindPod, Vehicle: id, Stations: append([]int(nil), route...), Cost: cost}
}

// Destroy retires vehicle id; refund is credited back.
func Destroy(id, refund int) Action {
	return Action{Kind: KindDestroy, Vehicle: id, Cost: -refund}
}

// String renders the protocol form, e.g. "TUBE 1 2" or "POD 7 1 2 1".
func (a Action) String() string {
	var b strings.Builder
	b.WriteString(string(a.Kind))
	switch a.Kind {
	case KindPod, KindDestroy:
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(a.Vehicle))
	}
	for _, id := range a.Stations {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(id))
	}
	return b.String()
}

// Line joins actions with Separator, or returns Wait when there are none.
func Line(actions []Action) string {
	if len(actions) == 0 {
		return Wait
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, Separator)
}

// Cost sums the committed cost of actions.
func Cost(actions []Action) int {
	total := 0
	for _, a := range actions {
		total += a.Cost
	}
	return total
}

// CountByKind tallies actions per verb.
func CountByKind(actions []Action) map[Kind]int {
	out := make(map[Kind]int)
	for _, a := range actions {
		out[a.Kind]++
	}
	return out
}
