package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/candidate"
	"github.com/dsetzer/codingame-fall-2024/network/networktest"
	"github.com/dsetzer/codingame-fall-2024/planner"
)

// 1. Ledger

func TestLedger(t *testing.T) {
	l := planner.NewLedger(1000)
	assert.True(t, l.CanAfford(1000))
	assert.False(t, l.CanAfford(1001))
	assert.False(t, l.CanAfford(-1))

	require.NoError(t, l.Spend(600))
	require.ErrorIs(t, l.Spend(600), planner.ErrInsufficientFunds)
	assert.Equal(t, 400, l.Remaining())

	l.Refund(750)
	l.Refund(-5)
	assert.Equal(t, 1150, l.Remaining())
	assert.Equal(t, 600, l.Spent())
	assert.Equal(t, 750, l.Refunded())

	assert.Zero(t, planner.NewLedger(-20).Remaining())
}

// 2. Link planner

func TestLinks_EndToEndScenario(t *testing.T) {
	s := networktest.New().
		Budget(20000).
		Supply(1, 0, 0, nil).
		Delivery(2, 1200, 0, 1).
		Delivery(3, 0, 100, 1).
		Delivery(4, 900, 100, 1).
		Snapshot()

	cands := []candidate.Pair{
		{A: 0, B: 1, Distance: 1200},
		{A: 2, B: 3, Distance: 900},
	}
	l := planner.NewLedger(s.Budget)
	got := planner.Links(s, cands, l)

	require.Len(t, got, 1)
	assert.Equal(t, "TUBE 1 2", got[0].String())
	assert.Equal(t, 12000, action.Cost(got))
	assert.Equal(t, 8000, l.Remaining())
}

func TestLinks_SkipsUnaffordableAndKeepsScanning(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 1200, 0, 1).
		Delivery(3, 0, 100, 1).
		Delivery(4, 900, 100, 1).
		Delivery(5, 2000, 500, 1).
		Delivery(6, 2000, 550, 1).
		Snapshot()

	cands := []candidate.Pair{
		{A: 0, B: 1, Distance: 1200},
		{A: 2, B: 3, Distance: 900},
		{A: 4, B: 5, Distance: 50},
	}
	l := planner.NewLedger(20000)
	got := planner.Links(s, cands, l)

	assert.Equal(t, "TUBE 1 2;TUBE 5 6", action.Line(got))
	assert.Equal(t, 7500, l.Remaining())
}

func TestLinks_RespectsLinksAcceptedThisPass(t *testing.T) {
	s := networktest.New().
		Supply(0, 0, 0, nil).
		Delivery(1, 10, 10, 1).
		Delivery(2, 0, 10, 1).
		Delivery(3, 10, 0, 1).
		Snapshot()

	cands := []candidate.Pair{
		{A: 0, B: 1, Distance: s.Distance(0, 1)},
		{A: 2, B: 3, Distance: s.Distance(2, 3)},
		{A: 0, B: 2, Distance: s.Distance(0, 2)},
	}
	got := planner.Links(s, cands, planner.NewLedger(1_000_000))
	assert.Equal(t, "TUBE 0 1;TUBE 0 2", action.Line(got), "2-3 crosses the 0-1 link accepted first")
}

func TestLinks_DegreeLimitWithinPass(t *testing.T) {
	b := networktest.New().Supply(0, 0, 0, nil)
	for id := 1; id <= 6; id++ {
		b.Delivery(id, id*10, id*id, 1)
	}
	for id := 1; id <= 4; id++ {
		b.Link(0, id, 1)
	}
	s := b.Snapshot()

	cands := []candidate.Pair{
		{A: 0, B: 5, Distance: s.Distance(0, 5)},
		{A: 0, B: 6, Distance: s.Distance(0, 6)},
	}
	got := planner.Links(s, cands, planner.NewLedger(1_000_000))
	require.Len(t, got, 1)
	assert.Equal(t, "TUBE 0 5", got[0].String())
}

func TestLinks_Upgrades(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 10, 0, 1).  // 1-2: capacity 1, served by one vehicle
		Delivery(3, 0, 20, 1).  // 1-3: capacity 2, served by one vehicle
		Delivery(4, 30, 40, 1). // 2-4: capacity 3, already at the maximum
		Link(1, 2, 1).
		Link(1, 3, 2).
		Link(2, 4, 3).
		Vehicle(9, 1, 2, 3, 1).
		Vehicle(8, 2, 4, 2).
		Vehicle(7, 4, 2, 4).
		Vehicle(6, 2, 4).
		Snapshot()

	l := planner.NewLedger(1000)
	got := planner.Links(s, nil, l)
	require.Len(t, got, 1)
	assert.Equal(t, "UPGRADE 1 2", got[0].String())
	assert.Equal(t, 100, got[0].Cost)
	assert.Equal(t, 900, l.Remaining())
}

// 3. Teleport planner

func TestTeleports_StopsAtFirstUnaffordable(t *testing.T) {
	s := networktest.New().
		Delivery(1, 0, 0, 1).
		Delivery(2, 100, 0, 1).
		Delivery(3, 0, 50, 2).
		Delivery(4, 60, 50, 2).
		Delivery(5, 0, 90, 3).
		Delivery(6, 5, 90, 3).
		Snapshot()

	cands := candidate.Teleports(s)
	require.Len(t, cands, 3)

	l := planner.NewLedger(12000)
	got := planner.Teleports(s, cands, l)
	assert.Equal(t, "TELEPORT 1 2;TELEPORT 3 4", action.Line(got))
	assert.Equal(t, 2000, l.Remaining())
}

// 4. Fleet planner

func TestFleet_SizesByPending(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, map[int]int{4: 25}).
		Delivery(2, 50, 0, 4).
		Delivery(3, 80, 80, 5).
		Vehicle(2, 3, 1). // id 2 is taken but does not serve the 1-2 edge
		Snapshot()

	l := planner.NewLedger(10000)
	got := planner.Fleet(s, l)
	assert.Equal(t, "POD 1 1 2;POD 3 1 2;POD 4 1 2", action.Line(got))
	assert.Equal(t, 7000, l.Remaining())
}

func TestFleet_CountsServingVehicles(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, map[int]int{4: 25}).
		Delivery(2, 50, 0, 4).
		Loaded(1, []int{4, 4, 4, 4, 4, 4}, 1, 2, 1).
		Snapshot()

	got := planner.Fleet(s, planner.NewLedger(10000))
	assert.Equal(t, "POD 2 1 2;POD 3 1 2", action.Line(got))
}

func TestFleet_DestroysUnderutilizedWhenShort(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 50, 0, 4).
		Loaded(1, []int{4, 4, 4, 4, 4}, 1, 2). // half full: kept
		Loaded(2, []int{4}, 1, 2).
		Loaded(3, nil, 1, 2).
		Snapshot()

	l := planner.NewLedger(500)
	got := planner.Fleet(s, l)
	assert.Equal(t, "DESTROY 2", action.Line(got))
	assert.Equal(t, 1250, l.Remaining())
	assert.Equal(t, -750, action.Cost(got))

	assert.Empty(t, planner.Fleet(s, planner.NewLedger(1000)), "no destroy while a pod is affordable")
}

// 5. Budget property

func TestPlanners_NeverExceedBudget(t *testing.T) {
	b := networktest.New()
	for i := 0; i < 12; i++ {
		x, y := (i*37)%200, (i*i*13)%170
		if i%3 == 0 {
			b.Supply(i, x, y, map[int]int{1 + i%4: 5 + 3*i})
		} else {
			b.Delivery(i, x, y, 1+i%4)
		}
	}
	s := b.Snapshot()
	links, err := candidate.Links(s)
	require.NoError(t, err)
	tps := candidate.Teleports(s)

	for budget := 0; budget <= 30000; budget += 1234 {
		for name, acts := range map[string][]action.Action{
			"links":     planner.Links(s, links, planner.NewLedger(budget)),
			"teleports": planner.Teleports(s, tps, planner.NewLedger(budget)),
			"fleet":     planner.Fleet(s, planner.NewLedger(budget)),
		} {
			assert.LessOrEqual(t, action.Cost(acts), budget, "%s at budget %d", name, budget)
		}
	}
}

func TestDemandEdges_Order(t *testing.T) {
	s := networktest.New().
		Delivery(10, 0, 0, 2).
		Supply(11, 1, 1, map[int]int{2: 1, 1: 3, 9: 0}).
		Delivery(12, 2, 2, 1).
		Delivery(13, 3, 3, 2).
		Snapshot()

	assert.Equal(t, []planner.DemandEdge{
		{Supply: 1, Delivery: 2, Type: 1, Pending: 3},
		{Supply: 1, Delivery: 0, Type: 2, Pending: 1},
		{Supply: 1, Delivery: 3, Type: 2, Pending: 1},
	}, planner.DemandEdges(s))
}
