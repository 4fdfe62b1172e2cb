package route_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/action"
	"github.com/dsetzer/codingame-fall-2024/network/networktest"
	"github.com/dsetzer/codingame-fall-2024/route"
)

func fixture() *networktest.Builder {
	return networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 10, 10, 1).
		Delivery(3, 10, 0, 1).
		Delivery(4, 0, 10, 1).
		Link(1, 3, 1).
		Link(3, 2, 1).
		Link(2, 4, 1).
		Link(4, 1, 1)
}

func TestOptimize_ClosedLoopUncrossed(t *testing.T) {
	s := fixture().Vehicle(5, 1, 2, 3, 4, 1).Snapshot()

	plan := route.Optimize(context.Background(), s, nil, route.DefaultOptions())
	require.Len(t, plan.Outcomes, 1)
	o := plan.Outcomes[0]
	assert.Equal(t, route.MethodTwoOpt, o.Method)
	assert.True(t, o.Changed)
	assert.Equal(t, "POD 5 1 3 2 4 1", action.Line(plan.Actions))
	assert.Zero(t, action.Cost(plan.Actions))
}

func TestOptimize_NoChangeNoAction(t *testing.T) {
	s := fixture().
		Vehicle(5, 1, 3, 2, 4, 1).
		Vehicle(6, 1, 3, 2).
		Snapshot()

	plan := route.Optimize(context.Background(), s, nil, route.DefaultOptions())
	assert.Len(t, plan.Outcomes, 2)
	assert.Empty(t, plan.Actions)
}

func TestOptimize_OpenPathReplacedByShortest(t *testing.T) {
	// 1 → 4 directly is 10; the current route goes around the square.
	s := fixture().Vehicle(8, 1, 3, 2, 4).Snapshot()

	plan := route.Optimize(context.Background(), s, nil, route.DefaultOptions())
	require.Len(t, plan.Outcomes, 1)
	assert.Equal(t, route.MethodShortestPath, plan.Outcomes[0].Method)
	assert.False(t, plan.Outcomes[0].Degenerate)
	assert.Equal(t, "POD 8 1 4", action.Line(plan.Actions))
}

func TestOptimize_DegenerateWhenDisconnected(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 50, 0, 1).
		Delivery(3, 90, 0, 1).
		Vehicle(4, 1, 2, 3).
		Snapshot()

	plan := route.Optimize(context.Background(), s, nil, route.DefaultOptions())
	require.Len(t, plan.Outcomes, 1)
	assert.True(t, plan.Outcomes[0].Degenerate)
	assert.Equal(t, "POD 4 1 3", action.Line(plan.Actions))
}

func TestOptimize_SkipsDestroyed(t *testing.T) {
	s := fixture().
		Vehicle(5, 1, 2, 3, 4, 1).
		Vehicle(6, 1, 3, 2, 4).
		Snapshot()

	plan := route.Optimize(context.Background(), s, map[int]bool{5: true}, route.DefaultOptions())
	assert.Equal(t, 1, plan.Skipped)
	assert.Equal(t, "POD 6 1 4", action.Line(plan.Actions))
}

func TestOptimize_TruncatedOnCancel(t *testing.T) {
	s := fixture().Vehicle(5, 1, 2, 3, 4, 1).Snapshot()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := route.Optimize(ctx, s, nil, route.DefaultOptions())
	assert.True(t, plan.Truncated)
	assert.Empty(t, plan.Outcomes)
	assert.Empty(t, plan.Actions)
}

func TestVehicle_SingleStop(t *testing.T) {
	s := fixture().Vehicle(9, 2).Snapshot()
	o, err := route.Vehicle(s, s.Vehicles[0], route.DefaultOptions())
	require.NoError(t, err)
	assert.False(t, o.Changed)
	assert.Equal(t, []int{2}, o.Route)
}
