package dijkstra_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/dijkstra"
	"github.com/dsetzer/codingame-fall-2024/network"
	"github.com/dsetzer/codingame-fall-2024/network/networktest"
)

// 1. Validation Tests

func TestShortestPath_Errors(t *testing.T) {
	_, err := dijkstra.ShortestPath(nil, 0, 1)
	require.ErrorIs(t, err, dijkstra.ErrNilSnapshot)

	s := networktest.New().Supply(1, 0, 0, nil).Snapshot()
	_, err = dijkstra.ShortestPath(s, 3, 0)
	require.ErrorIs(t, err, dijkstra.ErrStationNotFound)
	_, err = dijkstra.ShortestPath(s, 0, -1)
	require.ErrorIs(t, err, dijkstra.ErrStationNotFound)
}

// 2. Teleports

func teleportLine() *network.Snapshot {
	// 1 -(100)- 2 => 3 -(10)- 4, and a slow link 1 -(~316)- 4.
	return networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 100, 0, 1).
		Delivery(3, 100, 300, 1).
		Delivery(4, 100, 310, 1).
		Link(1, 2, 1).
		Link(3, 4, 1).
		Link(1, 4, 1).
		Teleport(2, 3).
		Snapshot()
}

func TestShortestPath_TeleportIsFree(t *testing.T) {
	s := teleportLine()
	p, err := dijkstra.ShortestPath(s, 0, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, p.Stations)
	assert.InDelta(t, 110.0, p.Cost, 1e-9)
	assert.False(t, p.Degenerate)

	p, err = dijkstra.ShortestPath(s, 3, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 0}, p.Stations, "the teleport cannot be taken backwards")
	assert.InDelta(t, math.Hypot(100, 310), p.Cost, 1e-9)
}

func TestShortestPath_TeleportIsDirected(t *testing.T) {
	s := networktest.New().
		Supply(1, 0, 0, nil).
		Delivery(2, 10, 0, 1).
		Teleport(1, 2).
		Snapshot()

	p, err := dijkstra.ShortestPath(s, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, p.Stations)
	assert.Zero(t, p.Cost)

	p, err = dijkstra.ShortestPath(s, 1, 0)
	require.NoError(t, err)
	assert.True(t, p.Degenerate)
	assert.True(t, math.IsInf(p.Cost, 1))
}

// 3. Distances

func TestShortestPath_SettledDistances(t *testing.T) {
	s := teleportLine()
	for to, want := range []float64{0, 100, 100, 110} {
		p, err := dijkstra.ShortestPath(s, 0, to)
		require.NoError(t, err)
		assert.InDelta(t, want, p.Cost, 1e-9, "station %d", to)
	}
}

func TestShortestPath_SameStation(t *testing.T) {
	s := teleportLine()
	p, err := dijkstra.ShortestPath(s, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, p.Stations)
	assert.Zero(t, p.Cost)
}

func TestShortestPath_EqualCostKeepsFirstPredecessor(t *testing.T) {
	// Square: 0 → 3 via 1 or via 2, both of length 20.
	s := networktest.New().
		Supply(0, 0, 0, nil).
		Delivery(1, 10, 0, 1).
		Delivery(2, 0, 10, 1).
		Delivery(3, 10, 10, 1).
		Link(0, 1, 1).
		Link(0, 2, 1).
		Link(1, 3, 1).
		Link(2, 3, 1).
		Snapshot()

	for i := 0; i < 5; i++ {
		p, err := dijkstra.ShortestPath(s, 0, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 3}, p.Stations)
	}
}
