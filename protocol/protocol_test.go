package protocol_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsetzer/codingame-fall-2024/network"
	"github.com/dsetzer/codingame-fall-2024/protocol"
)

const twoTurns = `
3000
0
0
3
0 1 80 60 3 1 2 2
1 2 30 40
2 3 120 90

1500
2
1 2 1
1 3 0
1
1 3 1 2 1
1
3 4 10 10
`

func TestSession_ReadsTurnsAndKeepsStations(t *testing.T) {
	s := protocol.NewSession(strings.NewReader(twoTurns))

	w, err := s.ReadTurn()
	require.NoError(t, err)
	assert.Equal(t, 3000, w.Budget)
	assert.Empty(t, w.Links)
	assert.Empty(t, w.Vehicles)
	require.Len(t, w.Stations, 3)
	assert.Equal(t, network.StationSpec{ID: 1, Type: 0, X: 80, Y: 60, Pending: map[int]int{1: 1, 2: 2}}, w.Stations[0])
	assert.Equal(t, network.StationSpec{ID: 3, Type: 2, X: 120, Y: 90}, w.Stations[2])

	w, err = s.ReadTurn()
	require.NoError(t, err)
	assert.Equal(t, 1500, w.Budget)
	assert.Equal(t, []network.LinkSpec{{A: 1, B: 2, Capacity: 1}, {A: 1, B: 3, Capacity: 0}}, w.Links)
	assert.Equal(t, []network.VehicleSpec{{ID: 1, Route: []int{1, 2, 1}}}, w.Vehicles)
	require.Len(t, w.Stations, 4, "earlier buildings are carried over")
	assert.Equal(t, 4, w.Stations[3].ID)
	assert.Equal(t, 2, s.Turn())

	_, err = s.ReadTurn()
	assert.Equal(t, io.EOF, err)
}

func TestSession_WorldBuildsCleanly(t *testing.T) {
	s := protocol.NewSession(strings.NewReader(twoTurns))
	_, err := s.ReadTurn()
	require.NoError(t, err)
	w, err := s.ReadTurn()
	require.NoError(t, err)

	snap := network.Build(w, network.DefaultRules())
	assert.Empty(t, snap.Issues)
	assert.Len(t, snap.Links, 1)
	assert.Len(t, snap.Teleports, 1)
	assert.Equal(t, 3, snap.Stations[0].TotalPending())
}

func TestSession_ReannouncedBuildingReplaces(t *testing.T) {
	s := protocol.NewSession(strings.NewReader("0 0 0 1 1 7 5 5\n0 0 0 1 2 7 9 9\n"))
	_, err := s.ReadTurn()
	require.NoError(t, err)
	w, err := s.ReadTurn()
	require.NoError(t, err)
	require.Len(t, w.Stations, 1)
	assert.Equal(t, network.StationSpec{ID: 7, Type: 2, X: 9, Y: 9}, w.Stations[0])
	assert.Equal(t, 1, s.Stations())
}

func TestSession_Malformed(t *testing.T) {
	for name, in := range map[string]string{
		"not an integer":   "100 x",
		"negative count":   "100 -1",
		"truncated route":  "100 1 1 2",
		"truncated pod":    "100 0 1 5 3 1",
		"negative type":    "100 0 0 1 -2 1 0 0",
		"missing building": "100 0 0 2 1 1 0 0",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := protocol.NewSession(strings.NewReader(in)).ReadTurn()
			require.ErrorIs(t, err, protocol.ErrMalformed)
			assert.False(t, errors.Is(err, io.EOF), "mid-turn EOF must not look like a clean end")
		})
	}
}

func TestSession_EmptyInput(t *testing.T) {
	_, err := protocol.NewSession(strings.NewReader("  \n")).ReadTurn()
	assert.Equal(t, io.EOF, err)
}
