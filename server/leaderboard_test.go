package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLeaderboardOrdering(t *testing.T) {
	players := []PlayerState{
		{ID: 0, MaxX: 300, Color: "#111111"},
		{ID: 1, MaxX: 450, Color: "#222222"},
		{ID: 2, MaxX: 100, Color: "#333333"},
	}
	lb := computeLeaderboard(players, defaultLeaderboardTopN)
	require.Len(t, lb, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{lb[0].ID, lb[1].ID, lb[2].ID})
	assert.Equal(t, []int{450, 300, 100}, []int{lb[0].Score, lb[1].Score, lb[2].Score})
	assert.Equal(t, "#222222", lb[0].Color)
}

func TestComputeLeaderboardTruncatesToTopN(t *testing.T) {
	var players []PlayerState
	for i := 0; i < 8; i++ {
		players = append(players, PlayerState{ID: i, MaxX: float64(i * 10)})
	}
	lb := computeLeaderboard(players, defaultLeaderboardTopN)
	require.Len(t, lb, 5)
	// 降序且最低分被裁掉
	assert.Equal(t, 7, lb[0].ID)
	assert.Equal(t, 3, lb[4].ID)
	for i := 1; i < len(lb); i++ {
		assert.GreaterOrEqual(t, lb[i-1].Score, lb[i].Score)
	}
}

func TestComputeLeaderboardTieBreaksByLowerID(t *testing.T) {
	players := []PlayerState{
		{ID: 5, MaxX: 200},
		{ID: 2, MaxX: 200},
		{ID: 9, MaxX: 200},
	}
	lb := computeLeaderboard(players, defaultLeaderboardTopN)
	require.Len(t, lb, 3)
	assert.Equal(t, []int{2, 5, 9}, []int{lb[0].ID, lb[1].ID, lb[2].ID})
}

func TestComputeLeaderboardRoundsScore(t *testing.T) {
	players := []PlayerState{
		{ID: 0, MaxX: 10.6},
		{ID: 1, MaxX: 10.4},
	}
	lb := computeLeaderboard(players, defaultLeaderboardTopN)
	assert.Equal(t, 11, lb[0].Score)
	assert.Equal(t, 10, lb[1].Score)
}

func TestComputeLeaderboardEmpty(t *testing.T) {
	assert.Empty(t, computeLeaderboard(nil, defaultLeaderboardTopN))
}

func TestLeaderboardTracksRegistryMembership(t *testing.T) {
	a, _ := newTestArena(t, 3)
	a.HandleMove(0, MovePayload{X: float64(300), Y: float64(100)})
	a.HandleMove(1, MovePayload{X: float64(450), Y: float64(100)})
	a.HandleMove(2, MovePayload{X: float64(100), Y: float64(100)})

	a.mu.Lock()
	lb := computeLeaderboard(a.reg.Snapshot(), a.lbTopN)
	a.mu.Unlock()
	require.Len(t, lb, 3)
	assert.Equal(t, 1, lb[0].ID)
	assert.Equal(t, 450, lb[0].Score)

	// 成员离开后排名中绝不再出现其 id
	a.HandleDisconnect(1)
	a.mu.Lock()
	lb = computeLeaderboard(a.reg.Snapshot(), a.lbTopN)
	a.mu.Unlock()
	require.Len(t, lb, 2)
	for _, e := range lb {
		assert.NotEqual(t, 1, e.ID)
	}
}
