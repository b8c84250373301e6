package server

import (
	"math"
	"sort"
	"time"
)

const (
	// 排行榜默认每 3 秒全员推送一次；玩家离开时额外立即推送
	defaultLeaderboardInterval = 3 * time.Second
	defaultLeaderboardTopN     = 5
)

// LeaderboardEntry 排行榜条目（派生数据，不落地）
type LeaderboardEntry struct {
	ID    int    `json:"id"`
	Score int    `json:"score"`
	Color string `json:"color"`
}

// computeLeaderboard 纯函数：按 MaxX 降序取前 topN，分数四舍五入。
// MaxX 相同按 id 小者在前（确定性并列规则，不依赖排序稳定性）
func computeLeaderboard(players []PlayerState, topN int) []LeaderboardEntry {
	sorted := make([]PlayerState, len(players))
	copy(sorted, players)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MaxX != sorted[j].MaxX {
			return sorted[i].MaxX > sorted[j].MaxX
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > topN {
		sorted = sorted[:topN]
	}
	out := make([]LeaderboardEntry, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, LeaderboardEntry{ID: p.ID, Score: int(math.Round(p.MaxX)), Color: p.Color})
	}
	return out
}

// broadcastLeaderboardLocked 重算并向全员（不排除任何人）推送；调用方持有 a.mu
func (a *Arena) broadcastLeaderboardLocked() {
	msg, err := encodeMessage(MsgLeaderboardUpdate, computeLeaderboard(a.reg.Snapshot(), a.lbTopN))
	if err != nil {
		return
	}
	a.broadcastLocked(msg, NoExclude)
	a.metrics.IncLeaderboardRuns()
}

// BroadcastLeaderboard 供周期循环与测试使用的入口
func (a *Arena) BroadcastLeaderboard() {
	a.mu.Lock()
	a.broadcastLeaderboardLocked()
	a.mu.Unlock()
}

// StartLeaderboardTicker 启动进程级排行榜周期循环（无取消：与进程同生命周期）。
// 用 Sleep 而非固定 Ticker，使 /admin/config 调整的间隔在下一轮即生效
func (a *Arena) StartLeaderboardTicker() {
	go func() {
		for {
			a.mu.Lock()
			d := a.lbInterval
			a.mu.Unlock()
			time.Sleep(d)
			a.BroadcastLeaderboard()
		}
	}()
}
