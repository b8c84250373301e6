package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
)

// Metrics 记录服务运行期的关键指标（用于监控与调试）
type Metrics struct {
	Connects        int64 // 接纳的连接数
	Disconnects     int64 // 完成移除的断开数
	MovesApplied    int64 // 被接受并广播的移动数
	MovesSuppressed int64 // 因位置无变化被抑制的移动数
	MalformedFrames int64 // 坏帧（非法 JSON / 未知类型）数
	SendDrops       int64 // 单连接投递失败（队列满等）数
	LeaderboardRuns int64 // 排行榜计算并广播的次数
}

func (m *Metrics) IncConnects()        { atomic.AddInt64(&m.Connects, 1) }
func (m *Metrics) IncDisconnects()     { atomic.AddInt64(&m.Disconnects, 1) }
func (m *Metrics) IncMovesApplied()    { atomic.AddInt64(&m.MovesApplied, 1) }
func (m *Metrics) IncMovesSuppressed() { atomic.AddInt64(&m.MovesSuppressed, 1) }
func (m *Metrics) IncMalformedFrames() { atomic.AddInt64(&m.MalformedFrames, 1) }
func (m *Metrics) IncSendDrops()       { atomic.AddInt64(&m.SendDrops, 1) }
func (m *Metrics) IncLeaderboardRuns() { atomic.AddInt64(&m.LeaderboardRuns, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"connects":         atomic.LoadInt64(&m.Connects),
		"disconnects":      atomic.LoadInt64(&m.Disconnects),
		"moves_applied":    atomic.LoadInt64(&m.MovesApplied),
		"moves_suppressed": atomic.LoadInt64(&m.MovesSuppressed),
		"malformed_frames": atomic.LoadInt64(&m.MalformedFrames),
		"send_drops":       atomic.LoadInt64(&m.SendDrops),
		"leaderboard_runs": atomic.LoadInt64(&m.LeaderboardRuns),
	}
}

// HandleMetrics 输出运行指标
// GET /metrics
func (a *Arena) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	online := a.reg.Len()
	a.mu.Unlock()
	payload := map[string]any{
		"online":  online,
		"metrics": a.metrics.Snapshot(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
