package server

import (
	"encoding/json"
	"net/http"
	"time"
)

// HandleAdminConfig 提供运行参数的读取与更新（热更新基本规则）
// GET /admin/config  返回当前配置
// POST /admin/config 以 JSON 载荷更新部分字段
func (a *Arena) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	type cfg struct {
		LeaderboardIntervalMs  *int  `json:"leaderboardIntervalMs,omitempty"`
		LeaderboardTopN        *int  `json:"leaderboardTopN,omitempty"`
		SuppressUnchangedMoves *bool `json:"suppressUnchangedMoves,omitempty"`
	}

	switch r.Method {
	case http.MethodGet:
		a.mu.Lock()
		ms := int(a.lbInterval / time.Millisecond)
		topN := a.lbTopN
		sup := a.suppressNoChange
		a.mu.Unlock()
		cur := cfg{LeaderboardIntervalMs: &ms, LeaderboardTopN: &topN, SuppressUnchangedMoves: &sup}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(cur)
	case http.MethodPost:
		var body cfg
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		a.mu.Lock()
		if body.LeaderboardIntervalMs != nil && *body.LeaderboardIntervalMs > 0 {
			a.lbInterval = time.Duration(*body.LeaderboardIntervalMs) * time.Millisecond
		}
		if body.LeaderboardTopN != nil && *body.LeaderboardTopN > 0 {
			a.lbTopN = *body.LeaderboardTopN
		}
		if body.SuppressUnchangedMoves != nil {
			a.suppressNoChange = *body.SuppressUnchangedMoves
		}
		ms := int(a.lbInterval / time.Millisecond)
		topN := a.lbTopN
		sup := a.suppressNoChange
		a.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		Log.Infof("config updated: lbIntervalMs=%d lbTopN=%d suppressUnchanged=%v", ms, topN, sup)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
