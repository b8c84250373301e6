package server

import (
	"fmt"
	"math/rand"
	"sort"
)

// Registry 连接注册表：id → Player 的唯一权威映射。
// 本身不加锁，也不做任何 I/O；所有访问由 Arena 的互斥域串行化。
type Registry struct {
	players map[PlayerID]*Player
	nextID  PlayerID // 进程级单调递增，仅进程重启时归零
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{players: make(map[PlayerID]*Player)}
}

// Admit 为新连接创建 Player：分配新 id、出生点与颜色，MaxX 初始化为出生 X
func (reg *Registry) Admit(conn Conn) *Player {
	id := reg.nextID
	reg.nextID++
	// 出生点靠近左边缘，纵向随机
	startX := float64(50 + rand.Intn(100))
	startY := float64(50 + rand.Intn(300))
	p := &Player{
		ID:        id,
		X:         startX,
		Y:         startY,
		Color:     randomColor(),
		MaxX:      startX,
		lastSentX: startX,
		lastSentY: startY,
		Conn:      conn,
	}
	reg.players[id] = p
	return p
}

// Remove 删除玩家条目；不存在时返回 nil,false（断开与错误路径可能竞争，删除需幂等）
func (reg *Registry) Remove(id PlayerID) (*Player, bool) {
	p, ok := reg.players[id]
	if !ok {
		return nil, false
	}
	delete(reg.players, id)
	return p, true
}

// Get 按 id 查询玩家，不存在返回 nil
func (reg *Registry) Get(id PlayerID) *Player {
	return reg.players[id]
}

// Len 当前在线玩家数
func (reg *Registry) Len() int {
	return len(reg.players)
}

// Snapshot 返回按 id 升序的状态副本，供排行榜计算与初始状态下发
func (reg *Registry) Snapshot() []PlayerState {
	out := make([]PlayerState, 0, len(reg.players))
	for _, p := range reg.players {
		out = append(out, p.State())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// StateMap 返回 id → 状态 的副本（init 消息的 players 字段）
func (reg *Registry) StateMap() map[PlayerID]PlayerState {
	out := make(map[PlayerID]PlayerState, len(reg.players))
	for id, p := range reg.players {
		out[id] = p.State()
	}
	return out
}

// 颜色重试上限：避免无界循环（原则上几次就能命中非浅色）
const colorRetries = 16

// randomColor 生成 #RRGGBB 随机颜色，回避三通道均 >200 的近白值（对比度下限）
func randomColor() string {
	for i := 0; i < colorRetries; i++ {
		r := rand.Intn(256)
		g := rand.Intn(256)
		b := rand.Intn(256)
		if r > 200 && g > 200 && b > 200 {
			continue // 太浅，重掷
		}
		return fmt.Sprintf("#%02X%02X%02X", r, g, b)
	}
	return "#202020"
}
