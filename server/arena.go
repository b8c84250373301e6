package server

import (
	"sync"
	"time"
)

// Conn 是广播所需的最小发送端能力（真实实现为 ClientConn，测试用假实现）
type Conn interface {
	Enqueue(b []byte) error
	Close() error
}

// NoExclude 表示扇出不排除任何连接
const NoExclude PlayerID = -1

// Arena 单一场地：持有注册表并串行化其全部读写。
// 接入、移动、断开与排行榜快照都在同一互斥域内完成，
// 快照不会观察到写了一半的 Player。
type Arena struct {
	mu  sync.Mutex
	reg *Registry

	metrics *Metrics

	// 运行期可调参数（/admin/config 热更新），同样受 mu 保护
	lbInterval       time.Duration
	lbTopN           int
	suppressNoChange bool
}

// NewArena 创建场地并注入注册表（注册表由此独占，外部不得再直接访问）
func NewArena(reg *Registry) *Arena {
	return &Arena{
		reg:              reg,
		metrics:          &Metrics{},
		lbInterval:       defaultLeaderboardInterval,
		lbTopN:           defaultLeaderboardTopN,
		suppressNoChange: true,
	}
}

// HandleConnect 接纳新连接：注册 → 下发 init → 向其他人广播 player_joined →
// 立即补发一份当前排行榜（不必等下个周期）
func (a *Arena) HandleConnect(conn Conn) PlayerID {
	a.mu.Lock()
	p := a.reg.Admit(conn)

	initMsg, err := encodeMessage(MsgInit, InitPayload{ID: int(p.ID), Players: a.reg.StateMap()})
	if err == nil {
		a.deliver(p, initMsg)
	}

	joined, err := encodeMessage(MsgPlayerJoined, p.State())
	if err == nil {
		a.broadcastLocked(joined, p.ID)
	}

	if lb, err := encodeMessage(MsgLeaderboardUpdate, computeLeaderboard(a.reg.Snapshot(), a.lbTopN)); err == nil {
		a.deliver(p, lb)
	}
	count := a.reg.Len()
	a.mu.Unlock()

	a.metrics.IncConnects()
	Log.Infof("player %d connected (online=%d)", p.ID, count)
	return p.ID
}

// HandleMove 移动摄入：按轴钳制/回退 → 写入位置与 MaxX → 向其他人广播。
// id 已不在注册表（断开处理竞争）时静默丢弃
func (a *Arena) HandleMove(id PlayerID, mv MovePayload) {
	a.mu.Lock()
	defer a.mu.Unlock()

	p := a.reg.Get(id)
	if p == nil {
		return
	}

	newX := clampAxis(mv.X, p.X, FieldWidth-PlayerSize)
	newY := clampAxis(mv.Y, p.Y, FieldHeight-PlayerSize)

	p.X = newX
	p.Y = newY
	if newX > p.MaxX {
		p.MaxX = newX
	}

	// 与上次广播值相同则不再扇出（量控）；管理端可关闭该抑制
	if a.suppressNoChange && newX == p.lastSentX && newY == p.lastSentY {
		a.metrics.IncMovesSuppressed()
		return
	}
	p.lastSentX = newX
	p.lastSentY = newY

	msg, err := encodeMessage(MsgPlayerMoved, MovedPayload{ID: int(id), X: newX, Y: newY})
	if err != nil {
		return
	}
	a.broadcastLocked(msg, id)
	a.metrics.IncMovesApplied()
}

// HandleDisconnect 断开与传输错误的汇合点：移除 → 广播 player_left →
// 立刻重算并广播排行榜（离开者的分数必须从可见排名中清除）。
// 幂等：条目已不存在时不做任何事，保证 player_left 不会重复
func (a *Arena) HandleDisconnect(id PlayerID) {
	a.mu.Lock()
	p, ok := a.reg.Remove(id)
	if !ok {
		a.mu.Unlock()
		return
	}
	_ = p.Conn.Close()

	if msg, err := encodeMessage(MsgPlayerLeft, LeftPayload{ID: int(id)}); err == nil {
		a.broadcastLocked(msg, NoExclude)
	}
	a.broadcastLeaderboardLocked()
	count := a.reg.Len()
	a.mu.Unlock()

	a.metrics.IncDisconnects()
	Log.Infof("player %d disconnected (online=%d)", id, count)
}

// broadcastLocked 将已序列化的消息投递到除 exclude 外的所有在线连接。
// 单个连接投递失败只记录与计数，绝不中断整批，也不向调用方抛出。
// 调用方必须持有 a.mu
func (a *Arena) broadcastLocked(msg []byte, exclude PlayerID) {
	for id, p := range a.reg.players {
		if id == exclude {
			continue
		}
		a.deliver(p, msg)
	}
}

// deliver 单连接投递，失败隔离到该连接
func (a *Arena) deliver(p *Player, msg []byte) {
	if p.Conn == nil {
		return
	}
	if err := p.Conn.Enqueue(msg); err != nil {
		a.metrics.IncSendDrops()
		Log.Debugf("send to player %d dropped: %v", p.ID, err)
	}
}

// clampAxis 单轴钳制：非数值输入回退到 cur，数值钳入 [0, max]
func clampAxis(v any, cur, max float64) float64 {
	f, ok := numeric(v)
	if !ok {
		return cur
	}
	if f < 0 {
		return 0
	}
	if f > max {
		return max
	}
	return f
}

// numeric 判断 JSON 解码值是否为数值（encoding/json 的数字一律是 float64）
func numeric(v any) (float64, bool) {
	f, ok := v.(float64)
	return f, ok
}
