package server

// PlayerID 表示玩家唯一标识：进程内单调递增，永不复用
type PlayerID int

// 场地与玩家尺寸常量（坐标钳制域为 [0, FieldWidth-PlayerSize] × [0, FieldHeight-PlayerSize]）
const (
	FieldWidth  = 600
	FieldHeight = 400
	PlayerSize  = 20
)

// PlayerState 为对外（广播/快照）的轻量状态，不包含连接句柄
type PlayerState struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	MaxX  float64 `json:"maxX"`
}

// Player 注册表内的玩家实体（服务端权威状态）
type Player struct {
	ID    PlayerID
	X     float64
	Y     float64
	Color string  // 接入时随机分配，连接存续期内不变
	MaxX  float64 // 历史最右位置（计分指标），单调不减

	// 上一次广播出去的位置，用于抑制无变化的 player_moved
	lastSentX float64
	lastSentY float64

	Conn Conn // 发送端句柄，仅用于投递，不参与身份比较
}

// State 返回对外可见的状态副本
func (p *Player) State() PlayerState {
	return PlayerState{ID: int(p.ID), X: p.X, Y: p.Y, Color: p.Color, MaxX: p.MaxX}
}
