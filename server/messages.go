package server

import "encoding/json"

// 入站/出站消息均为 JSON 文本帧：{"type":"...","payload":{...}}
const (
	MsgInit              = "init"
	MsgPlayerJoined      = "player_joined"
	MsgPlayerMoved       = "player_moved"
	MsgPlayerLeft        = "player_left"
	MsgLeaderboardUpdate = "leaderboard_update"
	MsgMove              = "move"
)

// Envelope 消息信封；入站时 Payload 延迟解析
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// MovePayload 客户端移动消息。字段留为 any：
// 非数值（缺失/字符串/null）按轴回退到玩家当前坐标，不断开连接
type MovePayload struct {
	X any `json:"x"`
	Y any `json:"y"`
}

// InitPayload 接入后立即下发：自身 id + 全量玩家快照（含自己）
type InitPayload struct {
	ID      int                      `json:"id"`
	Players map[PlayerID]PlayerState `json:"players"`
}

// MovedPayload 某玩家被接受的移动（不回显给发起者）
type MovedPayload struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// LeftPayload 某玩家离开
type LeftPayload struct {
	ID int `json:"id"`
}

// encodeMessage 将事件序列化为单份字节，供整批扇出复用
func encodeMessage(typ string, payload any) ([]byte, error) {
	return json.Marshal(struct {
		Type    string `json:"type"`
		Payload any    `json:"payload"`
	}{Type: typ, Payload: payload})
}
