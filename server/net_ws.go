package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var errSendQueueFull = errors.New("send queue full")

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	ws   *websocket.Conn
	send chan []byte
	once sync.Once
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		ws:   ws,
		send: make(chan []byte, 64),
	}
}

// Enqueue 将要发送的消息压入队列（非阻塞）。队列满时丢弃本帧并报错，
// 由调用方记录；慢消费者只会丢自己的消息，不会拖住服务端
func (c *ClientConn) Enqueue(b []byte) error {
	select {
	case c.send <- b:
		return nil
	default:
		return errSendQueueFull
	}
}

// Close 关闭底层连接与发送队列（幂等：断开路径与错误路径可能都调到这里）
func (c *ClientConn) Close() error {
	c.once.Do(func() {
		close(c.send)
	})
	return c.ws.Close()
}

// writePump 独立协程，负责从 send 队列写出到 WS
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		c.ws.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump 读取客户端消息并路由；读错误（含正常关闭）统一走断开路径
func (c *ClientConn) readPump(a *Arena, id PlayerID) {
	// 读泵退出即视为该连接终结，注册表移除 + player_left 广播
	defer a.HandleDisconnect(id)
	c.ws.SetReadLimit(1 << 20) // 1MB
	c.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.ws.SetPongHandler(func(string) error { c.ws.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			// 坏帧只记录并丢弃，连接保持打开
			a.metrics.IncMalformedFrames()
			Log.Debugf("player %d: malformed frame: %v", id, err)
			continue
		}
		switch env.Type {
		case MsgMove:
			var mv MovePayload
			if err := json.Unmarshal(env.Payload, &mv); err != nil {
				a.metrics.IncMalformedFrames()
				Log.Debugf("player %d: malformed move payload: %v", id, err)
				continue
			}
			a.HandleMove(id, mv)
		default:
			a.metrics.IncMalformedFrames()
			Log.Debugf("player %d: unknown message type %q", id, env.Type)
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// 演示环境：允许所有来源（生产环境需严格限制）
		return true
	},
}

// HandleWS WebSocket 接入：升级连接并接纳玩家
func (a *Arena) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		Log.Warnf("upgrade error: %v", err)
		return
	}

	client := NewClientConn(ws)
	id := a.HandleConnect(client)

	go client.writePump()
	go client.readPump(a, id)
}
