package ws

import (
	"encoding/json"
	"time"

	"corpmatch_backend/internal/logger"
	"corpmatch_backend/internal/services"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan Event

	Manager        *WebSocketManager
	MessageService services.MessageService
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "user_id", c.ID, "error", err.Error())
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.Debug("ws invalid message", "user_id", c.ID)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage обрабатывает входящие действия клиента
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "mark_read":
		var payload struct {
			OtherUserID string `json:"other_user_id"`
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			logger.Debug("ws invalid mark_read payload", "user_id", c.ID)
			return
		}
		if err := c.MessageService.MarkConversationRead(c.ID, payload.OtherUserID); err != nil {
			logger.WithError(err).Debug("ws mark_read failed", "user_id", c.ID)
		}

	default:
		logger.Debug("ws unhandled action", "action", msg.Action)
	}
}
