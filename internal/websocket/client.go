package websocket

import (
	"context"
	"errors"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/serverutils"

	"github.com/goccy/go-json"
	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
)

const (
	FrameReply = "reply"
	FrameError = "error"
)

// Frame is what the server writes back for every inbound message.
type Frame struct {
	Type    string            `json:"type"`
	Data    *dto.ChatResponse `json:"data,omitempty"`
	Message string            `json:"message,omitempty"`
}

// ChatHandler answers one chat turn.
type ChatHandler interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub  *Hub
	Conn *websocket.Conn

	// SessionID is empty until the first reply assigns one.
	SessionID string

	// Buffered channel of outbound frames.
	Send chan []byte

	chat ChatHandler
}

// readPump handles the inbound frames one at a time so the turns of a
// connection keep their order.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.Hub.leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected close", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
			}
			return
		}
		c.enqueue(c.handle(ctx, raw))
	}
}

func (c *Client) handle(ctx context.Context, raw []byte) Frame {
	var req dto.ChatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return Frame{Type: FrameError, Message: "Invalid frame"}
	}
	if req.SessionId == "" {
		req.SessionId = c.SessionID
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return Frame{Type: FrameError, Message: err.Error()}
	}

	res, err := c.chat.Chat(ctx, &req)
	if errors.Is(err, serverutils.ErrBadRequest) {
		return Frame{Type: FrameError, Message: err.Error()}
	}
	if err != nil {
		c.Hub.logger.Error("Hub", "Chat turn failed", map[string]interface{}{"session_id": req.SessionId, "error": err.Error()})
		return Frame{Type: FrameError, Message: "Internal server error"}
	}

	if res.SessionId != c.SessionID {
		c.Hub.rekey(c, res.SessionId)
	}
	return Frame{Type: FrameReply, Data: res}
}

func (c *Client) enqueue(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Hub", "Send buffer full, dropping frame", map[string]interface{}{"session_id": c.SessionID})
	}
}

// writePump pumps frames from Send to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
