package websocket

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	hub  *Hub
	chat ChatHandler
}

func NewHandler(hub *Hub, chat ChatHandler) *Handler {
	return &Handler{hub: hub, chat: chat}
}

func (h *Handler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws/chat", websocket.New(h.ServeWs))
}

// ServeWs runs one chat connection. An optional session_id query parameter
// resumes an existing conversation.
func (h *Handler) ServeWs(c *websocket.Conn) {
	client := &Client{
		Hub:       h.hub,
		Conn:      c,
		SessionID: c.Query("session_id"),
		Send:      make(chan []byte, 16),
		chat:      h.chat,
	}
	if !h.hub.join(client) {
		c.Close()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.writePump()
	client.readPump(ctx)
}
