package websocket

import (
	"context"
	"sync"

	"ai-admissions-be/internal/pkg/logger"
)

// Hub tracks the live chat connections, keyed by session id. A session may
// be open in several tabs at once.
type Hub struct {
	clients map[string][]*Client

	unregister chan *Client

	// done is closed once Run returns.
	done chan struct{}

	mu     sync.RWMutex
	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     log,
	}
}

// Run serves unregister requests until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"session_id": client.SessionID})
	}
}

// rekey moves a client to the session id assigned by the first reply.
func (h *Hub) rekey(client *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
	}
	client.SessionID = sessionID
	h.clients[sessionID] = append(h.clients[sessionID], client)
}

// join registers the client before its pumps start, so a reply can never
// rekey a client the hub does not know yet.
func (h *Hub) join(client *Client) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	h.mu.Lock()
	h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
	h.mu.Unlock()
	h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionID})
	return true
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Connected returns the number of open connections.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}
