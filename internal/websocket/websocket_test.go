package websocket

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/pkg/serverutils"

	fws "github.com/fasthttp/websocket"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoChat struct{ fail bool }

func (e echoChat) Chat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	if e.fail {
		return nil, errors.New("boom")
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required: %w", serverutils.ErrBadRequest)
	}
	id := req.SessionId
	if id == "" {
		id = "assigned"
	}
	return &dto.ChatResponse{Response: "echo: " + req.Message, SessionId: id, Timestamp: time.Now()}, nil
}

func startServer(t *testing.T, chat ChatHandler) (string, *Hub) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(logger.NewNopLogger())
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewHandler(hub, chat).RegisterRoutes(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()

	t.Cleanup(func() {
		cancel()
		_ = app.Shutdown()
	})
	return "ws://" + ln.Addr().String() + "/ws/chat", hub
}

func exchange(t *testing.T, conn *fws.Conn, payload string) Frame {
	t.Helper()
	require.NoError(t, conn.WriteMessage(fws.TextMessage, []byte(payload)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(raw, &f))
	return f
}

func TestServeWs_RepliesAndKeepsSession(t *testing.T) {
	url, hub := startServer(t, echoChat{})

	conn, _, err := fws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	f := exchange(t, conn, `{"message":"bonjour"}`)
	require.Equal(t, FrameReply, f.Type)
	assert.Equal(t, "echo: bonjour", f.Data.Response)
	assert.Equal(t, "assigned", f.Data.SessionId)

	// the assigned session id is reused when the frame omits it
	f = exchange(t, conn, `{"message":"encore"}`)
	assert.Equal(t, "assigned", f.Data.SessionId)
	assert.Equal(t, 1, hub.Connected())
}

func TestServeWs_ErrorFrames(t *testing.T) {
	tests := []struct {
		name    string
		chat    ChatHandler
		payload string
		want    string
	}{
		{name: "not json", chat: echoChat{}, payload: `hello`, want: "Invalid frame"},
		{name: "missing message", chat: echoChat{}, payload: `{"session_id":"abc"}`},
		{name: "blank message", chat: echoChat{}, payload: `{"message":"   "}`, want: "message is required: bad request"},
		{name: "service failure", chat: echoChat{fail: true}, payload: `{"message":"bonjour"}`, want: "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, _ := startServer(t, tt.chat)
			conn, _, err := fws.DefaultDialer.Dial(url, nil)
			require.NoError(t, err)
			defer conn.Close()

			f := exchange(t, conn, tt.payload)
			assert.Equal(t, FrameError, f.Type)
			assert.NotEmpty(t, f.Message)
			if tt.want != "" {
				assert.Equal(t, tt.want, f.Message)
			}
			assert.Nil(t, f.Data)
		})
	}
}

func TestServeWs_RejectsPlainHTTP(t *testing.T) {
	app := fiber.New()
	NewHandler(NewHub(logger.NewNopLogger()), echoChat{}).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/chat", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
