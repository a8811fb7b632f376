package controller

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/serverutils"
	"ai-admissions-be/internal/service"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatService struct {
	lastRequest *dto.ChatRequest
}

func (f *fakeChatService) HandleTurn(context.Context, string, string) (string, error) {
	return "", nil
}

func (f *fakeChatService) Chat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	f.lastRequest = req
	return &dto.ChatResponse{Response: "Bonjour !", SessionId: "generated", Route: service.RouteSmalltalk, Suggestions: []string{"Les programmes"}, Timestamp: time.Now()}, nil
}

func (f *fakeChatService) GetSessionSummary(_ context.Context, id string) (*dto.SessionSummaryResponse, error) {
	if id != "known" {
		return nil, fmt.Errorf("session %s: %w", id, serverutils.ErrNotFound)
	}
	return &dto.SessionSummaryResponse{SessionId: id, MessageCount: 4, FormCompletionPercent: 25}, nil
}

func (f *fakeChatService) ResetSession(_ context.Context, id string) error { return nil }

func (f *fakeChatService) Stats(context.Context) (*dto.StatsResponse, error) {
	return &dto.StatsResponse{ActiveSessions: 2, Routes: map[string]int64{"contact": 3}}, nil
}

type fakeHealth struct{ status string }

func (f fakeHealth) Check(context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{Status: f.status, Checks: map[string]string{}}
}

func newTestApp(chat service.IChatService, health service.IHealthService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewChatController(chat, health).RegisterRoutes(app.Group("/api"))
	return app
}

func decode[T any](t *testing.T, body io.Reader) serverutils.BaseResponse[T] {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var res serverutils.BaseResponse[T]
	require.NoError(t, json.Unmarshal(raw, &res))
	return res
}

func TestChatController_Chat(t *testing.T) {
	chat := &fakeChatService{}
	app := newTestApp(chat, fakeHealth{status: service.StatusHealthy})

	tests := []struct {
		name string
		body string
		code int
	}{
		{name: "valid", body: `{"message":"bonjour"}`, code: 200},
		{name: "missing message", body: `{"session_id":"abc"}`, code: 400},
		{name: "malformed json", body: `{"message":`, code: 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(`{"message":"bonjour","session_id":"s-1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	res := decode[dto.ChatResponse](t, resp.Body)
	assert.True(t, res.Success)
	assert.Equal(t, "Bonjour !", res.Data.Response)
	assert.Equal(t, "s-1", chat.lastRequest.SessionId)
}

func TestChatController_Session(t *testing.T) {
	app := newTestApp(&fakeChatService{}, fakeHealth{status: service.StatusHealthy})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/session/known", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	res := decode[dto.SessionSummaryResponse](t, resp.Body)
	assert.Equal(t, 25, res.Data.FormCompletionPercent)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/session/unknown", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/session/known", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestChatController_HealthAndStats(t *testing.T) {
	healthy := newTestApp(&fakeChatService{}, fakeHealth{status: service.StatusHealthy})
	resp, err := healthy.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	degraded := newTestApp(&fakeChatService{}, fakeHealth{status: service.StatusDegraded})
	resp, err = degraded.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)

	resp, err = healthy.Test(httptest.NewRequest("GET", "/api/stats", nil), -1)
	require.NoError(t, err)
	stats := decode[dto.StatsResponse](t, resp.Body)
	assert.Equal(t, int64(3), stats.Data.Routes["contact"])
}
