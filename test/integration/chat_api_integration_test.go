package integration

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-admissions-be/internal/bootstrap"
	"ai-admissions-be/internal/config"
	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/serverutils"
	"ai-admissions-be/internal/server"
	"ai-admissions-be/pkg/contact"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newOfflineApp runs the whole stack without a database and with an LLM
// endpoint that refuses connections, so routing uses the keyword fallback.
func newOfflineApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	dir := t.TempDir()
	contactsPath := filepath.Join(dir, "contacts.json")

	t.Setenv("DB_CONNECTION_STRING", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NATS_URL", "")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("LLM_BASE_URL", "http://127.0.0.1:1")
	t.Setenv("ROUTER_TIMEOUT_MS", "500")
	t.Setenv("LLM_TIMEOUT_MS", "500")
	t.Setenv("CORPUS_PATH", "../../data/corpus.json")
	t.Setenv("CONTACTS_FILE_PATH", contactsPath)
	t.Setenv("LOG_FILE_PATH", filepath.Join(dir, "app.log.json"))
	t.Setenv("LOG_QUIET_CONSOLE", "true")

	cfg := config.Load()
	container, err := bootstrap.NewContainer(nil, cfg)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	return server.New(cfg, container).GetApp(), contactsPath
}

func postChat(t *testing.T, app *fiber.App, message, sessionID string) dto.ChatResponse {
	t.Helper()
	body, err := json.Marshal(dto.ChatRequest{Message: message, SessionId: sessionID})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/chat", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var res serverutils.BaseResponse[dto.ChatResponse]
	require.NoError(t, json.Unmarshal(raw, &res))
	require.True(t, res.Success)
	return res.Data
}

func TestChatAPI_ContactCollectionEndToEnd(t *testing.T) {
	app, contactsPath := newOfflineApp(t)

	first := postChat(t, app, "Je veux être contacté", "")
	require.NotEmpty(t, first.SessionId)
	assert.Equal(t, "contact", first.Route)
	assert.True(t, first.IsForm)

	sid := first.SessionId
	for _, msg := range []string{"Jean Dupont", "jean@test.com", "0612345678", "Data Science"} {
		res := postChat(t, app, msg, sid)
		assert.Equal(t, sid, res.SessionId)
	}

	saved := postChat(t, app, "oui", sid)
	assert.Equal(t, contact.MessageSaved, saved.Response)
	// the form is closed again, so follow-up suggestions come back
	assert.NotEmpty(t, saved.Suggestions)

	raw, err := os.ReadFile(contactsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "jean@test.com")
	assert.Contains(t, string(raw), "+33612345678")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/stats", nil), -1)
	require.NoError(t, err)
	var stats serverutils.BaseResponse[dto.StatsResponse]
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, int64(1), stats.Data.ContactsCollected)
}

func TestChatAPI_InformationWithoutLLM(t *testing.T) {
	app, _ := newOfflineApp(t)

	res := postChat(t, app, "Quels sont les frais de scolarité ?", "")
	assert.Equal(t, "information", res.Route)
	assert.False(t, res.IsForm)
	assert.NotEmpty(t, res.Response)
}

func TestChatAPI_SessionLifecycle(t *testing.T) {
	app, _ := newOfflineApp(t)
	res := postChat(t, app, "Bonjour", "")

	resp, err := app.Test(httptest.NewRequest("GET", "/api/session/"+res.SessionId, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/session/"+res.SessionId, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/session/"+res.SessionId, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
