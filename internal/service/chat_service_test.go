package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/pkg/serverutils"
	"ai-admissions-be/internal/repository/memory"
	"ai-admissions-be/pkg/ai/router"
	"ai-admissions-be/pkg/contact"
	"ai-admissions-be/pkg/llm/llmtest"
	"ai-admissions-be/pkg/rag/response"
	"ai-admissions-be/pkg/rag/search"
	"ai-admissions-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	svc      IChatService
	sessions *memory.SessionRepository
	contacts *memory.ContactRepository
	stats    *memory.StatsRepository
	answerer *llmtest.Provider
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, int) ([]search.Document, error) {
	return nil, errors.New("index offline")
}

var corpus = []search.Document{
	{Content: "L'école propose les programmes Data Science, Cybersécurité et FinTech.", Metadata: map[string]interface{}{"source": "https://ecole.fr/programmes"}},
	{Content: "Les frais de scolarité sont de 8000 euros par an.", Metadata: map[string]interface{}{"source": "data/frais.pdf"}},
}

func newHarness(t *testing.T, searcher search.DocumentSearcher, answerer *llmtest.Provider, composerTimeout time.Duration) *harness {
	t.Helper()
	log := logger.NewNopLogger()

	sessions := memory.NewSessionRepository(0)
	contacts := memory.NewContactRepository()
	stats := memory.NewStatsRepository()

	retriever, err := search.NewRetriever(searcher, search.DefaultConfig(), log)
	require.NoError(t, err)

	composerCfg := response.DefaultConfig()
	composerCfg.Timeout = composerTimeout

	svc := NewChatService(
		sessions,
		contacts,
		stats,
		router.New(nil, router.DefaultConfig(), log),
		retriever,
		response.NewComposer(answerer, composerCfg, log),
		contact.NewMachine(contacts, nil, log),
		log,
	)
	return &harness{svc: svc, sessions: sessions, contacts: contacts, stats: stats, answerer: answerer}
}

func defaultHarness(t *testing.T) *harness {
	return newHarness(t, search.NewMemorySearcher(corpus), &llmtest.Provider{Response: "Nous proposons Data Science et FinTech [1]."}, time.Second)
}

func TestChatService_ContactScenario(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	steps := []struct {
		message  string
		contains string
	}{
		{message: "Je veux être contacté", contains: "votre nom complet"},
		{message: "Jean Dupont", contains: "votre adresse email"},
		{message: "jean@test.com", contains: "votre numéro de téléphone"},
		{message: "0612345678", contains: "le programme"},
		{message: "Data Science", contains: "Récapitulatif"},
	}
	for _, step := range steps {
		reply, err := h.svc.HandleTurn(ctx, step.message, "visitor-1")
		require.NoError(t, err)
		assert.Contains(t, reply, step.contains, step.message)
	}

	reply, err := h.svc.HandleTurn(ctx, "oui", "visitor-1")
	require.NoError(t, err)
	assert.Equal(t, contact.MessageSaved, reply)

	saved := h.contacts.All()
	require.Len(t, saved, 1)
	assert.Equal(t, "jean@test.com", saved[0].Email)
	assert.Equal(t, "+33612345678", saved[0].Phone)

	// the form is closed, a knowledge question goes to the composer again
	reply, err = h.svc.HandleTurn(ctx, "Quels sont les programmes ?", "visitor-1")
	require.NoError(t, err)
	assert.Contains(t, reply, "Data Science et FinTech")
	assert.Equal(t, 1, h.answerer.Calls())

	sess, _ := h.sessions.Get("visitor-1")
	assert.Len(t, sess.History, 14)
}

func TestChatService_HalfFilledFormIsSticky(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	_, err := h.svc.HandleTurn(ctx, "Je veux être contacté", "s")
	require.NoError(t, err)
	_, err = h.svc.HandleTurn(ctx, "Jean Dupont", "s")
	require.NoError(t, err)

	// looks like a knowledge question but the form keeps the turn
	reply, err := h.svc.HandleTurn(ctx, "Quels sont les frais ?", "s")
	require.NoError(t, err)
	assert.Zero(t, h.answerer.Calls())
	assert.True(t, contact.IsFieldPrompt(reply))
}

func TestChatService_MixedAnswersThenOpensForm(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	res, err := h.svc.Chat(ctx, &dto.ChatRequest{Message: "Quels sont les programmes ? Contactez-moi", SessionId: "m"})
	require.NoError(t, err)
	assert.Equal(t, RouteMixed, res.Route)
	assert.Contains(t, res.Response, "Data Science et FinTech")
	assert.Contains(t, res.Response, "📚 Sources :\n1. https://ecole.fr/programmes")
	assert.Contains(t, res.Response, "Pouvons-nous prendre vos coordonnées ?")
	assert.Empty(t, res.Suggestions)

	sess, _ := h.sessions.Get("m")
	assert.True(t, sess.HasContactData())

	res, err = h.svc.Chat(ctx, &dto.ChatRequest{Message: "Jean Dupont", SessionId: "m"})
	require.NoError(t, err)
	assert.Equal(t, RouteContact, res.Route)
	assert.True(t, res.IsForm)
	assert.Contains(t, res.Response, "votre adresse email")
}

func TestChatService_CollaboratorFailuresBecomeMessages(t *testing.T) {
	ctx := context.Background()

	slow := newHarness(t, search.NewMemorySearcher(corpus), &llmtest.Provider{Delay: time.Second}, 20*time.Millisecond)
	reply, err := slow.svc.HandleTurn(ctx, "Quels sont les programmes ?", "a")
	require.NoError(t, err)
	assert.Equal(t, response.MessageUnavailable, reply)

	offline := newHarness(t, failingSearcher{}, &llmtest.Provider{Response: "x [1]"}, time.Second)
	reply, err = offline.svc.HandleTurn(ctx, "Quels sont les frais ?", "b")
	require.NoError(t, err)
	assert.Equal(t, response.MessageUnavailable, reply)
	assert.NotContains(t, reply, "index offline")
}

func TestChatService_Smalltalk(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	tests := []struct {
		message string
		want    string
	}{
		{message: "Bonjour !", want: smalltalkGreeting},
		{message: "merci beaucoup", want: smalltalkThanks},
		{message: "merci, au revoir", want: smalltalkGoodbye},
		{message: "azerty", want: smalltalkDefault},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			reply, err := h.svc.HandleTurn(ctx, tt.message, "small-"+tt.message)
			require.NoError(t, err)
			assert.Equal(t, tt.want, reply)
		})
	}

	res, err := h.svc.Chat(ctx, &dto.ChatRequest{Message: "salut"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.SessionId)
	assert.Equal(t, RouteSmalltalk, res.Route)
	assert.Equal(t, suggestionsByContext["welcome"], res.Suggestions)
}

func TestChatService_ConcurrentConfirmationsSaveOnce(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	require.NoError(t, h.sessions.WithSession(ctx, "double", func(s *store.Session) error {
		s.SetValue(store.FieldName, "Jean Dupont")
		s.SetValue(store.FieldEmail, "jean@test.com")
		s.SetValue(store.FieldPhone, "+33612345678")
		s.SetValue(store.FieldProgram, "Data Science")
		s.Form = store.AwaitingConfirmation()
		return nil
	}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = h.svc.HandleTurn(ctx, "oui", "double")
		}()
	}
	wg.Wait()

	assert.Len(t, h.contacts.All(), 1)
}

func TestChatService_EmptyMessage(t *testing.T) {
	h := defaultHarness(t)
	_, err := h.svc.HandleTurn(context.Background(), "   ", "s")
	assert.ErrorIs(t, err, serverutils.ErrBadRequest)
}

func TestChatService_SummaryResetAndStats(t *testing.T) {
	h := defaultHarness(t)
	ctx := context.Background()

	_, err := h.svc.GetSessionSummary(ctx, "missing")
	assert.ErrorIs(t, err, serverutils.ErrNotFound)

	for _, m := range []string{"Je veux être contacté", "Jean Dupont", "jean@test.com"} {
		_, err := h.svc.HandleTurn(ctx, m, "sum")
		require.NoError(t, err)
	}

	summary, err := h.svc.GetSessionSummary(ctx, "sum")
	require.NoError(t, err)
	assert.Equal(t, 6, summary.MessageCount)
	assert.Equal(t, 50, summary.FormCompletionPercent)
	assert.Equal(t, "collecting", summary.FormState)
	assert.Equal(t, "Jean Dupont", summary.ContactFields["name"])

	stats, err := h.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveSessions)
	assert.Equal(t, int64(0), stats.ContactsCollected)
	assert.Equal(t, int64(3), stats.Routes[RouteContact])

	require.NoError(t, h.svc.ResetSession(ctx, "sum"))
	assert.ErrorIs(t, h.svc.ResetSession(ctx, "sum"), serverutils.ErrNotFound)
}
