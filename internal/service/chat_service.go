package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-admissions-be/internal/dto"
	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/internal/pkg/serverutils"
	"ai-admissions-be/internal/repository/contract"
	"ai-admissions-be/internal/repository/memory"
	"ai-admissions-be/pkg/ai/router"
	"ai-admissions-be/pkg/contact"
	"ai-admissions-be/pkg/rag/response"
	"ai-admissions-be/pkg/rag/search"
	"ai-admissions-be/pkg/store"

	"github.com/google/uuid"
)

const (
	logModule = "ORCHESTRATOR"

	mixedContactInvite = "\n\nJe vois que vous souhaitez également être contacté. Pouvons-nous prendre vos coordonnées ?"
	messageApology     = "Désolé, une erreur s'est produite. Pouvez-vous reformuler votre demande ?"
)

// Route names reported per turn.
const (
	RouteInformation = "information"
	RouteContact     = "contact"
	RouteMixed       = "mixed"
	RouteSmalltalk   = "smalltalk"
)

var ErrEmptyMessage = fmt.Errorf("message is required: %w", serverutils.ErrBadRequest)

type IChatService interface {
	HandleTurn(ctx context.Context, message, sessionID string) (string, error)
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetSessionSummary(ctx context.Context, sessionID string) (*dto.SessionSummaryResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
	Stats(ctx context.Context) (*dto.StatsResponse, error)
}

// Retriever is the part of search.Retriever the orchestrator needs.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]search.ScoredDocument, error)
}

// Answerer is the part of response.Composer the orchestrator needs.
type Answerer interface {
	Answer(ctx context.Context, question string, docs []search.ScoredDocument) (response.Answer, error)
}

type chatService struct {
	sessionRepo *memory.SessionRepository
	contactRepo contract.ContactRepository
	statsRepo   contract.StatsRepository
	router      *router.Router
	retriever   Retriever
	composer    Answerer
	machine     *contact.Machine
	logger      logger.ILogger

	contextTurns int
	now          func() time.Time
}

type turnOutcome struct {
	text  string
	route string
	// formOpen is true when the next message will go to the contact form.
	formOpen bool
}

func NewChatService(
	sessionRepo *memory.SessionRepository,
	contactRepo contract.ContactRepository,
	statsRepo contract.StatsRepository,
	intentRouter *router.Router,
	retriever Retriever,
	composer Answerer,
	machine *contact.Machine,
	log logger.ILogger,
) IChatService {
	return &chatService{
		sessionRepo:  sessionRepo,
		contactRepo:  contactRepo,
		statsRepo:    statsRepo,
		router:       intentRouter,
		retriever:    retriever,
		composer:     composer,
		machine:      machine,
		logger:       log,
		contextTurns: router.DefaultConfig().ContextTurns,
		now:          time.Now,
	}
}

func (s *chatService) HandleTurn(ctx context.Context, message, sessionID string) (string, error) {
	out, err := s.handle(ctx, message, sessionID)
	if err != nil {
		return "", err
	}
	return out.text, nil
}

func (s *chatService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionID := strings.TrimSpace(request.SessionId)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	out, err := s.handle(ctx, request.Message, sessionID)
	if err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		Response:    out.text,
		SessionId:   sessionID,
		Route:       out.route,
		IsForm:      out.route == RouteContact,
		Suggestions: suggestionsFor(request.Message, out.text, out.formOpen),
		Timestamp:   s.now(),
	}, nil
}

// handle runs one turn under the session lock, so two concurrent "oui" on the
// same session cannot both pass the confirmation check.
func (s *chatService) handle(ctx context.Context, message, sessionID string) (turnOutcome, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return turnOutcome{}, ErrEmptyMessage
	}

	start := s.now()
	var out turnOutcome
	err := s.sessionRepo.WithSession(ctx, sessionID, func(sess *store.Session) error {
		previous, hasPrevious := sess.LastAssistantTurn()
		recent := sess.RecentTurns(s.contextTurns)
		sess.Append(store.RoleUser, message, s.now())

		out = s.dispatch(ctx, sess, message, recent, previous, hasPrevious)

		sess.Append(store.RoleAssistant, out.text, s.now())
		_, editing := sess.Form.EditingField()
		out.formOpen = sess.HasContactData() || sess.Form.AwaitingConfirmation() || editing
		return nil
	})
	if err != nil {
		s.logger.Warn(logModule, "Turn aborted before processing", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return turnOutcome{}, fmt.Errorf("session %s busy: %w", sessionID, err)
	}

	if err := s.statsRepo.IncrementRoute(ctx, out.route); err != nil {
		s.logger.Warn(logModule, "Failed to record route", map[string]interface{}{"route": out.route, "error": err.Error()})
	}

	s.logger.Info(logModule, "Turn handled", map[string]interface{}{
		"session_id": sessionID,
		"route":      out.route,
		"duration":   time.Since(start).String(),
	})
	return out, nil
}

// dispatch applies the session-state precedence before asking the router.
func (s *chatService) dispatch(ctx context.Context, sess *store.Session, message string, recent []store.Turn, previous store.Turn, hasPrevious bool) (out turnOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(logModule, "Behavior panicked", map[string]interface{}{
				"session_id": sess.ID,
				"panic":      fmt.Sprint(r),
			})
			out = turnOutcome{text: messageApology, route: out.route}
		}
	}()

	_, editing := sess.Form.EditingField()
	switch {
	case hasPrevious && contact.IsFieldPrompt(previous.Content) && !sess.Form.FormCompleted():
		return s.collect(ctx, sess, message)
	case sess.Form.AwaitingConfirmation() || editing:
		return s.collect(ctx, sess, message)
	case sess.HasContactData():
		return s.collect(ctx, sess, message)
	}

	result := s.router.Classify(ctx, message, recent)
	s.logger.Debug(logModule, "Intent classified", map[string]interface{}{
		"session_id": sess.ID,
		"intent":     result.Intent,
		"source":     result.Source,
	})

	switch result.Intent {
	case router.IntentInformation:
		return turnOutcome{text: s.answer(ctx, sess, message), route: RouteInformation}
	case router.IntentMixed:
		text := s.answer(ctx, sess, message)
		if text != messageApology {
			text += mixedContactInvite
		}
		sess.ContactStarted = true
		return turnOutcome{text: text, route: RouteMixed}
	case router.IntentContact:
		return s.collect(ctx, sess, message)
	default:
		return turnOutcome{text: smalltalkReply(message), route: RouteSmalltalk}
	}
}

func (s *chatService) collect(ctx context.Context, sess *store.Session, message string) turnOutcome {
	reply := s.machine.Handle(ctx, sess, message)
	return turnOutcome{text: reply.Text, route: RouteContact}
}

// answer never returns a raw error: failures become fixed user messages.
func (s *chatService) answer(ctx context.Context, sess *store.Session, question string) string {
	docs, err := s.retriever.Retrieve(ctx, question)
	if err != nil {
		s.logger.Error(logModule, "Retrieval failed", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		return response.MessageUnavailable
	}

	answer, err := s.composer.Answer(ctx, question, docs)
	switch {
	case errors.Is(err, response.ErrUnavailable):
		s.logger.Error(logModule, "Answer service unavailable", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		return response.MessageUnavailable
	case err != nil:
		s.logger.Error(logModule, "Answer failed", map[string]interface{}{"session_id": sess.ID, "error": err.Error()})
		return messageApology
	}
	return answer.Text
}

func (s *chatService) GetSessionSummary(ctx context.Context, sessionID string) (*dto.SessionSummaryResponse, error) {
	if _, found := s.sessionRepo.Get(sessionID); !found {
		return nil, fmt.Errorf("session %s: %w", sessionID, serverutils.ErrNotFound)
	}

	var res *dto.SessionSummaryResponse
	err := s.sessionRepo.WithSession(ctx, sessionID, func(sess *store.Session) error {
		fields := make(map[string]string, len(sess.Contact))
		for f, v := range sess.Contact {
			fields[string(f)] = v
		}

		filled := len(store.RequiredFields) - len(sess.MissingRequired())
		history := make([]dto.SessionTurnResponse, 0, len(sess.History))
		for _, t := range sess.History {
			history = append(history, dto.SessionTurnResponse{Role: t.Role, Content: t.Content, Timestamp: t.Timestamp})
		}

		res = &dto.SessionSummaryResponse{
			SessionId:             sess.ID,
			MessageCount:          len(sess.History),
			FormCompletionPercent: filled * 100 / len(store.RequiredFields),
			FormState:             sess.Form.String(),
			ContactFields:         fields,
			History:               history,
			CreatedAt:             sess.CreatedAt,
			UpdatedAt:             sess.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *chatService) ResetSession(ctx context.Context, sessionID string) error {
	if _, found := s.sessionRepo.Get(sessionID); !found {
		return fmt.Errorf("session %s: %w", sessionID, serverutils.ErrNotFound)
	}
	s.sessionRepo.Delete(sessionID)
	s.logger.Info(logModule, "Session reset", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *chatService) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	contacts, err := s.contactRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	routes, err := s.statsRepo.RouteCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("route stats: %w", err)
	}
	return &dto.StatsResponse{
		ActiveSessions:    s.sessionRepo.Count(),
		ContactsCollected: contacts,
		Routes:            routes,
	}, nil
}
