package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/pkg/llm"
	"ai-admissions-be/pkg/store"
)

const logModule = "ROUTER"

const (
	SourceLLM      = "llm"
	SourceKeywords = "keywords"
)

const routingPrompt = `Tu es un classificateur d'intentions pour l'assistant d'une école d'ingénieurs.

Réponds UNIQUEMENT par UN SEUL MOT parmi :
- RAG : question nécessitant la documentation (programmes, admissions, cours, frais, campus, stages, débouchés, informations sur l'école)
- FORMULAIRE : le visiteur veut être contacté, rappelé, recevoir une brochure, s'inscrire ou prendre rendez-vous
- MIXED : les DEUX intentions sont explicitement présentes dans le même message
- INTERACTION : tout le reste (salutations, remerciements, hors sujet)

N'ajoute aucune explication ni ponctuation.
%s
Message : %s
Réponse :`

// Result carries the chosen intent and how it was obtained.
type Result struct {
	Intent Intent
	Source string
}

type Config struct {
	Timeout      time.Duration
	InfoTerms    []string
	ContactTerms []string
	// ContextTurns is how many recent turns are shown to the classifier.
	ContextTurns int
}

func DefaultConfig() Config {
	return Config{
		Timeout:      8 * time.Second,
		InfoTerms:    InformationTerms,
		ContactTerms: ContactTerms,
		ContextTurns: 4,
	}
}

// Router classifies with the completion service and falls back to keywords
// on error, timeout or an unknown label.
type Router struct {
	llm    llm.LLMProvider
	cfg    Config
	logger logger.ILogger
}

func New(provider llm.LLMProvider, cfg Config, log logger.ILogger) *Router {
	if cfg.InfoTerms == nil {
		cfg.InfoTerms = InformationTerms
	}
	if cfg.ContactTerms == nil {
		cfg.ContactTerms = ContactTerms
	}
	return &Router{llm: provider, cfg: cfg, logger: log}
}

func (r *Router) Classify(ctx context.Context, message string, recent []store.Turn) Result {
	if r.llm == nil {
		return r.fallback(message, "no classifier configured")
	}

	callCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(routingPrompt, formatContext(recent, r.cfg.ContextTurns), message)
	raw, err := r.llm.Generate(callCtx, prompt, llm.WithTemperature(0), llm.WithMaxTokens(10))
	if err != nil {
		return r.fallback(message, err.Error())
	}

	intent, ok := ParseLabel(raw)
	if !ok {
		return r.fallback(message, fmt.Sprintf("unrecognized label %q", truncate(raw, 40)))
	}

	r.logger.Debug(logModule, "Intent classified", map[string]interface{}{"intent": intent, "source": SourceLLM})
	return Result{Intent: intent, Source: SourceLLM}
}

func (r *Router) fallback(message, reason string) Result {
	intent := ClassifyByKeywords(message, r.cfg.InfoTerms, r.cfg.ContactTerms)
	r.logger.Warn(logModule, "Classifier unavailable, using keyword fallback", map[string]interface{}{
		"reason": reason,
		"intent": intent,
	})
	return Result{Intent: intent, Source: SourceKeywords}
}

func formatContext(turns []store.Turn, n int) string {
	if n <= 0 || len(turns) == 0 {
		return ""
	}
	if len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	var sb strings.Builder
	sb.WriteString("\nConversation récente :\n")
	for _, t := range turns {
		role := "Visiteur"
		if t.Role == store.RoleAssistant {
			role = "Assistant"
		}
		fmt.Fprintf(&sb, "%s : %s\n", role, truncate(t.Content, 200))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
