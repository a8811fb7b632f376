// Package response turns retrieved passages into a cited answer.
package response

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-admissions-be/internal/pkg/logger"
	"ai-admissions-be/pkg/llm"
	"ai-admissions-be/pkg/rag/prompt"
	"ai-admissions-be/pkg/rag/search"
)

const (
	logModule     = "COMPOSER"
	maxShownLinks = 3
)

// ErrUnavailable wraps every failure of the text completion service.
var ErrUnavailable = errors.New("answer service unavailable")

type Config struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int
}

func DefaultConfig() Config {
	return Config{Timeout: 60 * time.Second, Temperature: 0.3, MaxTokens: 600}
}

type Answer struct {
	Text string `json:"text"`
	// Cited holds the 1-based passage numbers the model referenced.
	Cited []int `json:"cited"`
	// Sources are the displayed web links, a subset of the cited sources.
	Sources  []string `json:"sources"`
	Fallback bool     `json:"fallback"`
}

type Composer struct {
	provider llm.LLMProvider
	cfg      Config
	logger   logger.ILogger
}

func NewComposer(provider llm.LLMProvider, cfg Config, log logger.ILogger) *Composer {
	return &Composer{provider: provider, cfg: cfg, logger: log}
}

func (c *Composer) Answer(ctx context.Context, question string, docs []search.ScoredDocument) (Answer, error) {
	if len(docs) == 0 {
		return Answer{Text: MessageNoDocuments, Fallback: true}, nil
	}
	if c.provider == nil {
		return Answer{}, fmt.Errorf("%w: no provider configured", ErrUnavailable)
	}

	genCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := c.provider.Generate(genCtx, prompt.Build(question, docs),
		llm.WithTemperature(c.cfg.Temperature),
		llm.WithMaxTokens(c.cfg.MaxTokens),
	)
	if err != nil {
		c.logger.Error(logModule, "Answer generation failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return Answer{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	answer := Compose(raw, docs)
	c.logger.Info(logModule, "Answer generated", map[string]interface{}{
		"passages": len(docs),
		"cited":    len(answer.Cited),
		"fallback": answer.Fallback,
		"duration": time.Since(start).String(),
	})
	return answer, nil
}

// Compose post-processes a raw model answer against the passages it was
// given.
func Compose(raw string, docs []search.ScoredDocument) Answer {
	cited := ExtractCitations(raw, len(docs))
	text := StripCitations(raw)

	if len(cited) == 0 && (text == "" || isNoAnswer(text)) {
		return Answer{Text: MessageNoAnswer, Fallback: true}
	}

	var links []string
	seen := make(map[string]bool)
	for _, n := range cited {
		source := docs[n-1].Source()
		if !isWebLink(source) || seen[source] {
			continue
		}
		seen[source] = true
		links = append(links, source)
		if len(links) == maxShownLinks {
			break
		}
	}

	if len(links) > 0 {
		var b strings.Builder
		b.WriteString(text)
		b.WriteString("\n\n")
		b.WriteString(sourcesHeader)
		for i, l := range links {
			fmt.Fprintf(&b, "\n%d. %s", i+1, l)
		}
		text = b.String()
	}

	return Answer{Text: text, Cited: cited, Sources: links}
}
