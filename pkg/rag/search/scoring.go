package search

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	punctuation = regexp.MustCompile(`[?!.,;:'"]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

var stopwords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "de": {}, "du": {},
	"et": {}, "ou": {}, "mais": {}, "dans": {}, "pour": {}, "avec": {}, "sur": {},
	"est": {}, "sont": {}, "a": {}, "ont": {}, "the": {}, "is": {}, "are": {}, "to": {},
}

// Weights of the four signals. They must sum to 1.
type Weights struct {
	Vector  float64
	Lexical float64
	Density float64
	Length  float64
}

func DefaultWeights() Weights {
	return Weights{Vector: 0.55, Lexical: 0.30, Density: 0.08, Length: 0.07}
}

func (w Weights) Validate() error {
	for _, v := range []float64{w.Vector, w.Lexical, w.Density, w.Length} {
		if v < 0 {
			return fmt.Errorf("negative weight in %+v", w)
		}
	}
	total := w.Vector + w.Lexical + w.Density + w.Length
	if math.Abs(total-1.0) > 0.01 {
		return fmt.Errorf("weights must sum to 1.0, got %.4f", total)
	}
	return nil
}

func (w Weights) combine(s Scores) float64 {
	return s.Vector*w.Vector + s.Lexical*w.Lexical + s.Density*w.Density + s.Length*w.Length
}

// Normalize strips punctuation, collapses whitespace and lower-cases.
func Normalize(text string) string {
	text = punctuation.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.ToLower(strings.TrimSpace(text))
}

// Keywords returns the distinct tokens longer than three characters that
// are not stop words, in query order.
func Keywords(query string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, w := range strings.Fields(Normalize(query)) {
		if utf8.RuneCountInString(w) <= 3 || seen[w] {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// VectorScore rewards the searcher's own ordering.
func VectorScore(rank int) float64 {
	return 1.0 / (1.0 + float64(rank)*0.1)
}

// LexicalScore counts, per keyword, content words containing it (capped at
// 3) and normalizes by keywords×3.
func LexicalScore(keywords []string, content string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	words := strings.Fields(strings.ToLower(content))
	matches := 0
	for _, kw := range keywords {
		count := 0
		for _, w := range words {
			if strings.Contains(w, kw) {
				count++
				if count == 3 {
					break
				}
			}
		}
		matches += count
	}
	return float64(matches) / float64(len(keywords)*3)
}

// DensityScore measures how tightly the matching words are grouped.
func DensityScore(keywords []string, content string) float64 {
	var positions []int
	for i, w := range strings.Fields(Normalize(content)) {
		for _, kw := range keywords {
			if strings.Contains(w, kw) {
				positions = append(positions, i)
				break
			}
		}
	}
	if len(positions) < 2 {
		return float64(len(positions))
	}
	span := positions[len(positions)-1] - positions[0] + 1
	return math.Min(float64(len(positions))/float64(span), 1.0)
}

// LengthScore prefers passages of roughly 8 to 15 times the query length.
func LengthScore(chunkWords, queryWords int) float64 {
	idealMin := math.Max(40, float64(queryWords*8))
	idealMax := math.Max(100, float64(queryWords*15))
	n := float64(chunkWords)

	switch {
	case chunkWords < 15:
		return 0.3
	case n >= idealMin && n <= idealMax:
		return 1.0
	case n < idealMin:
		return 0.5 + (n/idealMin)*0.5
	default:
		excess := n - idealMax
		return math.Max(0.5, 1.0-(excess/idealMax)*0.5)
	}
}

// containsAll reports whether every keyword appears inside some normalized
// content word.
func containsAll(keywords []string, content string) bool {
	if len(keywords) == 0 {
		return false
	}
	words := strings.Fields(Normalize(content))
	for _, kw := range keywords {
		found := false
		for _, w := range words {
			if strings.Contains(w, kw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
