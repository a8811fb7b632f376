package response

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	citationMarker  = regexp.MustCompile(`\s*\[(\d+(?:\s*,\s*\d+)*)\]`)
	spaceBeforeStop = regexp.MustCompile(`[ \t]+([.,])`)
	repeatedSpaces  = regexp.MustCompile(`[ \t]{2,}`)
)

// ExtractCitations returns the passage numbers cited as [n] or [n, m], in
// order of first occurrence. Numbers outside 1..passages are ignored.
func ExtractCitations(text string, passages int) []int {
	var cited []int
	seen := make(map[int]bool)
	for _, m := range citationMarker.FindAllStringSubmatch(text, -1) {
		for _, raw := range strings.Split(m[1], ",") {
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || n < 1 || n > passages || seen[n] {
				continue
			}
			seen[n] = true
			cited = append(cited, n)
		}
	}
	return cited
}

// StripCitations removes the markers and tidies the spacing they leave.
func StripCitations(text string) string {
	text = citationMarker.ReplaceAllString(text, "")
	text = spaceBeforeStop.ReplaceAllString(text, "$1")
	text = repeatedSpaces.ReplaceAllString(text, " ")

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isNoAnswer(text string) bool {
	lower := strings.ToLower(strings.ReplaceAll(text, "’", "'"))
	for _, p := range noAnswerPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func isWebLink(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
