package service

import (
	"strings"
	"unicode"

	"github.com/campuslist/campuslist/internal/config"
)

// Normalizer filters and canonicalizes raw trending queries. Skip
// decisions run on the raw query; normalization produces the cache key
// used to match queries against known institutions.
type Normalizer struct {
	skipKeywords []string
	trimPhrases  []string
}

// NewNormalizer creates a Normalizer from pipeline configuration.
func NewNormalizer(cfg config.PipelineConfig) *Normalizer {
	return &Normalizer{
		skipKeywords: cfg.SkipKeywords(),
		trimPhrases:  cfg.TrimPhrases(),
	}
}

// ShouldSkip reports whether the query is navigational noise (logins,
// portals, status checks) rather than an institution search, and which
// keyword matched.
func (n *Normalizer) ShouldSkip(query string) (string, bool) {
	lowered := strings.ToLower(query)
	for _, keyword := range n.skipKeywords {
		if strings.Contains(lowered, keyword) {
			return keyword, true
		}
	}
	return "", false
}

// NormalizeKey canonicalizes a query: lowercase, intent phrases removed,
// punctuation stripped, whitespace collapsed. Queries about the same
// institution normalize to the same key.
func (n *Normalizer) NormalizeKey(query string) string {
	s := strings.ToLower(query)
	for _, phrase := range n.trimPhrases {
		s = strings.ReplaceAll(s, phrase, "")
	}

	s = stripPunctuation(s)
	return collapseSpaces(s)
}

func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			// Punctuation separates words rather than joining them.
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
