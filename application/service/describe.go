package service

import (
	"strings"

	"github.com/campuslist/campuslist/domain/university"
	"github.com/campuslist/campuslist/internal/config"
)

// Describer builds meta descriptions from the configured template set.
// The description is written once per record and never regenerated, so
// template changes only affect records created afterwards.
type Describer struct {
	templates []string
	maxLen    int
}

// NewDescriber creates a Describer from pipeline configuration.
func NewDescriber(cfg config.PipelineConfig) *Describer {
	return &Describer{
		templates: cfg.DescriptionTemplates(),
		maxLen:    cfg.DescriptionMaxLen(),
	}
}

// Describe renders a description for the university. Template choice is
// keyed on the name so reruns produce the same text.
func (d *Describer) Describe(u university.University) string {
	if len(d.templates) == 0 || u.Name() == "" {
		return ""
	}

	template := d.templates[templateIndex(u.Name(), len(d.templates))]
	text := strings.ReplaceAll(template, ":name", u.Name())
	text = strings.ReplaceAll(text, ":type", u.ResolvedType())

	if d.maxLen > 0 && len(text) > d.maxLen {
		text = truncateAtRune(text, d.maxLen)
	}
	return text
}

func templateIndex(name string, n int) int {
	var sum int
	for _, r := range name {
		sum += int(r)
	}
	return sum % n
}

// truncateAtRune cuts at the last rune boundary at or before limit bytes.
func truncateAtRune(s string, limit int) string {
	for limit > 0 && !isRuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
