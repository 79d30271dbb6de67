package university

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MajorFact is one major named by an AI fact response.
type MajorFact struct {
	Name    string
	Notable bool
}

// Facts is the typed result of mapping a parsed AI fact payload.
// Unrecognized keys in the source payload are ignored; individually
// malformed values are dropped and reported in Warnings rather than
// failing the whole mapping.
type Facts struct {
	Attributes Attributes
	Majors     []MajorFact
	Warnings   []string
}

// MapFacts converts a parsed AI fact payload into typed Facts.
func MapFacts(data map[string]any) Facts {
	var f Facts
	a := &f.Attributes

	if founded, ok := data["founded"]; ok {
		if t, err := parseFounded(founded); err == nil {
			a.Founded = &t
		} else if founded != nil {
			f.Warnings = append(f.Warnings, fmt.Sprintf("founded: %v", err))
		}
	}
	if s, ok := asString(data["type"]); ok {
		a.Type = &s
	}
	if s, ok := asString(data["overview"]); ok {
		a.Overview = &s
	}
	if n, ok := asFloat(data["acceptance_rate"]); ok {
		a.AcceptanceRate = &n
	}
	if m, ok := data["ranking"].(map[string]any); ok {
		a.Ranking = m
	}

	if m, ok := data["enrollment"].(map[string]any); ok {
		a.Enrollment = m
		if n, ok := asInt(m["total"]); ok {
			a.EnrollmentTotal = &n
		}
		if n, ok := asInt(m["undergraduate"]); ok {
			a.EnrollmentUndergraduate = &n
		}
		if n, ok := asInt(m["graduate"]); ok {
			a.EnrollmentGraduate = &n
		}
	}

	if m, ok := data["tuition"].(map[string]any); ok {
		a.Tuition = m
		if n, ok := asFloat(m["undergraduate"]); ok {
			a.TuitionUndergraduate = &n
		}
		if n, ok := asFloat(m["graduate"]); ok {
			a.TuitionGraduate = &n
		}
		if n, ok := asFloat(m["international"]); ok {
			a.TuitionInternational = &n
		}
		if c, ok := asString(m["currency"]); ok {
			if cur := normalizeCurrency(c); cur != "" {
				a.TuitionCurrency = &cur
			}
		}
	}

	if m, ok := data["requirements"].(map[string]any); ok {
		a.Requirements = m
		if n, ok := asFloat(m["gpa_min"]); ok {
			a.RequirementGPA = &n
		}
		if n, ok := asInt(m["sat"]); ok {
			a.RequirementSAT = &n
		}
		if n, ok := asInt(m["act"]); ok {
			a.RequirementACT = &n
		}
		if n, ok := asInt(m["toefl"]); ok {
			a.RequirementTOEFL = &n
		}
		if n, ok := asFloat(m["ielts"]); ok {
			a.RequirementIELTS = &n
		}
	}

	if m, ok := data["deadlines"].(map[string]any); ok {
		a.Deadlines = m
	}
	if s, ok := data["scholarships"].([]any); ok {
		a.Scholarships = s
	}
	if m, ok := data["housing"].(map[string]any); ok {
		a.Housing = m
	}
	if m, ok := data["campus_life"].(map[string]any); ok {
		a.CampusLife = m
	}
	if m, ok := data["contact"].(map[string]any); ok {
		a.Contact = m
	}
	if s, ok := data["faq"].([]any); ok {
		a.FAQ = s
	}

	f.Majors = mapMajors(data["majors"], false)
	f.Majors = append(f.Majors, mapMajors(data["notable_majors"], true)...)
	f.Majors = dedupeMajors(f.Majors)

	return f
}

// parseFounded accepts either a bare 4-digit year (interpreted as the
// start of that year, UTC) or a full ISO date.
func parseFounded(v any) (time.Time, error) {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if len(s) == 4 {
			if year, err := strconv.Atoi(s); err == nil {
				return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
			}
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("unparseable date %q", s)
	case float64:
		year := int(val)
		if year >= 100 && year <= 9999 && val == float64(year) {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), nil
		}
		return time.Time{}, fmt.Errorf("unparseable year %v", val)
	default:
		return time.Time{}, fmt.Errorf("unsupported founded value %T", v)
	}
}

// normalizeCurrency upper-cases and keeps only plausible ISO codes.
func normalizeCurrency(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 3 {
		return ""
	}
	return c
}

// mapMajors accepts either a list of name strings or a list of
// {"name": ..., "is_notable": ...} objects.
func mapMajors(v any, notable bool) []MajorFact {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	majors := make([]MajorFact, 0, len(list))
	for _, item := range list {
		switch entry := item.(type) {
		case string:
			if entry != "" {
				majors = append(majors, MajorFact{Name: entry, Notable: notable})
			}
		case map[string]any:
			name, _ := entry["name"].(string)
			if name == "" {
				continue
			}
			m := MajorFact{Name: name, Notable: notable}
			if b, ok := entry["is_notable"].(bool); ok {
				m.Notable = m.Notable || b
			}
			majors = append(majors, m)
		}
	}
	return majors
}

// dedupeMajors keeps one entry per name; notable wins over plain.
func dedupeMajors(majors []MajorFact) []MajorFact {
	if len(majors) == 0 {
		return nil
	}
	seen := make(map[string]int, len(majors))
	out := make([]MajorFact, 0, len(majors))
	for _, m := range majors {
		key := strings.ToLower(m.Name)
		if idx, ok := seen[key]; ok {
			if m.Notable {
				out[idx].Notable = true
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, m)
	}
	return out
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	f, ok := asFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}
