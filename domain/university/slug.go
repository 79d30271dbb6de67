package university

import (
	"fmt"
	"math/rand"
	"strings"
)

const randomSlugLetters = "abcdefghijklmnopqrstuvwxyz0123456789"

// Slugify converts s to a URL-safe slug: lower-case, alphanumeric runs
// joined by single hyphens. Returns "" when nothing survives.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// RandomSlug returns a placeholder slug for records whose name slugifies
// to nothing.
func RandomSlug() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = randomSlugLetters[rand.Intn(len(randomSlugLetters))]
	}
	return "universite-" + string(suffix)
}

// CandidateSlug derives the base slug from the first non-empty source,
// falling back to a randomized placeholder.
func CandidateSlug(sources ...string) string {
	for _, src := range sources {
		if slug := Slugify(src); slug != "" {
			return slug
		}
	}
	return RandomSlug()
}

// SuffixedSlug returns base for n <= 1, otherwise base-n. Uniqueness
// probing walks n upward until a free slug is found.
func SuffixedSlug(base string, n int) string {
	if n <= 1 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
