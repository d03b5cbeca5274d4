// Package filter selects articles whose text mentions configured keywords.
package filter

import (
	"regexp"
	"strings"

	"github.com/Aravinnthram/AINow/internal/domain"
)

// Mode selects how keywords are matched against article text.
type Mode string

const (
	// MatchSubstring matches a keyword anywhere in the text, so "ml"
	// also hits "html". This is the default.
	MatchSubstring Mode = "substring"
	// MatchWord matches keywords only on word boundaries.
	MatchWord Mode = "word"
)

// ParseMode maps a config string to a Mode, defaulting to substring.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(MatchWord)) {
		return MatchWord
	}
	return MatchSubstring
}

// Keyword filters articles by case-insensitive keyword occurrence in
// the title or summary, preserving input order.
type Keyword struct {
	keywords []string
	mode     Mode
	patterns []*regexp.Regexp
}

// New builds a filter over the given keywords. Keywords are lowercased
// once; empty ones are dropped. In word mode each keyword compiles to a
// boundary-anchored pattern.
func New(keywords []string, mode Mode) *Keyword {
	f := &Keyword{mode: mode}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		f.keywords = append(f.keywords, kw)
		if mode == MatchWord {
			f.patterns = append(f.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(kw)+`\b`))
		}
	}
	return f
}

// Apply returns the articles that mention any keyword, in input order,
// capped at max. A max of zero or less yields nil.
func (f *Keyword) Apply(entries []domain.Article, max int) []domain.Article {
	if max <= 0 {
		return nil
	}
	var selected []domain.Article
	for _, entry := range entries {
		if !f.matches(entry) {
			continue
		}
		selected = append(selected, entry)
		if len(selected) == max {
			break
		}
	}
	return selected
}

func (f *Keyword) matches(entry domain.Article) bool {
	text := strings.ToLower(entry.Title + " " + entry.Summary)
	if f.mode == MatchWord {
		for _, p := range f.patterns {
			if p.MatchString(text) {
				return true
			}
		}
		return false
	}
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
