// Package textutil normalizes feed text for digest rendering: markup
// stripping, sentence extraction, width-aware shortening and wrapping.
package textutil

import (
	"html"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	sentenceBreak   = regexp.MustCompile(`[.!?]\s+`)
	ellipsis        = "..."
	ellipsisColumns = runewidth.StringWidth(ellipsis)
)

// Clean strips markup tags, unescapes HTML entities and collapses every
// whitespace run to a single space, trimming the ends. Cleaning already
// clean text is a no-op. Empty input yields an empty string.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// FirstSentences cleans text and returns at most max sentences, joined
// by single spaces. Text without sentence-ending punctuation counts as
// one sentence; max at or above the sentence count returns everything.
func FirstSentences(text string, max int) string {
	text = Clean(text)
	if text == "" || max <= 0 {
		return ""
	}
	parts := splitSentences(text)
	if len(parts) > max {
		parts = parts[:max]
	}
	return strings.Join(parts, " ")
}

// splitSentences cuts after '.', '!' or '?' followed by whitespace,
// keeping the punctuation with the preceding fragment.
func splitSentences(text string) []string {
	breaks := sentenceBreak.FindAllStringIndex(text, -1)
	if len(breaks) == 0 {
		return []string{text}
	}
	parts := make([]string, 0, len(breaks)+1)
	prev := 0
	for _, b := range breaks {
		parts = append(parts, text[prev:b[0]+1])
		prev = b[1]
	}
	if prev < len(text) {
		parts = append(parts, text[prev:])
	}
	return parts
}

// Shorten collapses whitespace and, when the text exceeds width display
// columns, truncates it on a word boundary with a trailing "...". The
// placeholder counts against the width.
func Shorten(text string, width int) string {
	words := strings.Fields(text)
	joined := strings.Join(words, " ")
	if runewidth.StringWidth(joined) <= width {
		return joined
	}

	budget := width - ellipsisColumns
	var kept string
	for _, word := range words {
		candidate := word
		if kept != "" {
			candidate = kept + " " + word
		}
		if runewidth.StringWidth(candidate) > budget {
			break
		}
		kept = candidate
	}
	return kept + ellipsis
}

// Wrap greedily folds text into lines no wider than width display
// columns. A single word wider than width stays on its own line.
func Wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
