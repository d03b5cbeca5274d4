// Package digest renders a batch of articles into an email-ready digest.
package digest

import (
	"fmt"
	"strings"

	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/textutil"
)

const (
	maxArticles       = 5
	subjectTitles     = 3
	subjectTitleWidth = 60
	bodyWrapWidth     = 78
)

// emojiRules are checked in order; the first rule with any keyword
// present in the article text wins.
var emojiRules = []struct {
	emoji    string
	keywords []string
}{
	{"🔥", []string{"robot", "humanoid", "robotics"}},
	{"📊", []string{"index", "metrics", "hype", "data", "analytics"}},
	{"🧬", []string{"protein", "alphafold", "bio", "biotech"}},
	{"🔐", []string{"privacy", "consent", "data", "security"}},
	{"💻", []string{"microsoft", "windows", "pc", "agent"}},
}

const defaultEmoji = "🔎"

// Format builds a plain-text digest from the first articles of the
// batch. It is deterministic: the same batch always yields the same
// digest. An empty batch produces a fixed notice.
func Format(batch []domain.Article) domain.Digest {
	if len(batch) == 0 {
		return domain.Digest{
			Subject: "AI Updates Digest — Your Daily Briefing",
			Body:    "Hello Reader,\n\nNo recent AI-related articles were found.",
		}
	}

	selected := batch
	if len(selected) > maxArticles {
		selected = selected[:maxArticles]
	}
	subject := buildSubject(selected)
	return domain.Digest{Subject: subject, Body: buildBody(selected, subject)}
}

func buildSubject(selected []domain.Article) string {
	titles := make([]string, 0, subjectTitles)
	for _, art := range selected[:min(subjectTitles, len(selected))] {
		titles = append(titles, textutil.Shorten(textutil.Clean(art.Title), subjectTitleWidth))
	}
	return "🚀 Top AI Developments: " + strings.Join(titles, ", ")
}

func buildBody(selected []domain.Article, subject string) string {
	lines := []string{
		"AI Updates Digest — Your Daily Briefing",
		"Subject: " + subject,
		"",
		"Hello Reader,",
		"",
		"Here’s your crisp, high-value rundown of the most important AI developments this week — curated, structured, and enhanced for clarity.",
		"",
	}

	for i, art := range selected {
		lines = append(lines, fmt.Sprintf("%s %d. %s", chooseEmoji(art), i+1, art.Title))
		if short := textutil.FirstSentences(art.Summary, 3); short != "" {
			lines = append(lines, textutil.Wrap(short, bodyWrapWidth))
		}
		lines = append(lines, "Source: "+art.Source, "")
	}

	lines = append(lines, "🔗 Read More (Sources)", "")
	for _, art := range selected {
		if art.Link == "" {
			continue
		}
		lines = append(lines, textutil.Clean(art.Title)+" – "+art.Link)
	}

	return strings.Join(lines, "\n")
}

func chooseEmoji(art domain.Article) string {
	text := strings.ToLower(art.Title + " " + art.Summary)
	for _, rule := range emojiRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.emoji
			}
		}
	}
	return defaultEmoji
}
