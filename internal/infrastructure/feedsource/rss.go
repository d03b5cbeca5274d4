// Package feedsource pulls articles from configured RSS/Atom feeds.
package feedsource

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/ports"
)

const fetchConcurrency = 4

// RSS fetches every configured feed and flattens the entries into
// articles, keeping the order in which feeds are configured.
type RSS struct {
	urls   []string
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.ArticleSource = (*RSS)(nil)

// NewRSS wires a feed parser over the given URLs.
func NewRSS(urls []string, logger *slog.Logger) *RSS {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 20 * time.Second}
	parser.UserAgent = "AINow/1.0"
	return &RSS{urls: urls, parser: parser, logger: logger}
}

// Fetch downloads all feeds concurrently. A feed that fails or returns
// garbage is logged and skipped; the remaining feeds still contribute.
// The result keeps configuration order: all entries of the first feed,
// then the second, and so on.
func (r *RSS) Fetch(ctx context.Context) ([]domain.Article, error) {
	perFeed := make([][]domain.Article, len(r.urls))

	var group errgroup.Group
	group.SetLimit(fetchConcurrency)
	for i, feedURL := range r.urls {
		group.Go(func() error {
			feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
			if err != nil {
				r.logger.Warn("skipping feed", "url", feedURL, "error", err)
				return nil
			}
			perFeed[i] = entries(feed)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("fetch feeds: %w", err)
	}

	var articles []domain.Article
	for _, batch := range perFeed {
		articles = append(articles, batch...)
	}
	return articles, nil
}

func entries(feed *gofeed.Feed) []domain.Article {
	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = domain.UnknownSource
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, domain.Article{
			Title:   item.Title,
			Summary: item.Description,
			Link:    item.Link,
			Source:  source,
		})
	}
	return articles
}
