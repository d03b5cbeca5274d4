package ports

import (
	"context"
	"time"

	"github.com/Aravinnthram/AINow/internal/domain"
)

// ArticleSource pulls raw entries from the configured upstream feeds.
// Entries arrive in feed declaration order, then native entry order;
// a failing feed is skipped by the implementation, never surfaced here.
type ArticleSource interface {
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// Summarizer delegates digest writing to a hosted language model and
// returns the finished body text.
type Summarizer interface {
	Summarize(ctx context.Context, batch []domain.Article) (string, error)
}

// Dispatcher delivers a finished digest to the given recipients.
type Dispatcher interface {
	Send(ctx context.Context, recipients []string, d domain.Digest) error
}

// Scheduler drives a recurring job. Start returns once the loop is
// running; Stop halts it, waiting for an in-flight cycle to finish
// until ctx expires.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
