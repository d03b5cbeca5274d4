package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Aravinnthram/AINow/internal/digest"
	"github.com/Aravinnthram/AINow/internal/domain"
	"github.com/Aravinnthram/AINow/internal/filter"
	"github.com/Aravinnthram/AINow/internal/ports"
)

// PipelineDeps wires all driven adapters into the digest pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Filter     *filter.Keyword
	Summarizer ports.Summarizer
	Dispatcher ports.Dispatcher
	Logger     *slog.Logger
}

// Pipeline implements the fetch-filter-format-send workflow.
type Pipeline struct {
	source     ports.ArticleSource
	filter     *filter.Keyword
	summarizer ports.Summarizer
	dispatcher ports.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// Request describes one interactive digest run.
type Request struct {
	Recipients []string
	MaxItems   int
	UseRemote  bool
}

// Result reports what a run produced.
type Result struct {
	Digest   domain.Digest
	Articles int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:     deps.Source,
		filter:     deps.Filter,
		summarizer: deps.Summarizer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Preview fetches, filters and formats without dispatching anything.
func (p *Pipeline) Preview(ctx context.Context, req Request) (Result, error) {
	batch, err := p.collect(ctx, req.MaxItems)
	if err != nil {
		return Result{}, err
	}
	dg, err := p.build(ctx, batch, req.UseRemote)
	if err != nil {
		return Result{}, err
	}
	return Result{Digest: dg, Articles: len(batch)}, nil
}

// Run executes the full pipeline and dispatches the digest. An empty
// batch still goes out: recipients get the fixed notice instead of
// silence.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	batch, err := p.collect(ctx, req.MaxItems)
	if err != nil {
		return Result{}, err
	}

	dg, err := p.build(ctx, batch, req.UseRemote)
	if err != nil {
		return Result{}, err
	}

	if err := p.dispatcher.Send(ctx, req.Recipients, dg); err != nil {
		return Result{}, fmt.Errorf("dispatch digest: %w", err)
	}

	p.logger.Info("digest sent", "articles", len(batch), "recipients", len(req.Recipients), "remote", req.UseRemote)
	return Result{Digest: dg, Articles: len(batch)}, nil
}

// RunScheduled executes one scheduled delivery. Failures are logged,
// never returned: a broken run must not take the schedule down. An
// empty batch skips delivery entirely, and the digest always comes
// from the local formatter.
func (p *Pipeline) RunScheduled(ctx context.Context, spec domain.ScheduleSpec, trigger time.Time) {
	logger := p.logger.With("trigger", trigger.Format(time.RFC3339))
	logger.Info("starting scheduled digest")

	batch, err := p.collect(ctx, spec.MaxItems)
	if err != nil {
		logger.Error("scheduled digest failed", "error", err)
		return
	}
	if len(batch) == 0 {
		logger.Info("no matching articles, skipping delivery")
		return
	}

	if err := p.dispatcher.Send(ctx, spec.Recipients, digest.Format(batch)); err != nil {
		logger.Error("scheduled digest failed", "error", err)
		return
	}
	logger.Info("scheduled digest sent", "articles", len(batch), "recipients", len(spec.Recipients))
}

func (p *Pipeline) collect(ctx context.Context, maxItems int) ([]domain.Article, error) {
	entries, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	return p.filter.Apply(entries, maxItems), nil
}

// build renders the digest locally or through the remote summarizer.
// Asking for the remote path without a configured summarizer is an
// error, not a silent fallback.
func (p *Pipeline) build(ctx context.Context, batch []domain.Article, useRemote bool) (domain.Digest, error) {
	if !useRemote {
		return digest.Format(batch), nil
	}

	if p.summarizer == nil {
		return domain.Digest{}, fmt.Errorf("remote summarizer is not configured")
	}
	body, err := p.summarizer.Summarize(ctx, batch)
	if err != nil {
		return domain.Digest{}, fmt.Errorf("summarize batch: %w", err)
	}
	return domain.Digest{
		Subject: "AI Updates Digest – " + p.now().Format("2006-01-02"),
		Body:    body,
	}, nil
}
