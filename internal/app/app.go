package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aravinnthram/AINow/internal/config"
	"github.com/Aravinnthram/AINow/internal/filter"
	"github.com/Aravinnthram/AINow/internal/infrastructure/feedsource"
	"github.com/Aravinnthram/AINow/internal/infrastructure/llm"
	"github.com/Aravinnthram/AINow/internal/infrastructure/mail"
	"github.com/Aravinnthram/AINow/internal/infrastructure/scheduler"
	"github.com/Aravinnthram/AINow/internal/logging"
	"github.com/Aravinnthram/AINow/internal/ports"
	"github.com/Aravinnthram/AINow/internal/server"
	"github.com/Aravinnthram/AINow/internal/usecase"
)

// Application wires configuration to use cases and owns the process
// lifecycle.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	scheduler *usecase.Scheduler
	server    *server.Server
}

// New builds a runnable application instance. The Groq summarizer is
// wired only when an API key is configured; requests asking for it
// without one fail instead of silently falling back.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := feedsource.NewRSS(cfg.Feeds, baseLogger.With("component", "feedsource"))
	keywordFilter := filter.New(cfg.Filter.Keywords, filter.ParseMode(cfg.Filter.Match))

	var summarizer ports.Summarizer
	if cfg.Groq.APIKey != "" {
		summarizer = llm.NewGroq(cfg.Groq)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Filter:     keywordFilter,
		Summarizer: summarizer,
		Dispatcher: mail.NewDispatcher(cfg.Email),
		Logger:     baseLogger.With("component", "pipeline"),
	})

	manager := usecase.NewScheduler(pipeline, baseLogger.With("component", "scheduler"), func(hour, minute int) ports.Scheduler {
		return scheduler.NewDaily(hour, minute)
	})

	srv, err := server.New(pipeline, manager, cfg.Digest, baseLogger.With("component", "server"))
	if err != nil {
		return nil, fmt.Errorf("build server: %w", err)
	}

	return &Application{cfg: cfg, logger: baseLogger, scheduler: manager, server: srv}, nil
}

// Run serves the operator UI until the context is cancelled or an
// interrupt arrives, then stops the scheduler and drains the listener.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           a.server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", a.cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.scheduler.Close()
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	a.scheduler.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
