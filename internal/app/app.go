package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"rollcall/attendance/internal/auth"
	"rollcall/attendance/internal/config"
	"rollcall/attendance/internal/console"
	"rollcall/attendance/internal/locale"
	"rollcall/attendance/internal/metrics"
	"rollcall/attendance/internal/observability"
	"rollcall/attendance/internal/roster"
)

type App struct {
	cfg      config.Config
	log      *slog.Logger
	closeLog func() error
	out      io.Writer

	messages   *locale.Catalog
	metrics    *metrics.Session
	controller *console.Controller

	loadMsg  string
	loadData map[string]any
}

func New(cfg config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger, closeLog, err := observability.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	a, err := build(cfg, logger, in, out)
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	a.closeLog = closeLog
	return a, nil
}

func build(cfg config.Config, logger *slog.Logger, in io.Reader, out io.Writer) (*App, error) {
	messages, err := locale.New(cfg.Lang)
	if err != nil {
		return nil, fmt.Errorf("create message catalog: %w", err)
	}

	rosterStore, err := roster.NewStore(cfg.RosterFile)
	if err != nil {
		return nil, fmt.Errorf("create roster store: %w", err)
	}

	a := &App{
		cfg:      cfg,
		log:      logger,
		closeLog: func() error { return nil },
		out:      out,
		messages: messages,
		metrics:  metrics.NewSession(),
	}

	found, err := rosterStore.Load()
	switch {
	case err != nil:
		logger.Warn("roster load failed", "path", cfg.RosterFile, "err", err)
		a.loadMsg, a.loadData = "LoadFailed", map[string]any{"Err": err}
	case !found:
		logger.Info("roster file not found, starting empty", "path", cfg.RosterFile)
		a.loadMsg = "LoadMissing"
	default:
		logger.Info("roster loaded", "path", cfg.RosterFile, "count", rosterStore.Len())
		a.loadMsg = "LoadOK"
	}
	a.metrics.ObserveRoster(rosterStore.Len(), rosterStore.PresentCount())

	var credStore auth.CredentialStore
	if cfg.Auth.TeacherStateFile != "" {
		credStore, err = auth.NewFileStore(cfg.Auth.TeacherStateFile)
		if err != nil {
			return nil, fmt.Errorf("create teacher store: %w", err)
		}
	} else {
		credStore = auth.NewInMemoryStore()
	}
	authService, err := auth.NewService(credStore, auth.ServiceConfig{
		HashScheme:     cfg.Auth.HashScheme,
		PasswordPepper: cfg.Auth.PasswordPepper,
		BcryptCost:     cfg.Auth.BcryptCost,
	})
	if err != nil {
		return nil, fmt.Errorf("create auth service: %w", err)
	}
	created, err := authService.EnsureBootstrap(cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("bootstrap teacher created", "username", cfg.Auth.BootstrapUsername)
	}
	if cfg.Auth.HashScheme == auth.SchemeSHA256 && cfg.Auth.PasswordPepper == "" {
		logger.Debug("teacher passwords use unsalted sha256")
	}

	a.controller = console.New(in, out, console.Deps{
		Roster:   rosterStore,
		Auth:     authService,
		Messages: messages,
		Metrics:  a.metrics,
		Log:      logger,
	})
	return a, nil
}

// Run drives the console on the calling goroutine until the operator exits
// or ctx is cancelled. On cancellation the roster is not saved; students
// were already written when they were added.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		a.controller.Close()
		if err := a.metrics.Flush(a.cfg.MetricsTextfile); err != nil {
			a.log.Warn("metrics flush failed", "err", err)
		}
		_ = a.closeLog()
	}()

	_, _ = io.WriteString(a.out, a.messages.T(a.loadMsg, a.loadData)+"\n")

	a.log.Info("console session starting", "roster", a.cfg.RosterFile, "lang", a.cfg.Lang)
	err := a.controller.Run(ctx)
	switch {
	case err == nil:
		a.log.Info("console session finished")
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		a.log.Info("shutdown signal received")
		return nil
	default:
		return fmt.Errorf("console session: %w", err)
	}
}
