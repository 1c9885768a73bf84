// Package cli wires configuration, logging and the budget backend together
// and exposes the budget operations as subcommands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"budget/internal/adapters"
	"budget/internal/backend"
	"budget/internal/config"
	"budget/internal/log"
	"budget/internal/services"
)

// SetupLogger builds the application logger at the configured level and
// installs it as the slog default.
func SetupLogger(level string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.New(log.Config{Level: lvl, Component: log.ComponentApp, Output: out})
	log.SetDefault(logger)
	return logger, nil
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Session is an opened budget plus the resources behind it.
type Session struct {
	Config  *config.Config
	Logger  *log.Logger
	Budget  *services.BudgetService
	Storage backend.Backend
	close   func() error
}

// Close releases the backend.
func (s *Session) Close() error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close()
}

// OpenBudget creates the configured backend and hydrates the budget from it.
func OpenBudget(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Session, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	svc, err := services.NewBudgetService(ctx, adapters.NewSlotAdapter(res.Backend, logger), logger)
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	for _, w := range svc.Warnings() {
		logger.WarnContext(ctx, "Persisted data was reset", log.FieldError, w, log.FieldOperation, log.OpLoad)
	}

	return &Session{Config: cfg, Logger: logger, Budget: svc, Storage: res.Backend, close: res.Close}, nil
}

// openFromEnvironment is the default Env.Open. Long-running commands log to
// stdout at the configured level; one-shot commands log to stderr and only
// from Warn up unless debug is asked for.
func openFromEnvironment(ctx context.Context, serve bool) (*Session, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}

	out := io.Writer(os.Stdout)
	level := cfg.LogLevel
	if !serve {
		out = os.Stderr
		if lvl, _ := log.ParseLevel(level); lvl < slog.LevelWarn && lvl != slog.LevelDebug {
			level = "warn"
		}
	}
	logger, err := SetupLogger(level, out)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	session, err := OpenBudget(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open budget", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		return nil, err
	}
	return session, nil
}
