package cli

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"

	apphttp "budget/internal/http"
	"budget/internal/log"
)

type serveCmd struct {
	env *Env
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the budget web page" }
func (*serveCmd) Usage() string {
	return `budget serve

  Serves the budget page on $PORT until interrupted.
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := c.env.Open(ctx, true)
	if err != nil {
		c.env.errorf("Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer s.Close()

	if err := serve(ctx, s); err != nil {
		s.Logger.Error("Server error", log.FieldError, err)
		return subcommands.ExitFailure
	}
	s.Logger.Info("Server stopped gracefully")
	return subcommands.ExitSuccess
}

// serve runs the HTTP server until ctx is cancelled, then drains it within
// the configured shutdown timeout.
func serve(ctx context.Context, s *Session) error {
	srv := apphttp.NewServer(s.Config.Addr(), s.Budget, s.Logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB
	if s.Storage != nil {
		srv.SetStorage(s.Storage)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info("Starting budget server",
			"port", s.Config.Port,
			log.FieldBackend, s.Config.DataBackend,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
