package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/go-forms/internal/config"
	"github.com/deppfellow/go-forms/internal/handler"
	"github.com/deppfellow/go-forms/internal/logger"
	"github.com/deppfellow/go-forms/internal/repository"
	"github.com/deppfellow/go-forms/internal/router"
	"github.com/deppfellow/go-forms/internal/server"
	"github.com/deppfellow/go-forms/internal/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration is read from FORMS_* environment variables and an optional
.env file. Forms whose integrations are not configured still answer, with
a 500 naming the missing variables.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	log := logger.NewLogger(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		return errors.Wrap(err, "failed to create services")
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	for _, form := range services.Forms.Forms() {
		if missing := form.Missing(); len(missing) > 0 {
			log.Warn().Str("form", form.Name).Strs("missing", missing).Msg("form is not configured")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return errors.Wrap(err, "server stopped")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "graceful shutdown failed")
	}

	log.Info().Msg("server exited properly")
	return nil
}
