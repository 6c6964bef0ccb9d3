package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/constants"
	fxmodules "kirkit-dashboard/internal/fx"
	"kirkit-dashboard/internal/server"
	"kirkit-dashboard/internal/session"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runSessionSweeper),
		fx.Invoke(runServer),
	).Run()
}

func runSessionSweeper(lc fx.Lifecycle, sessions *session.Store) {
	stop := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go sessions.Run(constants.SessionSweepInterval, stop)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			sessions.CloseAll()
			return nil
		},
	})
}

func runServer(
	lc fx.Lifecycle,
	dashboardServer *server.DashboardServer,
	cfg *config.Config,
	db *sql.DB,
	logger zerolog.Logger,
) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: dashboardServer.Routes(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", srv.Addr).Str("api_base", cfg.APIBase).Msg("dashboard starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}

			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}
