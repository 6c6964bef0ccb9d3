package fx

import (
	"kirkit-dashboard/internal/api"
	"kirkit-dashboard/internal/config"
	"kirkit-dashboard/internal/dashboard"
	"kirkit-dashboard/internal/database"
	"kirkit-dashboard/internal/logger"
	"kirkit-dashboard/internal/repository"
	"kirkit-dashboard/internal/server"
	"kirkit-dashboard/internal/service"
	"kirkit-dashboard/internal/session"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSnapshotRepository),
	// api client
	fx.Provide(
		api.NewClient,
		func(c *api.Client) dashboard.Fetcher { return c },
	),
	// svc
	fx.Provide(service.NewSnapshotService),
	fx.Provide(session.NewStore),
	// server
	fx.Provide(server.NewDashboardServer),
)
