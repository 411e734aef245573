package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/gitpilot/gitpilot/internal/config"
	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/scaffold"
	"github.com/gitpilot/gitpilot/internal/server"
	"github.com/gitpilot/gitpilot/internal/server/docs"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
	"github.com/gitpilot/gitpilot/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		openapifx.Module(docs.SwaggerInfo),
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "1.0.0", ReleaseID: 1} }),
		credentials.Module(),
		git.Module(),
		github.Module(),
		repos.Module(),
		scaffold.Module(),
		history.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 GitPilot application starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 GitPilot application shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
