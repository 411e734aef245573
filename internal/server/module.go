package server

import (
	"github.com/gitpilot/gitpilot/internal/server/handlers/auth"
	"github.com/gitpilot/gitpilot/internal/server/handlers/github"
	"github.com/gitpilot/gitpilot/internal/server/handlers/history"
	"github.com/gitpilot/gitpilot/internal/server/handlers/repos"
	"github.com/gitpilot/gitpilot/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-core-fx/fiberfx/health"
	"github.com/go-core-fx/fiberfx/validation"
	"github.com/go-core-fx/logger"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"server",
		logger.WithNamedLogger("server"),

		fx.Provide(func(log *zap.Logger) fiberfx.Options {
			opts := fiberfx.Options{}
			opts.WithErrorHandler(fiberfx.NewJSONErrorHandler(log))
			opts.WithMetrics()
			return opts
		}),

		fx.Provide(
			fx.Annotate(health.NewHandler, fx.ResultTags(`name:"health-handler"`)), fx.Private,
			fx.Annotate(auth.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(repos.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(github.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(history.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
		),

		fx.Invoke(
			fx.Annotate(
				func(handlers []handler.Handler, healthHandler handler.Handler, openapiHandler *openapifx.Handler, app *fiber.App) {
					healthHandler.Register(app)

					v1 := app.Group("/api/v1")
					openapiHandler.Register(v1.Group("/docs"))

					v1.Use(validation.Middleware)

					for _, h := range handlers {
						h.Register(v1)
					}
				},
				fx.ParamTags(`group:"handlers"`, `name:"health-handler"`),
			),
		),
	)
}
