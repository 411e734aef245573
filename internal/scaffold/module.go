package scaffold

import (
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"scaffold",
		logger.WithNamedLogger("scaffold"),
		fx.Provide(NewTemplateSource, fx.Private),
		fx.Provide(func(svc *repos.Service) Workspace { return svc }, fx.Private),
		fx.Provide(NewService),
	)
}
