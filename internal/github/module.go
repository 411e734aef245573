package github

import (
	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"github",
		logger.WithNamedLogger("github"),
		fx.Provide(func(store *credentials.Store) CredentialsSource { return store }, fx.Private),
		fx.Provide(NewClient),
	)
}
