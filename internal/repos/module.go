package repos

import (
	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"repos",
		logger.WithNamedLogger("repos"),
		fx.Provide(func(store *credentials.Store) CredentialsSource { return store }, fx.Private),
		fx.Provide(func(client *github.Client) PullRequestCreator { return client }, fx.Private),
		fx.Provide(NewService),
	)
}
