package config

import (
	"github.com/gitpilot/gitpilot/internal/credentials"
	"github.com/gitpilot/gitpilot/internal/git"
	"github.com/gitpilot/gitpilot/internal/github"
	"github.com/gitpilot/gitpilot/internal/history"
	"github.com/gitpilot/gitpilot/internal/repos"
	"github.com/gitpilot/gitpilot/internal/scaffold"
	"github.com/gitpilot/gitpilot/pkg/badgerfx"
	"github.com/gitpilot/gitpilot/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:        cfg.Storage.DataDir,
				InMemory:   cfg.Storage.InMemory,
				GCInterval: cfg.Storage.GCInterval,
			}
		}),
		fx.Provide(func(cfg Config) git.Config {
			return git.Config{
				Timeout: cfg.Git.Timeout,
				Binary:  cfg.Git.Binary,
				Author: git.AuthorConfig{
					Name:  cfg.Git.Author.Name,
					Email: cfg.Git.Author.Email,
				},
			}
		}),
		fx.Provide(func(cfg Config) repos.Config {
			return repos.Config{
				WorkspaceDir:  cfg.Git.WorkspaceDir,
				DefaultBranch: cfg.Git.DefaultBranch,
				LegacyBranch:  cfg.Git.LegacyBranch,
				RemoteName:    cfg.Git.RemoteName,
				RemoteHost:    cfg.Git.RemoteHost,
			}
		}),
		fx.Provide(func(cfg Config) github.Config {
			return github.Config{
				BaseURL: cfg.GitHub.BaseURL,
				Timeout: cfg.GitHub.Timeout,
			}
		}),
		fx.Provide(func(cfg Config) scaffold.Config {
			return scaffold.Config{
				TemplateBaseURL: cfg.Templates.BaseURL,
				Timeout:         cfg.Templates.Timeout,
			}
		}),
		fx.Provide(func(cfg Config) credentials.Config {
			return credentials.Config{
				File: cfg.Credentials.File,
			}
		}),
		fx.Provide(func(cfg Config) history.Config {
			return history.Config{
				Retention:    cfg.History.Retention,
				DefaultLimit: cfg.History.DefaultLimit,
			}
		}),
	)
}
