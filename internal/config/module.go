package config

import (
	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/gitpulse/gitpulse/pkg/openapifx"
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
				GCInterval: cfg.Storage.GCInterval,
			}
		}),
		fx.Provide(func(cfg Config) git.Config {
			return git.Config{
				Auth: git.AuthConfig{
					HTTPS: git.HTTPSAuthConfig{
						DefaultToken:    cfg.Git.Auth.HTTPS.DefaultToken,
						DefaultUsername: cfg.Git.Auth.HTTPS.DefaultUsername,
					},
				},
			}
		}),
		fx.Provide(func(cfg Config) repositories.Config {
			return repositories.Config{
				WorkDir: cfg.Git.WorkDir,
			}
		}),
		fx.Provide(func(cfg Config) tasks.Config {
			return tasks.Config{
				Workers: cfg.Tasks.Workers,
				Timeouts: tasks.Timeouts{
					Clone:        cfg.Tasks.Timeouts.Clone,
					Update:       cfg.Tasks.Timeouts.Update,
					Reset:        cfg.Tasks.Timeouts.Reset,
					SwitchBranch: cfg.Tasks.Timeouts.SwitchBranch,
					ComputeStats: cfg.Tasks.Timeouts.ComputeStats,
				},
			}
		}),
		fx.Provide(func(cfg Config) statscache.Config {
			return statscache.Config{
				MaxConcurrent:  cfg.Stats.MaxConcurrent,
				ComputeTimeout: cfg.Stats.ComputeTimeout,
			}
		}),
	)
}
