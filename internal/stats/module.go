package stats

import (
	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"stats",
		logger.WithNamedLogger("stats"),
		fx.Provide(func(gitSvc *git.Service, logger *zap.Logger) *Engine {
			return NewEngine(gitSvc, logger)
		}),
	)
}
