package operations

import (
	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"operations",
		logger.WithNamedLogger("operations"),
		fx.Provide(
			func(svc *git.Service) WorkingCopy { return svc },
			func(engine *stats.Engine) StatsEngine { return engine },
			fx.Private,
		),
		fx.Provide(NewExecutors),
		fx.Provide(NewService),
	)
}
