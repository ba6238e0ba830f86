package tasks

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"tasks",
		logger.WithNamedLogger("tasks"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewRunner, fx.Private),
		fx.Provide(NewService),
		fx.Invoke(func(runner *Runner, lc fx.Lifecycle) {
			lc.Append(fx.StartStopHook(runner.Start, runner.Stop))
		}),
	)
}
