package statscache

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"statscache",
		logger.WithNamedLogger("statscache"),
		fx.Provide(NewStore, fx.Private),
		fx.Provide(New),
		fx.Invoke(func(cache *Cache, lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					cache.Close()
					return nil
				},
			})
		}),
	)
}
