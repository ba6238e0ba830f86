package openapifx

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(New),
		fx.Invoke(func(config Config, logger *zap.Logger) {
			if !config.Enabled {
				return
			}
			logger.Info("openapi docs enabled",
				zap.String("public_host", config.PublicHost),
				zap.String("public_path", config.PublicPath),
			)
		}),
	)
}
