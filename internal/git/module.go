package git

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"git",
		logger.WithNamedLogger("git"),
		fx.Provide(NewService),
		fx.Invoke(func(config Config, logger *zap.Logger) {
			logger.Info("git client configured",
				zap.Bool("default_https_credentials", config.Auth.HTTPS.DefaultToken != ""),
				zap.String("default_https_username", config.Auth.HTTPS.DefaultUsername),
			)
		}),
	)
}
