package internal

import (
	"context"
	"runtime"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/gitpulse/gitpulse/internal/config"
	"github.com/gitpulse/gitpulse/internal/git"
	"github.com/gitpulse/gitpulse/internal/operations"
	"github.com/gitpulse/gitpulse/internal/repositories"
	"github.com/gitpulse/gitpulse/internal/server"
	"github.com/gitpulse/gitpulse/internal/stats"
	"github.com/gitpulse/gitpulse/internal/statscache"
	"github.com/gitpulse/gitpulse/internal/tasks"
	"github.com/gitpulse/gitpulse/pkg/badgerfx"
	"github.com/gitpulse/gitpulse/pkg/openapifx"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const metricsNamespace = "gitpulse"

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		openapifx.Module(),
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		git.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version {
			return healthfx.Version{Version: "1.0.0", ReleaseID: 1, GoVersion: runtime.Version()}
		}),
		repositories.Module(),
		tasks.Module(),
		stats.Module(),
		statscache.Module(),
		operations.Module(),
		//
		// METRICS
		fx.Invoke(func() {
			tasks.EnableMetrics(metricsNamespace, prometheus.DefaultRegisterer)
			statscache.EnableMetrics(metricsNamespace, prometheus.DefaultRegisterer)
		}),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 GitPulse application starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 GitPulse application shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
