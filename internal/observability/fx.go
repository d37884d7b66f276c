package observability

import (
	"github.com/smallbiznis/kasira/internal/config"
	"github.com/smallbiznis/kasira/internal/observability/metrics"
	"github.com/smallbiznis/kasira/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(func(cfg config.Config) *metrics.LedgerMetrics {
		return metrics.LedgerWithConfig(metrics.Config{
			ServiceName: cfg.ServiceName,
			Environment: cfg.Environment,
		})
	}),
	fx.Invoke(func(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
		_, err := tracing.NewProvider(lc, tracing.Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      cfg.ServiceName,
			ServiceVersion:   cfg.ServiceVersion,
			Environment:      cfg.Environment,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}, log.Named("tracing"))
		return err
	}),
)
