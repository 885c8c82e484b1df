package bootstrap

import (
	"context"

	"github.com/eleven-am/mesh-router/internal/tracing"
	"go.uber.org/fx"
)

func SetupTracing(lc fx.Lifecycle, cfg *Config) error {
	shutdown, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:  cfg.TracingEnabled,
		Exporter: cfg.TracingExporter,
	})
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}

var TracingModule = fx.Options(
	fx.Invoke(SetupTracing),
)
