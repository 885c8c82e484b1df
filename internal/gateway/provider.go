package gateway

import (
	"log/slog"

	"go.uber.org/fx"
)

func ProvideHealthServer(logger *slog.Logger) *HealthServer {
	return NewHealthServer(logger)
}

var Module = fx.Options(
	fx.Provide(ProvideHealthServer),
)
