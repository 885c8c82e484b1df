package bootstrap

import (
	"log/slog"
	"os"

	"github.com/eleven-am/mesh-router/internal/mesh"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	MeshHandler *mesh.Handler
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	api := e.Group("/v1")
	params.MeshHandler.RegisterRoutes(api)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
}

func ProvideMeshHandler(coord *mesh.Coordinator, logger *slog.Logger) *mesh.Handler {
	return mesh.NewHandler(coord, logger.With("handler", "mesh"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideLogger,
		ProvideMeshHandler,
	),
	fx.Invoke(RegisterRoutes),
)
