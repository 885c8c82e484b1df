package bootstrap

import (
	"context"
	"net/http"

	"github.com/eleven-am/mesh-router/internal/gateway"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
)

var defaultCORSConfig = middleware.CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPut,
		http.MethodPost,
		http.MethodOptions,
	},
	AllowHeaders: []string{
		"Accept",
		"Content-Type",
		"X-Requested-With",
		gateway.AgentIDHeader,
	},
	MaxAge: 86400,
}

func ProvideRateLimiter(lc fx.Lifecycle, cfg *Config) *gateway.RateLimiter {
	rl := gateway.NewRateLimiter(gateway.RateLimiterConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
		CleanupInterval:   gateway.DefaultRateLimiterConfig().CleanupInterval,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			rl.Stop()
			return nil
		},
	})
	return rl
}

func NewEchoServer(rl *gateway.RateLimiter) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(defaultCORSConfig))
	e.Use(rl.Middleware())
	return e
}

func StartServer(lc fx.Lifecycle, e *echo.Echo, cfg *Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(cfg.ServerAddr); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

var ServerModule = fx.Options(
	fx.Provide(ProvideRateLimiter, NewEchoServer),
	fx.Invoke(StartServer),
)

func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(LoadConfig),
		TracingModule,
		InfrastructureModule,
		StoresModule,
		MeshModule,
		ServerModule,
		gateway.Module,
		GRPCModule,
		HandlersModule,
		HealthModule,
		SupervisorModule,
	)
}

func Run() {
	fx.New(appOptions()).Run()
}
