// Package http provides the HTTP server for the webhook bridge.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/anoopsurendrananp/facebook-bot/internal/config"
	"github.com/anoopsurendrananp/facebook-bot/internal/service"
	"github.com/anoopsurendrananp/facebook-bot/internal/transport/http/webhook"
)

// NewServer creates and configures the echo server hosting the webhook
// endpoints.
func NewServer(svc *service.Service, cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	}))

	h := webhook.NewHandler(svc, cfg, logger)
	h.RegisterRoutes(e)

	return e
}
