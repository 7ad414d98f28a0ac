// Package webhook provides the HTTP handlers for the platform webhook.
package webhook

import (
	"fmt"
	"html"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/anoopsurendrananp/facebook-bot/internal/config"
	"github.com/anoopsurendrananp/facebook-bot/internal/domain"
	"github.com/anoopsurendrananp/facebook-bot/internal/service"
)

// Handler handles the webhook HTTP endpoints.
type Handler struct {
	svc    *service.Service
	cfg    *config.Config
	logger zerolog.Logger
}

// NewHandler creates a new handler.
func NewHandler(svc *service.Service, cfg *config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/webhook", h.VerifyWebhook)
	e.POST("/webhook", h.ReceiveWebhook, VerifySignature(h.cfg.AppSecret, h.logger))
	e.GET("/authorize", h.Authorize)
	e.GET("/health", h.Health)
}

// VerifyWebhook handles the platform's subscription handshake: echo the
// challenge when the verify token matches, 403 otherwise.
func (h *Handler) VerifyWebhook(c echo.Context) error {
	if c.QueryParam("hub.mode") == "subscribe" &&
		c.QueryParam("hub.verify_token") == h.cfg.ValidationToken {
		h.logger.Info().Msg("webhook validation success")
		return c.String(http.StatusOK, c.QueryParam("hub.challenge"))
	}
	h.logger.Warn().Msg("webhook validation failed, tokens do not match")
	return c.NoContent(http.StatusForbidden)
}

// ReceiveWebhook accepts a page-subscription batch. Once the payload is
// recognized it is always acknowledged with 200; per-event failures are
// logged by the dispatcher and never surface here.
func (h *Handler) ReceiveWebhook(c echo.Context) error {
	var payload domain.WebhookPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if payload.Object != "page" {
		return c.NoContent(http.StatusNotFound)
	}

	h.svc.HandleBatch(c.Request().Context(), &payload)
	return c.NoContent(http.StatusOK)
}

// Authorize renders the account-linking page. The authorization code is
// generated per request and handed back to the platform appended to the
// success redirect URI.
func (h *Handler) Authorize(c echo.Context) error {
	linkingToken := c.QueryParam("account_linking_token")
	redirectURI := c.QueryParam("redirect_uri")
	if linkingToken == "" || redirectURI == "" {
		return c.NoContent(http.StatusBadRequest)
	}

	authCode := uuid.NewString()
	successURI := redirectURI + "&authorization_code=" + authCode

	h.logger.Info().Str("linking_token", linkingToken).Msg("rendering account linking page")
	page := fmt.Sprintf(authorizePage, html.EscapeString(linkingToken), html.EscapeString(successURI))
	return c.HTML(http.StatusOK, page)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

const authorizePage = `<!DOCTYPE html>
<html>
<head><title>Link your account</title></head>
<body>
<h1>Link your account</h1>
<p>Account linking token: %s</p>
<a href="%s">Continue</a>
</body>
</html>
`
