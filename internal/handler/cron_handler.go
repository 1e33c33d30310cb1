package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/labstack/echo/v4"

	"simpleblog/internal/logger"
)

// CronSecretHeader carries the shared secret a scheduler must present.
const CronSecretHeader = "X-Cron-Secret"

// CronHandler lets an external scheduler trigger an outbound keep-alive GET.
type CronHandler struct {
	client *resty.Client
	secret string
	target string
}

// NewCronHandler creates a cron handler. An empty secret rejects every call.
func NewCronHandler(secret, target string) *CronHandler {
	return &CronHandler{
		client: resty.New().SetTimeout(15 * time.Second),
		secret: secret,
		target: target,
	}
}

// Ping godoc
// @Summary Trigger the keep-alive request
// @Tags cron
// @Produce plain
// @Param X-Cron-Secret header string true "Shared secret"
// @Success 200 {string} string "ok"
// @Failure 403 {string} string "forbidden"
// @Failure 500 {string} string "error"
// @Failure 502 {string} string "bad gateway"
// @Router /cron/ping [get]
func (h *CronHandler) Ping(c echo.Context) error {
	given := c.Request().Header.Get(CronSecretHeader)
	if h.secret == "" || subtle.ConstantTimeCompare([]byte(given), []byte(h.secret)) != 1 {
		return c.String(http.StatusForbidden, "forbidden")
	}

	log := logger.FromContext(c.Request().Context())
	if h.target == "" {
		log.Error().Msg("cron target url not configured")
		return c.String(http.StatusInternalServerError, "error")
	}

	resp, err := h.client.R().
		SetContext(c.Request().Context()).
		Get(h.target)
	if err != nil {
		log.Error().Err(err).Str("target", h.target).Msg("cron request failed")
		return c.String(http.StatusInternalServerError, "error")
	}
	if resp.StatusCode() != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode()).Str("target", h.target).Msg("cron target returned non-200")
		return c.String(http.StatusBadGateway, "bad gateway")
	}

	log.Info().Str("target", h.target).Msg("cron request sent")
	return c.String(http.StatusOK, "ok")
}
