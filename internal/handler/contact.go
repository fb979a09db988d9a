package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/config"
)

// ContactHandler exposes the support contact surface.
type ContactHandler struct {
	Cfg *config.Config
}

func NewContactHandler(cfg *config.Config) *ContactHandler {
	if cfg == nil {
		panic("contact handler: nil dependency")
	}
	return &ContactHandler{Cfg: cfg}
}

// WhatsApp returns the wa.me deep link with the prefilled greeting.
// 404 when no support phone is configured.
func (h *ContactHandler) WhatsApp(c echo.Context) error {
	if h.Cfg.WhatsAppPhone == "" {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "support contact not configured"})
	}
	link := "https://wa.me/" + h.Cfg.WhatsAppPhone +
		"?text=" + url.QueryEscape(h.Cfg.WhatsAppMessage)
	return c.JSON(http.StatusOK, echo.Map{"url": link})
}
