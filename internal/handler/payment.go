package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/service"
)

// PaymentHandler exposes the simulated checkout flow to customers.
type PaymentHandler struct {
	Payments *service.PaymentSimulator
}

func NewPaymentHandler(p *service.PaymentSimulator) *PaymentHandler {
	if p == nil {
		panic("payment handler: nil dependency")
	}
	return &PaymentHandler{Payments: p}
}

// Begin opens a checkout session for one of the caller's orders.
func (h *PaymentHandler) Begin(c echo.Context) error {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "orderId required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Payments.Begin(ctx, req.OrderID, middleware.Subject(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

// Confirm submits the session for processing.  The response reflects
// the processing state; clients poll Status for the outcome.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	session, err := h.Payments.Confirm(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, session)
}

// Cancel abandons a session that is still collecting details.
func (h *PaymentHandler) Cancel(c echo.Context) error {
	if err := h.Payments.Cancel(c.Param("id")); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "cancelled"})
}

// Status reports the session state.
func (h *PaymentHandler) Status(c echo.Context) error {
	session, err := h.Payments.Status(c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, session)
}
