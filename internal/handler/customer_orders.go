package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/service"
)

// CustomerOrdersHandler serves the customer-facing order surface:
// guest intake, authenticated intake and the "my orders" views.
type CustomerOrdersHandler struct {
	Intake *service.Intake
	Orders *repository.OrderRepo
}

func NewCustomerOrdersHandler(intake *service.Intake, orders *repository.OrderRepo) *CustomerOrdersHandler {
	if intake == nil || orders == nil {
		panic("customer orders handler: nil dependency")
	}
	return &CustomerOrdersHandler{Intake: intake, Orders: orders}
}

// GuestSubmit files a project and opens the account in one request.
// 409 when the email already has an account; nothing is created then.
func (h *CustomerOrdersHandler) GuestSubmit(c echo.Context) error {
	var req service.GuestIntakeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, cust, err := h.Intake.GuestSubmit(ctx, req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"order":   order,
		"account": echo.Map{"email": cust.Email, "name": cust.Name},
	})
}

// Submit files a new project for the authenticated customer.
func (h *CustomerOrdersHandler) Submit(c echo.Context) error {
	var req service.IntakeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Intake.Submit(ctx, middleware.Subject(c), req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMine returns every order owned by the authenticated customer in
// submission order.
func (h *CustomerOrdersHandler) ListMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.ListByCustomer(ctx, middleware.Subject(c))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

// GetMine returns one order, enforcing ownership.
func (h *CustomerOrdersHandler) GetMine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	if !strings.EqualFold(order.CustomerEmail, middleware.Subject(c)) {
		return writeErr(c, repository.ErrForbidden)
	}
	return c.JSON(http.StatusOK, order)
}

// AddRevision files a rework request on an order the customer owns.
func (h *CustomerOrdersHandler) AddRevision(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	if !strings.EqualFold(order.CustomerEmail, middleware.Subject(c)) {
		return writeErr(c, repository.ErrForbidden)
	}
	rev, err := h.Orders.AddRevision(ctx, order.ID, req.Text)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusCreated, rev)
}

