package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/middleware"
	"github.com/fixthevideo/studio-api/internal/model"
	"github.com/fixthevideo/studio-api/internal/repository"
	"github.com/fixthevideo/studio-api/internal/service"
)

// AdminOrdersHandler serves the operator dashboard: filtered listings,
// status moves, quoting, final delivery, cancellation and account
// administration.
type AdminOrdersHandler struct {
	Orders    *repository.OrderRepo
	Admins    *repository.AdminRepo
	Quotes    *service.QuoteEngine
	Lifecycle *service.Lifecycle
}

func NewAdminOrdersHandler(orders *repository.OrderRepo, admins *repository.AdminRepo, quotes *service.QuoteEngine, lifecycle *service.Lifecycle) *AdminOrdersHandler {
	if orders == nil || admins == nil || quotes == nil || lifecycle == nil {
		panic("admin orders handler: nil dependency")
	}
	return &AdminOrdersHandler{Orders: orders, Admins: admins, Quotes: quotes, Lifecycle: lifecycle}
}

// List returns the dashboard listing.  Query parameters: tab (Active,
// Completed, Cancelled, Delivered), type (All, Samples, Orders), by
// (Batch, Date, Email) and q; the search narrows results only when q
// is present.
func (h *AdminOrdersHandler) List(c echo.Context) error {
	f := repository.OrderFilter{
		Tab:       c.QueryParam("tab"),
		ListType:  c.QueryParam("type"),
		Criterion: c.QueryParam("by"),
		Search:    c.QueryParam("q"),
	}
	if f.Tab == "" {
		f.Tab = repository.TabActive
	}
	if f.ListType == "" {
		f.ListType = repository.ListAll
	}
	if f.Criterion == "" {
		f.Criterion = repository.SearchBatch
	}
	f.Applied = f.Search != ""

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	orders, err := h.Orders.ListFiltered(ctx, f)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders, "count": len(orders)})
}

// Get returns one order with revisions and internal notes.
func (h *AdminOrdersHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"order": order, "internalNotes": order.InternalNotes})
}

// UpdateStatus moves an order to another pipeline stage.  Backward
// moves are allowed; every move publishes order.status_changed.
func (h *AdminOrdersHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Lifecycle.UpdateStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// ToggleCancel flips the cancelled flag.  On the transition into the
// cancelled state the customer is notified through their chat thread.
func (h *AdminOrdersHandler) ToggleCancel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Lifecycle.ToggleCancel(ctx, c.Param("id"))
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Delete permanently removes an order.  The confirm=true query
// parameter is required; the batch id is never reissued afterwards.
func (h *AdminOrdersHandler) Delete(c echo.Context) error {
	if c.QueryParam("confirm") != "true" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirm=true required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Orders.Delete(ctx, c.Param("id")); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deleted"})
}

// IssueQuote prices a finished sample and relays the quote to the
// customer.
func (h *AdminOrdersHandler) IssueQuote(c echo.Context) error {
	var req service.QuoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Quotes.IssueQuote(ctx, c.Param("id"), req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// FinalDelivery hands over the master file.
func (h *AdminOrdersHandler) FinalDelivery(c echo.Context) error {
	var req service.FinalDeliveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	order, err := h.Quotes.SubmitFinalDelivery(ctx, c.Param("id"), req)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// SetInternalNotes replaces the admin-only notes on an order.
func (h *AdminOrdersHandler) SetInternalNotes(c echo.Context) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	order, err := h.Orders.SetInternalNotes(ctx, c.Param("id"), req.Notes)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"id": order.ID, "internalNotes": order.InternalNotes})
}

// ResolveRevision marks a customer rework request as addressed.
func (h *AdminOrdersHandler) ResolveRevision(c echo.Context) error {
	revID, err := strconv.ParseUint(c.Param("revisionId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid revision id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Orders.ResolveRevision(ctx, revID); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "resolved"})
}

// Stats returns the dashboard counters: active samples and active
// orders.
func (h *AdminOrdersHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	samples, orders, err := h.Orders.Stats(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"activeSamples": samples, "activeOrders": orders})
}

// requireSuper rejects callers whose operator account is not a super
// admin.  Returns the account on success.
func (h *AdminOrdersHandler) requireSuper(c echo.Context) (model.Admin, error) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Admins.GetByEmail(ctx, middleware.Subject(c))
	if err != nil {
		return model.Admin{}, repository.ErrForbidden
	}
	if admin.Role != model.AdminRoleSuper {
		return model.Admin{}, repository.ErrForbidden
	}
	return admin, nil
}

// ListAdmins lists operator accounts.  Super admins only.
func (h *AdminOrdersHandler) ListAdmins(c echo.Context) error {
	if _, err := h.requireSuper(c); err != nil {
		return writeErr(c, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admins, err := h.Admins.List(ctx)
	if err != nil {
		return writeErr(c, err)
	}
	out := make([]echo.Map, 0, len(admins))
	for _, a := range admins {
		out = append(out, echo.Map{
			"id": a.ID, "email": a.Email, "name": a.Name,
			"approved": a.IsApproved, "role": a.Role,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"admins": out})
}

// ApproveAdmin approves a pending operator account.  Super admins only.
func (h *AdminOrdersHandler) ApproveAdmin(c echo.Context) error {
	if _, err := h.requireSuper(c); err != nil {
		return writeErr(c, err)
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid admin id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Admins.Approve(ctx, id); err != nil {
		return writeErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "approved"})
}
