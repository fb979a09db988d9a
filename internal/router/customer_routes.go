package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/handler"
	"github.com/fixthevideo/studio-api/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All
// routes require a valid JWT with the customer role.  Customers file
// projects, follow their progress, request revisions, chat with the
// lab and pay quotes.
func RegisterCustomer(e *echo.Echo, orders *handler.CustomerOrdersHandler, chat *handler.ChatHandler, payments *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer),
	)

	g.POST("/my/orders", orders.Submit)
	g.GET("/my/orders", orders.ListMine)
	g.GET("/my/orders/:id", orders.GetMine)
	g.POST("/my/orders/:id/revisions", orders.AddRevision)

	g.GET("/my/chat", chat.MyThread)
	g.POST("/my/chat", chat.MySend)
	g.POST("/my/chat/read", chat.MyMarkRead)

	g.POST("/payments", payments.Begin)
	g.POST("/payments/:id/confirm", payments.Confirm)
	g.POST("/payments/:id/cancel", payments.Cancel)
	g.GET("/payments/:id", payments.Status)
}
