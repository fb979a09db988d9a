package router // route registration for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/handler"
	"github.com/fixthevideo/studio-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication:
// the health probe, the support contact link and the guest intake.
func RegisterRoutes(e *echo.Echo, contact *handler.ContactHandler, orders *handler.CustomerOrdersHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/contact/whatsapp", contact.WhatsApp)
	// Guest intake creates the customer account and the first project
	// in one request, so it cannot sit behind JWT.
	e.POST("/v1/orders", orders.GuestSubmit)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid token of
// either role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/admin/register", a.AdminRegister)
	g.POST("/admin/login", a.AdminLogin)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer, middleware.RoleAdmin),
	)
	auth.GET("/me", a.Me)
}
