package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fixthevideo/studio-api/internal/handler"
	"github.com/fixthevideo/studio-api/internal/middleware"
)

// RegisterAdmin registers the operator dashboard endpoints under
// /v1/admin.  All routes require a valid JWT with the admin role;
// account administration additionally checks the super sub-role in
// the handler.
func RegisterAdmin(e *echo.Echo, orders *handler.AdminOrdersHandler, chat *handler.ChatHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleAdmin),
	)

	g.GET("/orders", orders.List)
	g.GET("/orders/stats", orders.Stats)
	g.GET("/orders/:id", orders.Get)
	g.PATCH("/orders/:id/status", orders.UpdateStatus)
	g.POST("/orders/:id/cancel", orders.ToggleCancel)
	g.DELETE("/orders/:id", orders.Delete)
	g.POST("/orders/:id/quote", orders.IssueQuote)
	g.POST("/orders/:id/final", orders.FinalDelivery)
	g.PUT("/orders/:id/notes", orders.SetInternalNotes)
	g.POST("/orders/:id/revisions/:revisionId/resolve", orders.ResolveRevision)

	g.GET("/chat/threads", chat.ListThreads)
	g.GET("/chat/threads/:email", chat.GetThread)
	g.POST("/chat/threads/:email", chat.Send)
	g.POST("/chat/threads/:email/read", chat.MarkRead)

	g.GET("/admins", orders.ListAdmins)
	g.POST("/admins/:id/approve", orders.ApproveAdmin)
}
