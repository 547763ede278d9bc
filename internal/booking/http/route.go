package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.GET("/:id/history", h.History)
		group.POST("/:id/cancel", h.Cancel)
		group.POST("/:id/bump", h.Bump)
	}

	// Review and closeout actions are reserved for admins.
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.POST("/:id/approve", h.Approve)
		admin.POST("/:id/decline", h.Decline)
		admin.POST("/:id/complete", h.Complete)
		admin.POST("/:id/no-show", h.MarkNoShow)
	}
}
