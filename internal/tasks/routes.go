package tasks

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the task endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/tasks", h.List)
	g.POST("/tasks", h.Create)
	g.GET("/tasks/:id", h.Get)
	g.PUT("/tasks/:id", h.Update)
	g.PATCH("/tasks/:id", h.Patch)
	g.DELETE("/tasks/:id", h.Delete)
}
