package comments

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the comment endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/comments", h.List)
	g.POST("/comments", h.Create)
	g.GET("/comments/:id", h.Get)
	g.PUT("/comments/:id", h.Update)
	g.DELETE("/comments/:id", h.Delete)
}
