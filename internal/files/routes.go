package files

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the file endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/files", h.List)
	g.POST("/files", h.Upload)
	g.GET("/files/:id", h.Download)
	g.DELETE("/files/:id", h.Delete)
}
