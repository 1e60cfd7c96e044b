package recommendations

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the recommendation endpoints on the
// authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/recommendations", h.List)
	g.POST("/recommendations", h.Create)
	g.GET("/recommendations/:id", h.Get)
	g.PUT("/recommendations/:id", h.Update)
	g.DELETE("/recommendations/:id", h.Delete)
}
