package lessons

import "github.com/labstack/echo/v4"

// RegisterRoutes mounts the lesson endpoints on the authenticated group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/lessons", h.List)
	g.POST("/lessons", h.Create)
	g.GET("/lessons/:id", h.Get)
	g.PUT("/lessons/:id", h.Update)
	g.PATCH("/lessons/:id", h.Patch)
	g.DELETE("/lessons/:id", h.Delete)
}
