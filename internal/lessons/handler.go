package lessons

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/auth"
)

// Handler handles HTTP requests for lessons.
type Handler struct {
	service LessonService
}

// NewHandler creates a new lesson handler.
func NewHandler(service LessonService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c echo.Context) error {
	lessons, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	if lessons == nil {
		lessons = []Lesson{}
	}
	return c.JSON(http.StatusOK, lessons)
}

func (h *Handler) Get(c echo.Context) error {
	lesson, err := h.service.Get(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	lesson, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lesson)
}

func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	lesson, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

func (h *Handler) Patch(c echo.Context) error {
	var req PatchRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	lesson, err := h.service.Patch(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
