package comments

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/auth"
)

// Handler handles HTTP requests for comments.
type Handler struct {
	service CommentService
}

// NewHandler creates a new comment handler.
func NewHandler(service CommentService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c echo.Context) error {
	comments, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	if comments == nil {
		comments = []Comment{}
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) Get(c echo.Context) error {
	comment, err := h.service.Get(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	comment, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	comment, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
