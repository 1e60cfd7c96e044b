package tasks

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/auth"
)

// Handler handles HTTP requests for tasks. The assignee for every call is
// taken from the session, never from the request body or URL.
type Handler struct {
	service TaskService
}

// NewHandler creates a new task handler.
func NewHandler(service TaskService) *Handler {
	return &Handler{service: service}
}

// List returns the caller's tasks (GET /tasks).
func (h *Handler) List(c echo.Context) error {
	tasks, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get returns a single task (GET /tasks/:id).
func (h *Handler) Get(c echo.Context) error {
	task, err := h.service.Get(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Create stores a new task (POST /tasks).
func (h *Handler) Create(c echo.Context) error {
	var req CreateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	task, err := h.service.Create(c.Request().Context(), auth.GetUserID(c), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

// Update replaces a task (PUT /tasks/:id).
func (h *Handler) Update(c echo.Context) error {
	var req UpdateRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	task, err := h.service.Update(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Patch partially updates a task (PATCH /tasks/:id).
func (h *Handler) Patch(c echo.Context) error {
	var req PatchRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	task, err := h.service.Patch(c.Request().Context(), auth.GetUserID(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

// Delete removes a task (DELETE /tasks/:id).
func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
