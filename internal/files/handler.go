package files

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogonek-app/backend/internal/apperror"
	"github.com/ogonek-app/backend/internal/auth"
)

// Handler handles HTTP requests for file attachments.
type Handler struct {
	service FileService
}

// NewHandler creates a new file handler.
func NewHandler(service FileService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c echo.Context) error {
	out, err := h.service.List(c.Request().Context(), auth.GetUserID(c))
	if err != nil {
		return err
	}
	if out == nil {
		out = []StoredFile{}
	}
	return c.JSON(http.StatusOK, out)
}

// Upload accepts a multipart form with a single "file" part.
func (h *Handler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperror.NewBadRequest("multipart field 'file' is required")
	}

	src, err := fh.Open()
	if err != nil {
		return apperror.NewBadRequest("unreadable upload")
	}
	defer src.Close()

	file, err := h.service.Upload(c.Request().Context(), auth.GetUserID(c),
		fh.Filename, fh.Header.Get("Content-Type"), src)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, file)
}

// Download streams the blob back with the original filename as an
// attachment.
func (h *Handler) Download(c echo.Context) error {
	file, blob, err := h.service.Download(c.Request().Context(), auth.GetUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	defer blob.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.OriginalName))
	http.ServeContent(c.Response(), c.Request(), file.OriginalName, file.CreatedAt, blob)
	return nil
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), auth.GetUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
