package handler

import (
	stderrors "errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"harvesthub/internal/errors"
	"harvesthub/internal/storage"
)

// UploadHandler serves stored listing photos.
type UploadHandler struct {
	store storage.Storage
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

// ServeUpload godoc
// @Summary Download an uploaded photo
// @Tags uploads
// @Produce octet-stream
// @Param filename path string true "Stored filename"
// @Success 200 {file} file
// @Failure 404 {object} errors.ErrorResponse
// @Router /uploads/{filename} [get]
func (h *UploadHandler) ServeUpload(c echo.Context) error {
	name := c.Param("filename")
	if name == "" || storage.SanitizeFilename(name) != name {
		return httpError(errors.ErrFileNotFound)
	}

	rc, err := h.store.Open(c.Request().Context(), name)
	if stderrors.Is(err, storage.ErrObjectNotFound) {
		return httpError(errors.ErrFileNotFound)
	}
	if err != nil {
		return httpError(fmt.Errorf("open upload: %w", err))
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, rc)
}
