package handlers

import (
	"net/http"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/upload", h.Upload)
}

// Upload stores the multipart "file" field and returns its public URL
func (h *UploadHandler) Upload(c echo.Context) error {
	upload, file, err := formFile(c, "file")
	if err != nil {
		return err
	}
	if upload == nil {
		return apperrors.Validation("No file uploaded")
	}
	defer file.Close()

	obj, err := h.uploads.Upload(c.Request().Context(), upload)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, obj)
}
