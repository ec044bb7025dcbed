package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/anonto42/futsal-matcher/backend/internal/apperrors"
	"github.com/anonto42/futsal-matcher/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// bindAndValidate binds the request into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request payload")
	}
	return c.Validate(req)
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// queryInt parses an optional integer query parameter; absent or malformed values yield 0.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// formFile returns the uploaded file under field, or nil when the request carries none.
// The caller must close the returned file.
func formFile(c echo.Context, field string) (*services.FileUpload, multipart.File, error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nil, nil
	}
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, apperrors.Validation("Invalid multipart form")
	}
	file, err := header.Open()
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	return &services.FileUpload{
		Name:        header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Size:        header.Size,
		Body:        file,
	}, file, nil
}
