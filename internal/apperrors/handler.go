package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// mongoDocumentValidationFailure is the server code for a write rejected by a collection validator.
const mongoDocumentValidationFailure = 121

type body struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Resolve maps any error returned by a handler to a status code and a client-safe body.
func Resolve(err error) (int, string, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		msg := appErr.Message
		if appErr.Kind == KindInternal {
			msg = "Internal server error"
		}
		return appErr.Kind.HTTPStatus(), appErr.Kind.String(), msg
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		} else if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, codeForStatus(he.Code), msg
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return http.StatusBadRequest, KindValidation.String(), verrs[0].Error()
	}

	if isStorageValidation(err) {
		return http.StatusBadRequest, KindValidation.String(), "Invalid data"
	}

	return http.StatusInternalServerError, KindInternal.String(), "Internal server error"
}

func isStorageValidation(err error) bool {
	if errors.Is(err, gorm.ErrInvalidData) || errors.Is(err, gorm.ErrInvalidField) {
		return true
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == mongoDocumentValidationFailure {
				return true
			}
		}
	}
	return false
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return KindValidation.String()
	case http.StatusUnauthorized:
		return KindUnauthorized.String()
	case http.StatusForbidden:
		return KindForbidden.String()
	case http.StatusNotFound:
		return KindNotFound.String()
	case http.StatusConflict:
		return KindConflict.String()
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	}
	if status >= 500 {
		return KindInternal.String()
	}
	return "ERROR"
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler writing the standard error envelope.
func NewHTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := Resolve(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body{Error: errorBody{Code: code, Message: msg}})
		}
		if err != nil {
			log.WithError(err).Warn("failed to write error response")
		}
	}
}
