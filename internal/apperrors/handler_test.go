package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKindOfAndIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("Chat not found"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"validation", Validation("Content or file is required"), http.StatusBadRequest, "VALIDATION_ERROR", "Content or file is required"},
		{"forbidden", Forbidden("Not a participant"), http.StatusForbidden, "FORBIDDEN", "Not a participant"},
		{"conflict", Conflict("Feedback already submitted"), http.StatusConflict, "CONFLICT", "Feedback already submitted"},
		{"internal hides cause", Internal(errors.New("connection refused")), http.StatusInternalServerError, "INTERNAL", "Internal server error"},
		{"echo http error", echo.NewHTTPError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "RATE_LIMITED", "slow down"},
		{"mongo validation", mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 121}}}, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid data"},
		{"unknown", errors.New("driver exploded"), http.StatusInternalServerError, "INTERNAL", "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := Resolve(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestHTTPErrorHandlerWritesEnvelope(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.GET("/boom", func(c echo.Context) error { return errors.New("secret detail") })
	e.GET("/missing", func(c echo.Context) error { return NotFound("Match not found") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret detail")
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)

	hook.Reset()
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var got struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.Success)
	assert.Equal(t, "NOT_FOUND", got.Error.Code)
	assert.Equal(t, "Match not found", got.Error.Message)
	assert.Empty(t, hook.AllEntries())
}
