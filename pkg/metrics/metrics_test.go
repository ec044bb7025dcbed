package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/matches/:id", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/matches/:id", "204"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/matches/abc", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "/matches/:id", "204")))
}

func TestDomainCounters(t *testing.T) {
	sent := testutil.ToFloat64(messagesSent)
	MessageSent()
	assert.Equal(t, sent+1, testutil.ToFloat64(messagesSent))

	created := testutil.ToFloat64(notificationsCreated.WithLabelValues("message"))
	NotificationsCreated("message", 3)
	assert.Equal(t, created+3, testutil.ToFloat64(notificationsCreated.WithLabelValues("message")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	MessageSent()
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "futsal_chat_messages_sent_total"))
}
