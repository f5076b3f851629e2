package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/ping/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	before := testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/ping/:id", "200"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping/7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(RequestTotal.WithLabelValues(http.MethodGet, "/ping/:id", "200")))
}
