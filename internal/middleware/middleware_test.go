package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware_Metrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pm := NewPrometheusMiddleware("test", registry)
	r.Use(pm.Handler())

	r.GET("/api/snapshot", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/api/broken", func(c *gin.Context) { c.JSON(http.StatusInternalServerError, gin.H{"error": "test error"}) })
	r.GET("/api/journal", func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) })
	r.POST("/api/admin/fire", func(c *gin.Context) { c.Status(http.StatusAccepted) })

	do := func(method, path string) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	}
	do(http.MethodGet, "/api/snapshot")
	do(http.MethodGet, "/api/broken")
	do(http.MethodGet, "/api/journal")
	do(http.MethodPost, "/api/admin/fire")
	do(http.MethodPost, "/api/admin/fire")
	do(http.MethodGet, "/wp-login.php")
	do(http.MethodGet, "/.env")

	t.Run("duration per route", func(t *testing.T) {
		// snapshot, broken, journal, admin/fire и одна серия на все несовпавшие пути
		assert.Equal(t, 5, testutil.CollectAndCount(pm.reqDuration))
	})

	t.Run("error classes", func(t *testing.T) {
		assert.Equal(t, 1.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("/api/broken", "5xx")))
		assert.Equal(t, 1.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues("/api/journal", "4xx")))
		assert.Equal(t, 2.0, testutil.ToFloat64(pm.reqErrors.WithLabelValues(unmatchedRoute, "4xx")))
	})

	t.Run("auth and admin commands", func(t *testing.T) {
		assert.Equal(t, 1.0, testutil.ToFloat64(pm.authRejected.WithLabelValues("/api/journal", "401")))
		assert.Equal(t, 2.0, testutil.ToFloat64(pm.adminCmds.WithLabelValues("fire")))
	})

	assert.Equal(t, 0.0, testutil.ToFloat64(pm.reqInflight), "inflight сбрасывается после ответа")
}

func TestRequestLogger_TraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRequestLogger().Handler())

	var captured string
	r.GET("/health", func(c *gin.Context) {
		captured = c.GetString("trace_id")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, captured)
	assert.Equal(t, captured, w.Header().Get("X-Request-ID"))
}
