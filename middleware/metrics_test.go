package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"blogcms/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Metrics())
	router.GET("/api/Post/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	})
	router.GET("/metrics", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	t.Run("labels requests by route template", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/api/Post/:id", "404")
		before := testutil.ToFloat64(counter)
		inFlight := testutil.ToFloat64(metrics.HTTPRequestsInFlight)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/Post/42", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, before+1, testutil.ToFloat64(counter))
		assert.Equal(t, inFlight, testutil.ToFloat64(metrics.HTTPRequestsInFlight))
	})

	t.Run("groups unmatched paths", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
		before := testutil.ToFloat64(counter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))

		assert.Equal(t, before+1, testutil.ToFloat64(counter))
	})

	t.Run("skips the scrape endpoint", func(t *testing.T) {
		counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")
		before := testutil.ToFloat64(counter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, before, testutil.ToFloat64(counter))
	})
}
