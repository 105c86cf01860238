package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestGinMiddlewareLabelsByRouteTemplate(t *testing.T) {
	Register()
	Register()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := counterValue(t, HTTPRequests.WithLabelValues("GET", "/api/events/:id", "204"))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	after := counterValue(t, HTTPRequests.WithLabelValues("GET", "/api/events/:id", "204"))
	assert.Equal(t, 3.0, after-before)
}

func TestUnmatchedRoutesShareOneLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())

	before := counterValue(t, HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	after := counterValue(t, HTTPRequests.WithLabelValues("GET", "unmatched", "404"))

	assert.Equal(t, 1.0, after-before)
}
