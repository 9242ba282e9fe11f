package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paywall-app/internal/domain/access"
)

func TestMetrics_ObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision(access.Grant(access.ReasonPublicPost))
	m.ObserveDecision(access.Deny(access.ReasonNoSubscription))
	m.ObserveDecision(access.Deny(access.ReasonNoSubscription))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("true", "public_post")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("false", "no_subscription")))
}

func TestMetrics_ObserveAuditFailure(t *testing.T) {
	m := New()
	m.ObserveAuditFailure()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.auditFailures))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/posts/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/posts/some-slug", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/posts/:slug", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "paywall_http_requests_total")
}
