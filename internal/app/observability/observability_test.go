package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNormalizedPath(t *testing.T) {
	assert.Equal(t, "/api/v1/tests/{id}/score", normalizedPath("/api/v1/tests/123/score"))
	assert.Equal(t, "/static/{id}.jpg", normalizedPath("/static/45.jpg"))
	assert.Equal(t, "/", normalizedPath(""))
}

func TestExtractTestNumber(t *testing.T) {
	assert.Equal(t, 456, extractTestNumber("/api/v1/tests/456/score"))
	assert.Equal(t, 0, extractTestNumber("/api/v1/report"))
}

func TestMiddlewareLogsAndCounts(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := NewCollector(zap.New(core))

	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/tests/3", nil))
	c.RecordScore("scored")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0].ContextMap()
	assert.Equal(t, "/api/v1/tests/{id}", entry["path"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, 3, entry["test"])

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rr.Body.String()
	assert.Contains(t, body, `medicquiz_http_requests_total{method="GET",path="/api/v1/tests/{id}",status="418"} 1`)
	assert.Contains(t, body, `medicquiz_score_requests_total{outcome="scored"} 1`)
}
