package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("http_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
	router.GET("/v1/transactions/:token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"token": c.Param("token")})
	})
	router.POST("/v1/cards/capture", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no_data"})
	})

	for _, path := range []string{"/v1/transactions/aaa", "/v1/transactions/bbb", "/missing"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/cards/capture", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	output := scrape(t, provider)

	assertMetricLine(t, output, `http_test_http_requests_total`,
		`method="GET".*path="/v1/transactions/:token".*status_code="200"`, `2`)
	assertMetricLine(t, output, `http_test_http_requests_total`,
		`method="GET".*path="unmatched".*status_code="404"`, `1`)
	assertMetricLine(t, output, `http_test_http_requests_total`,
		`method="POST".*path="/v1/cards/capture".*status_code="400"`, `1`)
	assert.NotContains(t, output, "aaa")
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "RoutePattern", input: "/v1/transactions/:token", expected: "/v1/transactions/:token"},
		{name: "EmptyPath", input: "", expected: "unmatched"},
		{name: "RootPath", input: "/", expected: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, routeLabel(tt.input))
		})
	}
}
