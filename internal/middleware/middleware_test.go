package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spark-api/internal/service"
	"github.com/noah-isme/spark-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDebugOnly(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.POST("/debug/reset-points", DebugOnly(enabled), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/debug/reset-points", nil))

		if enabled {
			assert.Equal(t, http.StatusOK, rec.Code)
			continue
		}
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "FEATURE_DISABLED")
	}
}

func TestResponseMeta(t *testing.T) {
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/dashboard", func(c *gin.Context) {
		SetCacheHit(c, true)
		SetRevision(c, 7)
		response.OK(c, gin.H{"ok": true}, ExtractMeta(c))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body.Meta["cache_hit"])
	assert.Equal(t, float64(7), body.Meta["revision"])
}

func TestExtractMetaWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
	SetCacheHit(c, false)
	assert.Equal(t, false, ExtractMeta(c)["cache_hit"])
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/announcements/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/announcements/a1", "/announcements/a2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	raw, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	text := string(raw)

	assert.True(t, strings.Contains(text, `path="/announcements/:id"`))
	assert.True(t, strings.Contains(text, `path="unmatched"`))
	assert.False(t, strings.Contains(text, "/announcements/a1"))
}
