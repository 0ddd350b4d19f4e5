package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spark-api/internal/dto"
)

type fakeDashboardSrv struct {
	resp *dto.HomeDashboardResponse
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Home(context.Context) (*dto.HomeDashboardResponse, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerHomeCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.HomeDashboardResponse{User: dto.DashboardUser{Name: "John Skibidi"}, Revision: 4},
		hit:  true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Home(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, float64(4), envelope.Meta["revision"])
	assert.Contains(t, envelope.Meta, "processing_time_ms")
	assert.Equal(t, "John Skibidi", envelope.Data["user"].(map[string]interface{})["name"])
}

func TestDashboardHandlerHomeError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: errors.New("boom")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Home(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
