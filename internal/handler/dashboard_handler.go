package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/middleware"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

type dashboardService interface {
	Home(ctx context.Context) (*dto.HomeDashboardResponse, bool, error)
}

// DashboardHandler wires the dashboard service to HTTP.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Home godoc
// @Summary Home dashboard
// @Description Stats, headlines, open assignments, upcoming events and the week glance
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Home(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	start := time.Now()
	summary, cacheHit, err := h.service.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	middleware.SetRevision(c, summary.Revision)
	meta := middleware.ExtractMeta(c)
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, meta)
}
