package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/service"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/export"
	"github.com/noah-isme/spark-api/pkg/response"
)

type calendarService interface {
	ListCalendarEvents(ctx context.Context, rng models.CalendarRange) []models.CalendarEvent
	Location() *time.Location
}

type calendarExporter interface {
	Calendar(ctx context.Context, rng models.CalendarRange, format export.Format) (*service.ExportFile, error)
}

// CalendarHandler exposes the calendar.
type CalendarHandler struct {
	service  calendarService
	exporter calendarExporter
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc calendarService, exporter calendarExporter) *CalendarHandler {
	return &CalendarHandler{service: svc, exporter: exporter}
}

// List godoc
// @Summary List calendar events
// @Description Ordered by start time. Both bounds are optional dates; to is inclusive.
// @Tags Calendar
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /calendar [get]
func (h *CalendarHandler) List(c *gin.Context) {
	rng, ok := calendarRange(c, h.service.Location())
	if !ok {
		return
	}
	events := h.service.ListCalendarEvents(c.Request.Context(), rng)
	response.JSON(c, http.StatusOK, events, map[string]interface{}{"total": len(events)})
}

// Export godoc
// @Summary Export calendar events
// @Tags Calendar
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /calendar/export [get]
func (h *CalendarHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	rng, ok := calendarRange(c, h.service.Location())
	if !ok {
		return
	}
	file, err := h.exporter.Calendar(c.Request.Context(), rng, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
