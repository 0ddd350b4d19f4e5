package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/service"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/export"
	"github.com/noah-isme/spark-api/pkg/response"
)

type assignmentService interface {
	ListAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error)
	AssignmentSummary(ctx context.Context) models.AssignmentSummary
	GetAssignment(ctx context.Context, id string) (models.Assignment, error)
	UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (models.MutationResult, error)
	Location() *time.Location
	Now() time.Time
}

type assignmentExporter interface {
	Assignments(ctx context.Context, filter models.AssignmentFilter, format export.Format) (*service.ExportFile, error)
}

// AssignmentHandler exposes assignment tracking.
type AssignmentHandler struct {
	service  assignmentService
	exporter assignmentExporter
	validate *validator.Validate
}

// NewAssignmentHandler constructs an assignment handler.
func NewAssignmentHandler(svc assignmentService, exporter assignmentExporter) *AssignmentHandler {
	return &AssignmentHandler{service: svc, exporter: exporter, validate: newValidator()}
}

// List godoc
// @Summary List assignments
// @Description Sorted by due date; meta carries the summary counters
// @Tags Assignments
// @Produce json
// @Param filter query string false "all, pending, due_soon, overdue or completed"
// @Param courseId query string false "Course ID"
// @Param hideCompleted query bool false "Hide submitted and graded"
// @Success 200 {object} response.Envelope
// @Router /assignments [get]
func (h *AssignmentHandler) List(c *gin.Context) {
	filter, ok := assignmentFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	items, err := h.service.ListAssignments(ctx, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	meta := map[string]interface{}{
		"total":   len(items),
		"summary": h.service.AssignmentSummary(ctx),
	}
	response.JSON(c, http.StatusOK, dto.NewAssignmentViews(items, h.service.Now(), h.service.Location()), meta)
}

// Get godoc
// @Summary Get an assignment
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	item, err := h.service.GetAssignment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAssignmentView(item, h.service.Now(), h.service.Location()))
}

// UpdateStatus godoc
// @Summary Change assignment status
// @Description Submitting before the deadline awards 20 points
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.UpdateAssignmentStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/status [patch]
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAssignmentStatusRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	result, err := h.service.UpdateAssignmentStatus(c.Request.Context(), id, models.AssignmentStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Export godoc
// @Summary Export assignments
// @Tags Assignments
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param filter query string false "all, pending, due_soon, overdue or completed"
// @Success 200 {file} file
// @Router /assignments/export [get]
func (h *AssignmentHandler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	format, err := export.ParseFormat(c.DefaultQuery("format", string(export.FormatCSV)))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	filter, ok := assignmentFilter(c)
	if !ok {
		return
	}
	file, err := h.exporter.Assignments(c.Request.Context(), filter, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func assignmentFilter(c *gin.Context) (models.AssignmentFilter, bool) {
	filter := models.AssignmentFilter{
		Kind:     models.AssignmentFilterKind(strings.TrimSpace(c.Query("filter"))),
		CourseID: strings.TrimSpace(c.Query("courseId")),
	}
	if !filter.Kind.Valid() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown assignment filter"))
		return filter, false
	}
	if raw := c.Query("hideCompleted"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "hideCompleted must be a boolean"))
			return filter, false
		}
		filter.HideCompleted = val
	}
	return filter, true
}
