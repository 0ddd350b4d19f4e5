package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/models"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

type announcementService interface {
	CurrentUser(ctx context.Context) models.User
	ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) []models.Announcement
	GetAnnouncement(ctx context.Context, id string) (models.Announcement, error)
	MarkAnnouncementAsRead(ctx context.Context, id string) (models.MutationResult, error)
	AcknowledgeAnnouncement(ctx context.Context, id string) (models.MutationResult, error)
	EditAnnouncement(ctx context.Context, id string, input models.EditAnnouncementInput) (models.MutationResult, error)
}

// AnnouncementHandler exposes the announcement feed.
type AnnouncementHandler struct {
	service  announcementService
	validate *validator.Validate
}

// NewAnnouncementHandler constructs an announcement handler.
func NewAnnouncementHandler(svc announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: svc, validate: newValidator()}
}

// List godoc
// @Summary List announcements
// @Description Pinned first, then by priority, newest first
// @Tags Announcements
// @Produce json
// @Param category query string false "Category"
// @Param priority query string false "Priority"
// @Param unread query bool false "Only unread"
// @Param pinned query bool false "Only pinned"
// @Param q query string false "Search title and content"
// @Success 200 {object} response.Envelope
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *gin.Context) {
	filter := models.AnnouncementFilter{
		Category: models.AnnouncementCategory(strings.TrimSpace(c.Query("category"))),
		Priority: models.AnnouncementPriority(strings.TrimSpace(c.Query("priority"))),
		Search:   strings.TrimSpace(c.Query("q")),
	}
	if raw := c.Query("unread"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unread must be a boolean"))
			return
		}
		filter.UnreadOnly = val
	}
	if raw := c.Query("pinned"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pinned must be a boolean"))
			return
		}
		filter.PinnedOnly = val
	}

	ctx := c.Request.Context()
	user := h.service.CurrentUser(ctx)
	items := h.service.ListAnnouncements(ctx, filter)
	response.JSON(c, http.StatusOK, dto.NewAnnouncementViews(items, user.ID), map[string]interface{}{"total": len(items)})
}

// Get godoc
// @Summary Get an announcement
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) Get(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	item, err := h.service.GetAnnouncement(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewAnnouncementView(item, h.service.CurrentUser(ctx).ID))
}

// MarkRead godoc
// @Summary Mark an announcement as read
// @Description Awards 5 points the first time only
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/read [post]
func (h *AnnouncementHandler) MarkRead(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.MarkAnnouncementAsRead(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Acknowledge godoc
// @Summary Acknowledge an announcement
// @Description Awards 10 points the first time only
// @Tags Announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id}/acknowledge [post]
func (h *AnnouncementHandler) Acknowledge(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.AcknowledgeAnnouncement(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Edit godoc
// @Summary Edit an announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param payload body dto.EditAnnouncementRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Edit(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	var req dto.EditAnnouncementRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	if req.Title == nil && req.Content == nil && req.Priority == nil && req.IsPinned == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "at least one field must change"))
		return
	}
	result, err := h.service.EditAnnouncement(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}
