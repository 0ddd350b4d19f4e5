package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/middleware"
	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/response"
)

type userService interface {
	CurrentUser(ctx context.Context) models.User
	RefreshStats(ctx context.Context) (models.TodayStats, error)
	Snapshot(ctx context.Context) models.Snapshot
	UpdateNotificationPreferences(ctx context.Context, prefs models.NotificationPreferences) (models.MutationResult, error)
	Revision() uint64
}

// UserHandler serves the profile, stats and the full state snapshot.
type UserHandler struct {
	service  userService
	validate *validator.Validate
}

// NewUserHandler constructs a user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc, validate: newValidator()}
}

// Me godoc
// @Summary Current user profile
// @Tags User
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user := h.service.CurrentUser(c.Request.Context())
	middleware.SetRevision(c, h.service.Revision())
	response.JSON(c, http.StatusOK, dto.UserView{User: user, Initials: user.Initials()}, middleware.ExtractMeta(c))
}

// UpdatePreferences godoc
// @Summary Replace notification preferences
// @Tags User
// @Accept json
// @Produce json
// @Param payload body dto.NotificationPreferencesRequest true "Preferences"
// @Success 200 {object} response.Envelope
// @Router /me/notification-preferences [put]
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	var req dto.NotificationPreferencesRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	result, err := h.service.UpdateNotificationPreferences(c.Request.Context(), req.ToModel())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Stats godoc
// @Summary Today's derived stats
// @Tags User
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats [get]
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.service.RefreshStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetRevision(c, h.service.Revision())
	response.JSON(c, http.StatusOK, stats, middleware.ExtractMeta(c))
}

// Snapshot godoc
// @Summary Full application state
// @Tags User
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /state [get]
func (h *UserHandler) Snapshot(c *gin.Context) {
	snap := h.service.Snapshot(c.Request.Context())
	middleware.SetRevision(c, snap.Revision)
	response.JSON(c, http.StatusOK, snap, middleware.ExtractMeta(c))
}
