package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/models"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/response"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 200
)

type rewardsService interface {
	ListBadges(ctx context.Context) []models.Badge
	ListRewards(ctx context.Context) []models.Reward
	AddPoints(ctx context.Context, amount int, reason string) (models.MutationResult, error)
	IncrementStreak(ctx context.Context) (models.MutationResult, error)
	BreakStreak(ctx context.Context) (models.MutationResult, error)
	RedeemReward(ctx context.Context, rewardID string) (models.MutationResult, error)
	ResetPoints(ctx context.Context) (models.MutationResult, error)
}

type activityFeed interface {
	Recent(limit int) []models.ActivityEvent
}

// RewardsHandler exposes points, streaks, badges and rewards.
type RewardsHandler struct {
	service  rewardsService
	activity activityFeed
	validate *validator.Validate
}

// NewRewardsHandler constructs a rewards handler. activity may be nil.
func NewRewardsHandler(svc rewardsService, activity activityFeed) *RewardsHandler {
	return &RewardsHandler{service: svc, activity: activity, validate: newValidator()}
}

// Badges godoc
// @Summary List badges
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /badges [get]
func (h *RewardsHandler) Badges(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListBadges(c.Request.Context()))
}

// Rewards godoc
// @Summary List the reward catalog
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rewards [get]
func (h *RewardsHandler) Rewards(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListRewards(c.Request.Context()))
}

// AddPoints godoc
// @Summary Adjust the points balance
// @Tags Rewards
// @Accept json
// @Produce json
// @Param payload body dto.AddPointsRequest true "Adjustment"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /points [post]
func (h *RewardsHandler) AddPoints(c *gin.Context) {
	var req dto.AddPointsRequest
	if !bindJSON(c, h.validate, &req) {
		return
	}
	result, err := h.service.AddPoints(c.Request.Context(), req.Amount, req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// IncrementStreak godoc
// @Summary Extend the daily streak
// @Description Crossing 7 days awards 50 points and 30 days awards 200
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /streak/increment [post]
func (h *RewardsHandler) IncrementStreak(c *gin.Context) {
	result, err := h.service.IncrementStreak(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// BreakStreak godoc
// @Summary Reset the current streak
// @Tags Rewards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /streak/break [post]
func (h *RewardsHandler) BreakStreak(c *gin.Context) {
	result, err := h.service.BreakStreak(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Redeem godoc
// @Summary Redeem a reward
// @Description Responds 409 with redeemed=false when the reward is unavailable or points are short
// @Tags Rewards
// @Produce json
// @Param id path string true "Reward ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rewards/{id}/redeem [post]
func (h *RewardsHandler) Redeem(c *gin.Context) {
	id, ok := pathParam(c, "id")
	if !ok {
		return
	}
	result, err := h.service.RedeemReward(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			response.Error(c, err)
			return
		}
		appErr := appErrors.FromError(err)
		if appErr.Status != http.StatusConflict {
			response.Error(c, err)
			return
		}
		// The rejected result still carries the stats and revision read
		// under the store lock.
		_ = c.Error(appErr)
		response.JSON(c, http.StatusConflict, dto.RedeemResponse{Redeemed: false, Result: result, Reason: appErr.Code})
		return
	}
	response.JSON(c, http.StatusOK, dto.RedeemResponse{Redeemed: true, Result: result}, mutationMeta(c, result))
}

// ResetPoints godoc
// @Summary Reset points to the test balance
// @Description Only routed when debug endpoints are enabled
// @Tags Debug
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /debug/reset-points [post]
func (h *RewardsHandler) ResetPoints(c *gin.Context) {
	result, err := h.service.ResetPoints(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}

// Activity godoc
// @Summary Recent points activity
// @Description Newest first, process-local
// @Tags Rewards
// @Produce json
// @Param limit query int false "Max events" default(20)
// @Success 200 {object} response.Envelope
// @Router /activity [get]
func (h *RewardsHandler) Activity(c *gin.Context) {
	if h.activity == nil {
		response.JSON(c, http.StatusOK, []models.ActivityEvent{})
		return
	}
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	events := h.activity.Recent(limit)
	response.JSON(c, http.StatusOK, events, map[string]interface{}{"total": len(events)})
}
