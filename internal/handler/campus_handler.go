package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/response"
)

type campusService interface {
	CurrentUser(ctx context.Context) models.User
	ListCourses(ctx context.Context) []models.Course
	ListClubs(ctx context.Context) []models.Club
	RSVPToEvent(ctx context.Context, eventID, clubID string) (models.MutationResult, error)
}

// CampusHandler serves courses and clubs.
type CampusHandler struct {
	service campusService
}

// NewCampusHandler constructs a campus handler.
func NewCampusHandler(svc campusService) *CampusHandler {
	return &CampusHandler{service: svc}
}

// Courses godoc
// @Summary List enrolled courses
// @Tags Campus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CampusHandler) Courses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.ListCourses(c.Request.Context()))
}

// Clubs godoc
// @Summary List clubs with their events
// @Tags Campus
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /clubs [get]
func (h *CampusHandler) Clubs(c *gin.Context) {
	ctx := c.Request.Context()
	user := h.service.CurrentUser(ctx)
	response.JSON(c, http.StatusOK, dto.NewClubViews(h.service.ListClubs(ctx), user.ID))
}

// RSVP godoc
// @Summary RSVP to a club event
// @Description Awards 15 points the first time only
// @Tags Campus
// @Produce json
// @Param clubId path string true "Club ID"
// @Param eventId path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /clubs/{clubId}/events/{eventId}/rsvp [post]
func (h *CampusHandler) RSVP(c *gin.Context) {
	clubID, ok := pathParam(c, "clubId")
	if !ok {
		return
	}
	eventID, ok := pathParam(c, "eventId")
	if !ok {
		return
	}
	result, err := h.service.RSVPToEvent(c.Request.Context(), eventID, clubID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, mutationMeta(c, result))
}
