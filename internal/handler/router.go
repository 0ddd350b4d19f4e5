package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spark-api/internal/middleware"
)

// Router groups every handler mounted under the API prefix.
type Router struct {
	User          *UserHandler
	Announcements *AnnouncementHandler
	Assignments   *AssignmentHandler
	Calendar      *CalendarHandler
	Campus        *CampusHandler
	Rewards       *RewardsHandler
	Dashboard     *DashboardHandler
	DebugEnabled  bool
}

// Register mounts the routes on group.
func (r Router) Register(group gin.IRouter) {
	group.GET("/me", r.User.Me)
	group.PUT("/me/notification-preferences", r.User.UpdatePreferences)
	group.GET("/stats", r.User.Stats)
	group.GET("/state", r.User.Snapshot)

	group.GET("/dashboard", r.Dashboard.Home)

	announcements := group.Group("/announcements")
	announcements.GET("", r.Announcements.List)
	announcements.GET("/:id", r.Announcements.Get)
	announcements.PUT("/:id", r.Announcements.Edit)
	announcements.POST("/:id/read", r.Announcements.MarkRead)
	announcements.POST("/:id/acknowledge", r.Announcements.Acknowledge)

	assignments := group.Group("/assignments")
	assignments.GET("", r.Assignments.List)
	assignments.GET("/export", r.Assignments.Export)
	assignments.GET("/:id", r.Assignments.Get)
	assignments.PATCH("/:id/status", r.Assignments.UpdateStatus)

	group.GET("/calendar", r.Calendar.List)
	group.GET("/calendar/export", r.Calendar.Export)

	group.GET("/courses", r.Campus.Courses)
	group.GET("/clubs", r.Campus.Clubs)
	group.POST("/clubs/:clubId/events/:eventId/rsvp", r.Campus.RSVP)

	group.GET("/badges", r.Rewards.Badges)
	group.GET("/rewards", r.Rewards.Rewards)
	group.POST("/rewards/:id/redeem", r.Rewards.Redeem)
	group.POST("/points", r.Rewards.AddPoints)
	group.POST("/streak/increment", r.Rewards.IncrementStreak)
	group.POST("/streak/break", r.Rewards.BreakStreak)
	group.GET("/activity", r.Rewards.Activity)

	group.POST("/debug/reset-points", middleware.DebugOnly(r.DebugEnabled), r.Rewards.ResetPoints)
}
