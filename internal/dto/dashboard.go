package dto

import (
	"time"

	"github.com/noah-isme/spark-api/internal/models"
)

// HomeDashboardResponse is the payload behind the home screen.
type HomeDashboardResponse struct {
	User            DashboardUser          `json:"user"`
	Stats           models.TodayStats      `json:"stats"`
	Headlines       []AnnouncementView     `json:"headlines"`
	OpenAssignments []AssignmentView       `json:"open_assignments"`
	UpcomingEvents  []models.CalendarEvent `json:"upcoming_events"`
	Week            []WeekDay              `json:"week"`
	Revision        uint64                 `json:"revision"`
	GeneratedAt     time.Time              `json:"generated_at"`
}

// DashboardUser is the greeting card on the dashboard.
type DashboardUser struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Initials      string `json:"initials"`
	Points        int    `json:"points"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
}

// WeekDay counts events on one day of the week glance.
type WeekDay struct {
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	EventCount int    `json:"event_count"`
	HasExam    bool   `json:"has_exam"`
}
