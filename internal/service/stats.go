package service

import (
	"time"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/timeutil"
)

// StatsInput is everything ComputeTodayStats reads.
type StatsInput struct {
	UserID        string
	Points        int
	CurrentStreak int
	Announcements []models.Announcement
	Assignments   []models.Assignment
	Events        []models.CalendarEvent
	Now           time.Time
	Location      *time.Location
}

// ComputeTodayStats derives the home-screen counters. It has no side effects.
func ComputeTodayStats(in StatsInput) models.TodayStats {
	stats := models.TodayStats{
		CurrentStreak: in.CurrentStreak,
		Points:        in.Points,
	}
	for _, a := range in.Announcements {
		if !a.ViewedBy.Contains(in.UserID) {
			stats.UnreadAnnouncements++
		}
	}
	for _, a := range in.Assignments {
		if a.Status.IsOpen() {
			stats.PendingAssignments++
		}
	}
	for _, ev := range in.Events {
		if ev.Type == models.EventExam && ev.Date.After(in.Now) {
			stats.UpcomingExams++
		}
		if timeutil.SameDay(ev.Date, in.Now, in.Location) {
			stats.TodayEvents++
		}
	}
	return stats
}
