// Package seed builds the initial state injected into the store.
package seed

import "github.com/noah-isme/spark-api/internal/models"

// State is a complete initial state. Badges live on the user.
type State struct {
	User          models.User
	Announcements []models.Announcement
	Assignments   []models.Assignment
	Courses       []models.Course
	Clubs         []models.Club
	Events        []models.CalendarEvent
	Rewards       []models.Reward
}
