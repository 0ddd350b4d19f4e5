package dto

import (
	"time"

	"github.com/noah-isme/spark-api/internal/models"
)

// AnnouncementView adds the derived fields a client renders.
type AnnouncementView struct {
	models.Announcement
	IsUpdated        bool `json:"is_updated"`
	ViewCount        int  `json:"view_count"`
	AcknowledgeCount int  `json:"acknowledge_count"`
	IsRead           bool `json:"is_read"`
	IsAcknowledged   bool `json:"is_acknowledged"`
}

// NewAnnouncementView derives the view for userID.
func NewAnnouncementView(a models.Announcement, userID string) AnnouncementView {
	return AnnouncementView{
		Announcement:     a,
		IsUpdated:        a.IsUpdated(),
		ViewCount:        a.ViewCount(),
		AcknowledgeCount: a.AcknowledgeCount(),
		IsRead:           a.ViewedBy.Contains(userID),
		IsAcknowledged:   a.AcknowledgedBy.Contains(userID),
	}
}

// NewAnnouncementViews maps a list.
func NewAnnouncementViews(items []models.Announcement, userID string) []AnnouncementView {
	out := make([]AnnouncementView, len(items))
	for i, a := range items {
		out[i] = NewAnnouncementView(a, userID)
	}
	return out
}

// AssignmentView adds due-date derivations evaluated at request time.
type AssignmentView struct {
	models.Assignment
	IsOverdue    bool                   `json:"is_overdue"`
	DaysUntilDue int                    `json:"days_until_due"`
	DueCategory  models.DueDateCategory `json:"due_category"`
}

// NewAssignmentView derives the view at now in loc.
func NewAssignmentView(a models.Assignment, now time.Time, loc *time.Location) AssignmentView {
	return AssignmentView{
		Assignment:   a,
		IsOverdue:    a.IsOverdue(now),
		DaysUntilDue: a.DaysUntilDue(now, loc),
		DueCategory:  a.DueCategory(now, loc),
	}
}

// NewAssignmentViews maps a list.
func NewAssignmentViews(items []models.Assignment, now time.Time, loc *time.Location) []AssignmentView {
	out := make([]AssignmentView, len(items))
	for i, a := range items {
		out[i] = NewAssignmentView(a, now, loc)
	}
	return out
}

// UserView is the profile with its derived initials.
type UserView struct {
	models.User
	Initials string `json:"initials"`
}

// ClubEventView adds RSVP derivations for the current user.
type ClubEventView struct {
	models.ClubEvent
	RSVPCount int  `json:"rsvp_count"`
	SpotsLeft *int `json:"spots_left,omitempty"`
	Attending bool `json:"attending"`
}

// ClubView nests event views.
type ClubView struct {
	models.Club
	Events []ClubEventView `json:"events"`
}

// NewClubViews maps clubs for userID.
func NewClubViews(clubs []models.Club, userID string) []ClubView {
	out := make([]ClubView, len(clubs))
	for i, c := range clubs {
		events := make([]ClubEventView, len(c.Events))
		for j, ev := range c.Events {
			events[j] = ClubEventView{
				ClubEvent: ev,
				RSVPCount: ev.RSVPCount(),
				SpotsLeft: ev.SpotsLeft(),
				Attending: ev.RSVPList.Contains(userID),
			}
		}
		out[i] = ClubView{Club: c, Events: events}
	}
	return out
}
