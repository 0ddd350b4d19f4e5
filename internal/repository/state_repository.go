package repository

import (
	"sort"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/seed"
)

// StateRepository holds every collection in memory. It is not safe for
// concurrent use; callers serialise access.
type StateRepository struct {
	user          models.User
	announcements []models.Announcement
	assignments   []models.Assignment
	courses       []models.Course
	clubs         []models.Club
	events        []models.CalendarEvent
	rewards       []models.Reward
}

// NewStateRepository copies the seed so later edits to it cannot leak in.
func NewStateRepository(initial seed.State) *StateRepository {
	r := &StateRepository{
		user:          initial.User.Clone(),
		announcements: make([]models.Announcement, len(initial.Announcements)),
		assignments:   make([]models.Assignment, len(initial.Assignments)),
		courses:       make([]models.Course, len(initial.Courses)),
		clubs:         make([]models.Club, len(initial.Clubs)),
		events:        make([]models.CalendarEvent, len(initial.Events)),
		rewards:       make([]models.Reward, len(initial.Rewards)),
	}
	for i, a := range initial.Announcements {
		r.announcements[i] = a.Clone()
	}
	for i, a := range initial.Assignments {
		r.assignments[i] = a.Clone()
	}
	for i, c := range initial.Courses {
		r.courses[i] = c.Clone()
	}
	for i, c := range initial.Clubs {
		r.clubs[i] = c.Clone()
	}
	for i, rw := range initial.Rewards {
		r.rewards[i] = rw.Clone()
	}
	for i, ev := range initial.Events {
		r.events[i] = ev.Clone()
	}
	sort.SliceStable(r.events, func(i, j int) bool {
		return r.events[i].StartTime.Before(r.events[j].StartTime)
	})
	return r
}

// User returns the live user record for in-place mutation.
func (r *StateRepository) User() *models.User { return &r.user }

// Announcement returns the live announcement with id.
func (r *StateRepository) Announcement(id string) (*models.Announcement, bool) {
	for i := range r.announcements {
		if r.announcements[i].ID == id {
			return &r.announcements[i], true
		}
	}
	return nil, false
}

// Assignment returns the live assignment with id.
func (r *StateRepository) Assignment(id string) (*models.Assignment, bool) {
	for i := range r.assignments {
		if r.assignments[i].ID == id {
			return &r.assignments[i], true
		}
	}
	return nil, false
}

// ClubEvent finds an event inside the given club.
func (r *StateRepository) ClubEvent(clubID, eventID string) (*models.ClubEvent, bool) {
	for i := range r.clubs {
		if r.clubs[i].ID != clubID {
			continue
		}
		for j := range r.clubs[i].Events {
			if r.clubs[i].Events[j].ID == eventID {
				return &r.clubs[i].Events[j], true
			}
		}
		return nil, false
	}
	return nil, false
}

// Reward returns the live reward with id.
func (r *StateRepository) Reward(id string) (*models.Reward, bool) {
	for i := range r.rewards {
		if r.rewards[i].ID == id {
			return &r.rewards[i], true
		}
	}
	return nil, false
}

// The accessors below return the backing slices. Callers must not retain
// them past the lock that guards the repository.

func (r *StateRepository) Announcements() []models.Announcement { return r.announcements }
func (r *StateRepository) Assignments() []models.Assignment     { return r.assignments }
func (r *StateRepository) Courses() []models.Course             { return r.courses }
func (r *StateRepository) Clubs() []models.Club                 { return r.clubs }
func (r *StateRepository) Events() []models.CalendarEvent       { return r.events }
func (r *StateRepository) Rewards() []models.Reward             { return r.rewards }

// Snapshot deep-copies every collection.
func (r *StateRepository) Snapshot() models.Snapshot {
	snap := models.Snapshot{
		User:          r.user.Clone(),
		Announcements: make([]models.Announcement, len(r.announcements)),
		Assignments:   make([]models.Assignment, len(r.assignments)),
		Courses:       make([]models.Course, len(r.courses)),
		Clubs:         make([]models.Club, len(r.clubs)),
		Events:        make([]models.CalendarEvent, len(r.events)),
		Badges:        append([]models.Badge{}, r.user.Badges...),
		Rewards:       make([]models.Reward, len(r.rewards)),
	}
	for i, a := range r.announcements {
		snap.Announcements[i] = a.Clone()
	}
	for i, a := range r.assignments {
		snap.Assignments[i] = a.Clone()
	}
	for i, c := range r.courses {
		snap.Courses[i] = c.Clone()
	}
	for i, c := range r.clubs {
		snap.Clubs[i] = c.Clone()
	}
	for i, rw := range r.rewards {
		snap.Rewards[i] = rw.Clone()
	}
	for i, ev := range r.events {
		snap.Events[i] = ev.Clone()
	}
	return snap
}
