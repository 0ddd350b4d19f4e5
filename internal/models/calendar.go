package models

import "time"

// CalendarEventType classifies calendar entries.
type CalendarEventType string

const (
	EventLecture    CalendarEventType = "Lecture"
	EventLab        CalendarEventType = "Lab"
	EventAssignment CalendarEventType = "Assignment"
	EventExam       CalendarEventType = "Exam"
	EventMeeting    CalendarEventType = "Meeting"
	EventClub       CalendarEventType = "Club Event"
	EventPersonal   CalendarEventType = "Personal"
	EventHoliday    CalendarEventType = "Holiday"
)

// CalendarEvent is a single dated entry. There is no recurrence.
type CalendarEvent struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Date         time.Time         `json:"date"`
	StartTime    time.Time         `json:"start_time"`
	EndTime      time.Time         `json:"end_time"`
	Location     string            `json:"location"`
	Type         CalendarEventType `json:"type"`
	ColorHex     string            `json:"color_hex"`
	CourseID     *string           `json:"course_id,omitempty"`
	ClubID       *string           `json:"club_id,omitempty"`
	AssignmentID *string           `json:"assignment_id,omitempty"`
	IsAllDay     bool              `json:"is_all_day"`
	Reminder     *time.Time        `json:"reminder,omitempty"`
}

// CalendarRange bounds a calendar query. Zero bounds are open.
type CalendarRange struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t falls in [From, To).
func (r CalendarRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// Clone returns a deep copy.
func (e CalendarEvent) Clone() CalendarEvent {
	out := e
	out.CourseID = cloneStringPtr(e.CourseID)
	out.ClubID = cloneStringPtr(e.ClubID)
	out.AssignmentID = cloneStringPtr(e.AssignmentID)
	if e.Reminder != nil {
		r := *e.Reminder
		out.Reminder = &r
	}
	return out
}

func cloneStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
