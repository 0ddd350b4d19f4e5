package models

import (
	"time"

	"github.com/noah-isme/spark-api/pkg/timeutil"
)

// AssignmentStatus is the coursework workflow state.
type AssignmentStatus string

const (
	StatusPending    AssignmentStatus = "Pending"
	StatusInProgress AssignmentStatus = "In Progress"
	StatusSubmitted  AssignmentStatus = "Submitted"
	StatusGraded     AssignmentStatus = "Graded"
	StatusLate       AssignmentStatus = "Late"
)

// Valid reports whether s is a known status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusSubmitted, StatusGraded, StatusLate:
		return true
	}
	return false
}

// IsCompleted is true for submitted or graded work.
func (s AssignmentStatus) IsCompleted() bool {
	return s == StatusSubmitted || s == StatusGraded
}

// IsOpen is true for work the student still has to start or finish.
func (s AssignmentStatus) IsOpen() bool {
	return s == StatusPending || s == StatusInProgress
}

// AssignmentPriority is the urgency a lecturer attaches to coursework.
type AssignmentPriority string

const (
	AssignmentPriorityLow    AssignmentPriority = "Low"
	AssignmentPriorityMedium AssignmentPriority = "Medium"
	AssignmentPriorityHigh   AssignmentPriority = "High"
	AssignmentPriorityUrgent AssignmentPriority = "Urgent"
)

// DueDateCategory buckets assignments by calendar days left.
type DueDateCategory string

const (
	DueOverdue  DueDateCategory = "Overdue"
	DueToday    DueDateCategory = "Today"
	DueSoon     DueDateCategory = "Due Soon"
	DueThisWeek DueDateCategory = "This Week"
	DueNextWeek DueDateCategory = "Next Week"
	DueLater    DueDateCategory = "Later"
)

// Assignment is a piece of coursework with a deadline.
type Assignment struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	CourseID     string             `json:"course_id"`
	CourseName   string             `json:"course_name"`
	CourseCode   string             `json:"course_code"`
	LecturerName string             `json:"lecturer_name"`
	DueDate      time.Time          `json:"due_date"`
	Status       AssignmentStatus   `json:"status"`
	Priority     AssignmentPriority `json:"priority"`
	Attachments  []Attachment       `json:"attachments"`
	SubmittedAt  *time.Time         `json:"submitted_at,omitempty"`
	Grade        *float64           `json:"grade,omitempty"`
	MaxGrade     float64            `json:"max_grade"`
	Feedback     *string            `json:"feedback,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// IsOverdue is true when the deadline has passed and the work is not handed in.
func (a Assignment) IsOverdue(now time.Time) bool {
	return a.DueDate.Before(now) && !a.Status.IsCompleted()
}

// DaysUntilDue counts calendar days from today to the due day in loc.
func (a Assignment) DaysUntilDue(now time.Time, loc *time.Location) int {
	return timeutil.DaysBetween(now, a.DueDate, loc)
}

// DueCategory buckets the assignment by DaysUntilDue.
func (a Assignment) DueCategory(now time.Time, loc *time.Location) DueDateCategory {
	days := a.DaysUntilDue(now, loc)
	switch {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case days <= 2:
		return DueSoon
	case days <= 7:
		return DueThisWeek
	case days <= 14:
		return DueNextWeek
	default:
		return DueLater
	}
}

// Clone returns a deep copy.
func (a Assignment) Clone() Assignment {
	out := a
	out.Attachments = append([]Attachment(nil), a.Attachments...)
	if a.SubmittedAt != nil {
		t := *a.SubmittedAt
		out.SubmittedAt = &t
	}
	if a.Grade != nil {
		g := *a.Grade
		out.Grade = &g
	}
	if a.Feedback != nil {
		f := *a.Feedback
		out.Feedback = &f
	}
	return out
}

// AssignmentFilterKind mirrors the tabs of the assignments screen.
type AssignmentFilterKind string

const (
	FilterAll       AssignmentFilterKind = "all"
	FilterPending   AssignmentFilterKind = "pending"
	FilterDueSoon   AssignmentFilterKind = "due_soon"
	FilterOverdue   AssignmentFilterKind = "overdue"
	FilterCompleted AssignmentFilterKind = "completed"
)

// Valid reports whether k is a known filter. Empty means all.
func (k AssignmentFilterKind) Valid() bool {
	switch k {
	case "", FilterAll, FilterPending, FilterDueSoon, FilterOverdue, FilterCompleted:
		return true
	}
	return false
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	Kind          AssignmentFilterKind
	CourseID      string
	HideCompleted bool
}

// AssignmentSummary counts assignments per screen tab.
type AssignmentSummary struct {
	Pending   int `json:"pending"`
	DueSoon   int `json:"due_soon"`
	Overdue   int `json:"overdue"`
	Completed int `json:"completed"`
}
