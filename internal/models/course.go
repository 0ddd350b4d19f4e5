package models

import "time"

// ClassType describes the format of a scheduled class.
type ClassType string

const (
	ClassLecture  ClassType = "Lecture"
	ClassLab      ClassType = "Lab"
	ClassTutorial ClassType = "Tutorial"
	ClassSeminar  ClassType = "Seminar"
)

// ClassSchedule is one weekly slot. DayOfWeek runs 1=Sunday to 7=Saturday.
type ClassSchedule struct {
	ID        string    `json:"id" yaml:"id"`
	DayOfWeek int       `json:"day_of_week" yaml:"day_of_week"`
	StartTime time.Time `json:"start_time" yaml:"-"`
	EndTime   time.Time `json:"end_time" yaml:"-"`
	Room      string    `json:"room" yaml:"room"`
	Type      ClassType `json:"type" yaml:"type"`
}

// Course is a subject the student is enrolled in. Read-only here.
type Course struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	LecturerID       string          `json:"lecturer_id"`
	LecturerName     string          `json:"lecturer_name"`
	Schedule         []ClassSchedule `json:"schedule"`
	Room             string          `json:"room"`
	ColorHex         string          `json:"color_hex"`
	Icon             string          `json:"icon"`
	Semester         string          `json:"semester"`
	Credits          int             `json:"credits"`
	EnrolledStudents []string        `json:"enrolled_students"`
}

// Clone returns a deep copy.
func (c Course) Clone() Course {
	out := c
	out.Schedule = append([]ClassSchedule(nil), c.Schedule...)
	out.EnrolledStudents = cloneStrings(c.EnrolledStudents)
	return out
}
