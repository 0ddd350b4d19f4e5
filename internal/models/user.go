package models

import (
	"strings"
	"time"
	"unicode"
)

// UserRole describes who a user is on campus.
type UserRole string

const (
	RoleStudent       UserRole = "Student"
	RoleLecturer      UserRole = "Lecturer"
	RoleClubCommittee UserRole = "Club Committee"
	RoleAdmin         UserRole = "Admin"
)

// NotificationPreferences are the per-user notification toggles.
type NotificationPreferences struct {
	PushEnabled         bool `json:"push_enabled" yaml:"push_enabled"`
	EmailEnabled        bool `json:"email_enabled" yaml:"email_enabled"`
	UrgentOnly          bool `json:"urgent_only" yaml:"urgent_only"`
	AssignmentReminders bool `json:"assignment_reminders" yaml:"assignment_reminders"`
	ExamReminders       bool `json:"exam_reminders" yaml:"exam_reminders"`
	ClubUpdates         bool `json:"club_updates" yaml:"club_updates"`
	DeadlineAlerts      bool `json:"deadline_alerts" yaml:"deadline_alerts"`
	StreakReminders     bool `json:"streak_reminders" yaml:"streak_reminders"`
}

// DefaultNotificationPreferences enables everything except email and urgent-only.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		PushEnabled:         true,
		AssignmentReminders: true,
		ExamReminders:       true,
		ClubUpdates:         true,
		DeadlineAlerts:      true,
		StreakReminders:     true,
	}
}

// User is the logged-in profile including gamification counters.
type User struct {
	ID                      string                  `json:"id"`
	Name                    string                  `json:"name"`
	Email                   string                  `json:"email"`
	StudentID               *string                 `json:"student_id,omitempty"`
	Role                    UserRole                `json:"role"`
	Program                 string                  `json:"program"`
	Year                    int                     `json:"year"`
	Semester                int                     `json:"semester"`
	Department              string                  `json:"department"`
	Phone                   string                  `json:"phone"`
	Clubs                   []string                `json:"clubs"`
	Credits                 int                     `json:"credits"`
	Attendance              int                     `json:"attendance"`
	Bio                     string                  `json:"bio"`
	ProfileImageURL         *string                 `json:"profile_image_url,omitempty"`
	EnrolledCourses         []string                `json:"enrolled_courses"`
	JoinedClubs             []string                `json:"joined_clubs"`
	Points                  int                     `json:"points"`
	CurrentStreak           int                     `json:"current_streak"`
	LongestStreak           int                     `json:"longest_streak"`
	Badges                  []Badge                 `json:"badges"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
	CreatedAt               time.Time               `json:"created_at"`
	LastActiveAt            time.Time               `json:"last_active_at"`
}

// Initials returns up to two upper-case initials from the name.
func (u User) Initials() string {
	var b strings.Builder
	for i, part := range strings.Fields(u.Name) {
		if i == 2 {
			break
		}
		b.WriteRune(unicode.ToUpper([]rune(part)[0]))
	}
	return b.String()
}

// Clone returns a deep copy.
func (u User) Clone() User {
	out := u
	out.Clubs = cloneStrings(u.Clubs)
	out.EnrolledCourses = cloneStrings(u.EnrolledCourses)
	out.JoinedClubs = cloneStrings(u.JoinedClubs)
	if u.Badges != nil {
		out.Badges = append([]Badge(nil), u.Badges...)
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
