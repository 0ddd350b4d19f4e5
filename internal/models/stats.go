package models

import "time"

// TodayStats is derived from state and never edited directly.
type TodayStats struct {
	UnreadAnnouncements int `json:"unread_announcements"`
	PendingAssignments  int `json:"pending_assignments"`
	UpcomingExams       int `json:"upcoming_exams"`
	TodayEvents         int `json:"today_events"`
	CurrentStreak       int `json:"current_streak"`
	Points              int `json:"points"`
}

// MutationResult reports the outcome of a store mutation.
type MutationResult struct {
	Applied       bool       `json:"applied"`
	PointsAwarded int        `json:"points_awarded"`
	Stats         TodayStats `json:"stats"`
	Revision      uint64     `json:"revision"`
}

// ActivityKind labels why points changed.
type ActivityKind string

const (
	ActivityRead        ActivityKind = "announcement_read"
	ActivityAcknowledge ActivityKind = "announcement_acknowledged"
	ActivitySubmission  ActivityKind = "assignment_submitted"
	ActivityRSVP        ActivityKind = "event_rsvp"
	ActivityStreakBonus ActivityKind = "streak_bonus"
	ActivityManual      ActivityKind = "manual"
	ActivityRedemption  ActivityKind = "reward_redeemed"
	ActivityReset       ActivityKind = "points_reset"
)

// ActivityEvent is one points change published to the activity notifier.
type ActivityEvent struct {
	Kind   ActivityKind `json:"kind"`
	Reason string       `json:"reason"`
	Amount int          `json:"amount"`
	UserID string       `json:"user_id"`
	At     time.Time    `json:"at"`
}

// Snapshot is a consistent copy of the whole store.
type Snapshot struct {
	Revision      uint64          `json:"revision"`
	User          User            `json:"user"`
	Announcements []Announcement  `json:"announcements"`
	Assignments   []Assignment    `json:"assignments"`
	Courses       []Course        `json:"courses"`
	Clubs         []Club          `json:"clubs"`
	Events        []CalendarEvent `json:"events"`
	Badges        []Badge         `json:"badges"`
	Rewards       []Reward        `json:"rewards"`
	Stats         TodayStats      `json:"stats"`
}
