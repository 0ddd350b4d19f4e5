package models

import "time"

// BadgeCategory groups achievement badges.
type BadgeCategory string

const (
	BadgeEngagement BadgeCategory = "Engagement"
	BadgeStreak     BadgeCategory = "Streak"
	BadgeAcademic   BadgeCategory = "Academic"
	BadgeSocial     BadgeCategory = "Social"
	BadgeSpecial    BadgeCategory = "Special"
)

// Badge is an achievement shown on the profile.
type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	ColorHex    string        `json:"color_hex"`
	Category    BadgeCategory `json:"category"`
	Requirement string        `json:"requirement"`
	EarnedAt    *time.Time    `json:"earned_at,omitempty"`
	IsEarned    bool          `json:"is_earned"`
}

// RewardCategory groups the rewards catalog.
type RewardCategory string

const (
	RewardUtility     RewardCategory = "Utility"
	RewardFood        RewardCategory = "Food & Drinks"
	RewardMerchandise RewardCategory = "Merchandise"
	RewardEvents      RewardCategory = "Events"
	RewardDigital     RewardCategory = "Digital"
)

// Reward is something points can be spent on.
type Reward struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	PointsCost  int            `json:"points_cost"`
	Category    RewardCategory `json:"category"`
	Icon        string         `json:"icon"`
	ColorHex    string         `json:"color_hex"`
	IsAvailable bool           `json:"is_available"`
	Stock       *int           `json:"stock,omitempty"`
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
}

// Redeemable reports whether the reward can be claimed at now, ignoring points.
func (r Reward) Redeemable(now time.Time) bool {
	if !r.IsAvailable {
		return false
	}
	if r.Stock != nil && *r.Stock <= 0 {
		return false
	}
	if r.ExpiresAt != nil && !now.Before(*r.ExpiresAt) {
		return false
	}
	return true
}

// Clone returns a deep copy.
func (r Reward) Clone() Reward {
	out := r
	if r.Stock != nil {
		s := *r.Stock
		out.Stock = &s
	}
	return out
}
