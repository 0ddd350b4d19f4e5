package dto

import "github.com/noah-isme/spark-api/internal/models"

// UpdateAssignmentStatusRequest changes an assignment's workflow state.
type UpdateAssignmentStatusRequest struct {
	Status string `json:"status" validate:"required,assignment_status"`
}

// AddPointsRequest adjusts the balance by a signed amount.
type AddPointsRequest struct {
	Amount int    `json:"amount" validate:"required,min=-10000,max=10000"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// EditAnnouncementRequest edits an announcement. At least one field is required.
type EditAnnouncementRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content   *string `json:"content" validate:"omitempty,max=5000"`
	Priority  *string `json:"priority" validate:"omitempty,oneof=Urgent High Normal Low"`
	IsPinned  *bool   `json:"is_pinned"`
	Changes   string  `json:"changes" validate:"max=500"`
	ChangedBy string  `json:"changed_by" validate:"max=100"`
}

// ToInput converts the request into the store input.
func (r EditAnnouncementRequest) ToInput() models.EditAnnouncementInput {
	in := models.EditAnnouncementInput{
		Title:     r.Title,
		Content:   r.Content,
		IsPinned:  r.IsPinned,
		Changes:   r.Changes,
		ChangedBy: r.ChangedBy,
	}
	if r.Priority != nil {
		p := models.AnnouncementPriority(*r.Priority)
		in.Priority = &p
	}
	return in
}

// NotificationPreferencesRequest replaces every toggle. Missing toggles are false.
type NotificationPreferencesRequest struct {
	PushEnabled         bool `json:"push_enabled"`
	EmailEnabled        bool `json:"email_enabled"`
	UrgentOnly          bool `json:"urgent_only"`
	AssignmentReminders bool `json:"assignment_reminders"`
	ExamReminders       bool `json:"exam_reminders"`
	ClubUpdates         bool `json:"club_updates"`
	DeadlineAlerts      bool `json:"deadline_alerts"`
	StreakReminders     bool `json:"streak_reminders"`
}

// ToModel converts the request into the stored preference set.
func (r NotificationPreferencesRequest) ToModel() models.NotificationPreferences {
	return models.NotificationPreferences(r)
}

// RedeemResponse reports a reward redemption.
type RedeemResponse struct {
	Redeemed bool                  `json:"redeemed"`
	Result   models.MutationResult `json:"result"`
	Reason   string                `json:"reason,omitempty"`
}
