package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/repository"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
	"github.com/noah-isme/spark-api/pkg/timeutil"
)

// Point values for gamified actions.
const (
	PointsAnnouncementRead  = 5
	PointsAnnouncementAck   = 10
	PointsOnTimeSubmission  = 20
	PointsEventRSVP         = 15
	PointsWeekStreakBonus   = 50
	PointsMonthStreakBonus  = 200
	WeekStreakMilestone     = 7
	MonthStreakMilestone    = 30
	DebugResetPointsBalance = 500
)

// ActivityPublisher receives every points change. Implementations must not block.
type ActivityPublisher interface {
	Publish(event models.ActivityEvent)
}

// allowedTransitions is enforced only in strict mode.
var allowedTransitions = map[models.AssignmentStatus][]models.AssignmentStatus{
	models.StatusPending:    {models.StatusInProgress, models.StatusSubmitted, models.StatusLate},
	models.StatusInProgress: {models.StatusSubmitted, models.StatusLate, models.StatusPending},
	models.StatusLate:       {models.StatusSubmitted},
	models.StatusSubmitted:  {models.StatusGraded},
	models.StatusGraded:     {},
}

// StateServiceParams groups constructor dependencies.
type StateServiceParams struct {
	Repo              *repository.StateRepository
	Location          *time.Location
	StrictTransitions bool
	Activity          ActivityPublisher
	Metrics           *MetricsService
	Logger            *zap.Logger
	Now               func() time.Time
}

// StateService is the single owner of application state. All mutations are
// serialised; each applied mutation bumps the revision and every mutation
// recomputes TodayStats before the lock is released.
type StateService struct {
	mu       sync.RWMutex
	repo     *repository.StateRepository
	revision uint64
	stats    models.TodayStats

	loc      *time.Location
	strict   bool
	activity ActivityPublisher
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewStateService wires the store around an already seeded repository.
func NewStateService(params StateServiceParams) *StateService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	s := &StateService{
		repo:     params.Repo,
		loc:      loc,
		strict:   params.StrictTransitions,
		activity: params.Activity,
		metrics:  params.Metrics,
		logger:   logger,
		now:      now,
	}
	s.stats = s.computeLocked(now())
	user := s.repo.User()
	s.metrics.SetUserGauges(user.Points, user.CurrentStreak)
	return s
}

// Location is the calendar location used for day boundaries.
func (s *StateService) Location() *time.Location { return s.loc }

// Revision increases by one with every applied mutation.
func (s *StateService) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

type mutation struct {
	at      time.Time
	applied bool
	awarded int
	events  []models.ActivityEvent
}

func (s *StateService) award(m *mutation, kind models.ActivityKind, reason string, amount int) {
	user := s.repo.User()
	user.Points += amount
	user.LastActiveAt = m.at
	m.awarded += amount
	m.events = append(m.events, models.ActivityEvent{
		Kind:   kind,
		Reason: reason,
		Amount: amount,
		UserID: user.ID,
		At:     m.at,
	})
}

// mutate runs fn under the write lock. fn must return before changing
// anything when it fails.
func (s *StateService) mutate(ctx context.Context, op string, fn func(m *mutation) error) (models.MutationResult, error) {
	if err := ctx.Err(); err != nil {
		return models.MutationResult{}, err
	}

	s.mu.Lock()
	m := &mutation{at: s.now()}
	err := fn(m)
	if err == nil {
		if m.applied {
			s.revision++
		}
		s.stats = s.computeLocked(m.at)
	}
	result := models.MutationResult{
		Applied:       err == nil && m.applied,
		PointsAwarded: m.awarded,
		Stats:         s.stats,
		Revision:      s.revision,
	}
	user := s.repo.User()
	points, streak := user.Points, user.CurrentStreak
	s.mu.Unlock()

	outcome := "noop"
	switch {
	case err != nil:
		outcome = "error"
	case result.Applied:
		outcome = "applied"
	}
	s.metrics.RecordMutation(op, outcome)
	s.metrics.SetUserGauges(points, streak)

	if err == nil && s.activity != nil {
		for _, ev := range m.events {
			s.activity.Publish(ev)
		}
	}
	s.logger.Debug("state mutation",
		zap.String("operation", op),
		zap.String("outcome", outcome),
		zap.Int("points_awarded", result.PointsAwarded),
		zap.Uint64("revision", result.Revision),
	)
	return result, err
}

func (s *StateService) computeLocked(now time.Time) models.TodayStats {
	user := s.repo.User()
	return ComputeTodayStats(StatsInput{
		UserID:        user.ID,
		Points:        user.Points,
		CurrentStreak: user.CurrentStreak,
		Announcements: s.repo.Announcements(),
		Assignments:   s.repo.Assignments(),
		Events:        s.repo.Events(),
		Now:           now,
		Location:      s.loc,
	})
}

func notFound(kind string) error {
	return appErrors.Clone(appErrors.ErrNotFound, kind+" not found")
}

// MarkAnnouncementAsRead records the first view by the current user and awards points once.
func (s *StateService) MarkAnnouncementAsRead(ctx context.Context, id string) (models.MutationResult, error) {
	return s.mutate(ctx, "mark_announcement_read", func(m *mutation) error {
		ann, ok := s.repo.Announcement(id)
		if !ok {
			return notFound("announcement")
		}
		if ann.ViewedBy.Add(s.repo.User().ID) {
			m.applied = true
			s.award(m, models.ActivityRead, "Viewed announcement", PointsAnnouncementRead)
		}
		return nil
	})
}

// AcknowledgeAnnouncement records an acknowledgement independently of the read state.
func (s *StateService) AcknowledgeAnnouncement(ctx context.Context, id string) (models.MutationResult, error) {
	return s.mutate(ctx, "acknowledge_announcement", func(m *mutation) error {
		ann, ok := s.repo.Announcement(id)
		if !ok {
			return notFound("announcement")
		}
		if ann.AcknowledgedBy.Add(s.repo.User().ID) {
			m.applied = true
			s.award(m, models.ActivityAcknowledge, "Acknowledged announcement", PointsAnnouncementAck)
		}
		return nil
	})
}

// EditAnnouncement applies an edit, bumps the version and appends a changelog entry.
func (s *StateService) EditAnnouncement(ctx context.Context, id string, input models.EditAnnouncementInput) (models.MutationResult, error) {
	if input.Title == nil && input.Content == nil && input.Priority == nil && input.IsPinned == nil {
		return models.MutationResult{}, appErrors.Clone(appErrors.ErrValidation, "nothing to update")
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return models.MutationResult{}, appErrors.Clone(appErrors.ErrValidation, "title must not be empty")
	}
	if input.Priority != nil {
		switch *input.Priority {
		case models.PriorityUrgent, models.PriorityHigh, models.PriorityNormal, models.PriorityLow:
		default:
			return models.MutationResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown priority")
		}
	}

	return s.mutate(ctx, "edit_announcement", func(m *mutation) error {
		ann, ok := s.repo.Announcement(id)
		if !ok {
			return notFound("announcement")
		}
		if input.Title != nil {
			ann.Title = strings.TrimSpace(*input.Title)
		}
		if input.Content != nil {
			ann.Content = *input.Content
		}
		if input.Priority != nil {
			ann.Priority = *input.Priority
		}
		if input.IsPinned != nil {
			ann.IsPinned = *input.IsPinned
		}
		changedBy := input.ChangedBy
		if changedBy == "" {
			changedBy = s.repo.User().Name
		}
		changes := input.Changes
		if changes == "" {
			changes = "Updated announcement"
		}
		ann.Version++
		ann.UpdatedAt = m.at
		ann.Changelog = append(ann.Changelog, models.ChangelogEntry{
			ID:        uuid.NewString(),
			Version:   ann.Version,
			Changes:   changes,
			ChangedAt: m.at,
			ChangedBy: changedBy,
		})
		m.applied = true
		return nil
	})
}

// UpdateAssignmentStatus sets the status. Submitting stamps submittedAt and
// awards points when the assignment was not overdue before the change.
func (s *StateService) UpdateAssignmentStatus(ctx context.Context, id string, status models.AssignmentStatus) (models.MutationResult, error) {
	if !status.Valid() {
		return models.MutationResult{}, appErrors.Clone(appErrors.ErrValidation, "unknown assignment status")
	}

	return s.mutate(ctx, "update_assignment_status", func(m *mutation) error {
		asg, ok := s.repo.Assignment(id)
		if !ok {
			return notFound("assignment")
		}
		if s.strict {
			if asg.Status == status {
				return nil
			}
			if !transitionAllowed(asg.Status, status) {
				return appErrors.Clone(appErrors.ErrInvalidTransition,
					"cannot move assignment from "+string(asg.Status)+" to "+string(status))
			}
		}

		wasOverdue := asg.IsOverdue(m.at)
		asg.Status = status
		asg.UpdatedAt = m.at
		m.applied = true
		if status == models.StatusSubmitted {
			submitted := m.at
			asg.SubmittedAt = &submitted
			if !wasOverdue {
				s.award(m, models.ActivitySubmission, "Submitted assignment on time", PointsOnTimeSubmission)
			}
		}
		return nil
	})
}

func transitionAllowed(from, to models.AssignmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AddPoints adjusts the balance by amount. The reason is descriptive only.
// A deduction that would take the balance below zero is rejected.
func (s *StateService) AddPoints(ctx context.Context, amount int, reason string) (models.MutationResult, error) {
	return s.mutate(ctx, "add_points", func(m *mutation) error {
		if s.repo.User().Points+amount < 0 {
			return appErrors.Clone(appErrors.ErrInsufficientPoints, "deduction exceeds current balance")
		}
		m.applied = true
		s.award(m, models.ActivityManual, reason, amount)
		return nil
	})
}

// IncrementStreak extends the streak by a day. Milestone bonuses fire only
// on the exact day the milestone is reached.
func (s *StateService) IncrementStreak(ctx context.Context) (models.MutationResult, error) {
	return s.mutate(ctx, "increment_streak", func(m *mutation) error {
		user := s.repo.User()
		user.CurrentStreak++
		if user.CurrentStreak > user.LongestStreak {
			user.LongestStreak = user.CurrentStreak
		}
		user.LastActiveAt = m.at
		m.applied = true

		switch user.CurrentStreak {
		case WeekStreakMilestone:
			s.award(m, models.ActivityStreakBonus, "7-day streak!", PointsWeekStreakBonus)
		case MonthStreakMilestone:
			s.award(m, models.ActivityStreakBonus, "30-day streak!", PointsMonthStreakBonus)
		}
		return nil
	})
}

// BreakStreak resets the current streak. The longest streak is kept.
func (s *StateService) BreakStreak(ctx context.Context) (models.MutationResult, error) {
	return s.mutate(ctx, "break_streak", func(m *mutation) error {
		user := s.repo.User()
		if user.CurrentStreak == 0 {
			return nil
		}
		user.CurrentStreak = 0
		m.applied = true
		return nil
	})
}

// RedeemReward spends points on a reward. Availability, stock and expiry
// are checked before the balance; a failed redemption changes nothing.
func (s *StateService) RedeemReward(ctx context.Context, rewardID string) (models.MutationResult, error) {
	return s.mutate(ctx, "redeem_reward", func(m *mutation) error {
		reward, ok := s.repo.Reward(rewardID)
		if !ok {
			return notFound("reward")
		}
		if !reward.Redeemable(m.at) {
			return appErrors.Clone(appErrors.ErrRewardUnavailable, reward.Name+" is not available")
		}
		if s.repo.User().Points < reward.PointsCost {
			return appErrors.Clone(appErrors.ErrInsufficientPoints, "not enough points for "+reward.Name)
		}
		if reward.Stock != nil {
			*reward.Stock--
		}
		m.applied = true
		s.award(m, models.ActivityRedemption, "Redeemed "+reward.Name, -reward.PointsCost)
		return nil
	})
}

// RSVPToEvent adds the current user to a club event and awards points once.
func (s *StateService) RSVPToEvent(ctx context.Context, eventID, clubID string) (models.MutationResult, error) {
	return s.mutate(ctx, "rsvp_event", func(m *mutation) error {
		ev, ok := s.repo.ClubEvent(clubID, eventID)
		if !ok {
			return notFound("club event")
		}
		if ev.RSVPList.Add(s.repo.User().ID) {
			m.applied = true
			s.award(m, models.ActivityRSVP, "RSVP'd to event", PointsEventRSVP)
		}
		return nil
	})
}

// ResetPoints sets the balance to a fixed value for manual testing.
func (s *StateService) ResetPoints(ctx context.Context) (models.MutationResult, error) {
	return s.mutate(ctx, "reset_points", func(m *mutation) error {
		user := s.repo.User()
		delta := DebugResetPointsBalance - user.Points
		m.applied = true
		s.award(m, models.ActivityReset, "Points reset", delta)
		return nil
	})
}

// UpdateNotificationPreferences replaces the preference set.
func (s *StateService) UpdateNotificationPreferences(ctx context.Context, prefs models.NotificationPreferences) (models.MutationResult, error) {
	return s.mutate(ctx, "update_notification_preferences", func(m *mutation) error {
		user := s.repo.User()
		if user.NotificationPreferences == prefs {
			return nil
		}
		user.NotificationPreferences = prefs
		m.applied = true
		return nil
	})
}

// RefreshStats recomputes against the current clock so day rollover is
// reflected. It does not bump the revision.
func (s *StateService) RefreshStats(ctx context.Context) (models.TodayStats, error) {
	if err := ctx.Err(); err != nil {
		return models.TodayStats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = s.computeLocked(s.now())
	return s.stats, nil
}

// Stats returns the stats computed by the last mutation or refresh.
func (s *StateService) Stats(ctx context.Context) models.TodayStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// CurrentUser returns a copy of the signed-in user.
func (s *StateService) CurrentUser(ctx context.Context) models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.User().Clone()
}

// Snapshot returns a consistent copy of the entire state. Stats are
// computed against the current clock under the same read lock, so they
// always agree with the copied records and revision.
func (s *StateService) Snapshot(ctx context.Context) models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.repo.Snapshot()
	snap.Revision = s.revision
	snap.Stats = s.computeLocked(s.now())
	return snap
}

// ListAnnouncements returns pinned posts first, then by priority and recency.
func (s *StateService) ListAnnouncements(ctx context.Context, filter models.AnnouncementFilter) []models.Announcement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID := s.repo.User().ID
	out := make([]models.Announcement, 0, len(s.repo.Announcements()))
	for _, a := range s.repo.Announcements() {
		if filter.Category != "" && a.Category != filter.Category {
			continue
		}
		if filter.Priority != "" && a.Priority != filter.Priority {
			continue
		}
		if filter.UnreadOnly && a.ViewedBy.Contains(userID) {
			continue
		}
		if filter.PinnedOnly && !a.IsPinned {
			continue
		}
		if !a.Matches(filter.Search) {
			continue
		}
		out = append(out, a.Clone())
	}
	sortAnnouncements(out)
	return out
}

func sortAnnouncements(items []models.Announcement) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if a.Priority.SortValue() != b.Priority.SortValue() {
			return a.Priority.SortValue() < b.Priority.SortValue()
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

// GetAnnouncement returns one announcement by id.
func (s *StateService) GetAnnouncement(ctx context.Context, id string) (models.Announcement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ann, ok := s.repo.Announcement(id)
	if !ok {
		return models.Announcement{}, notFound("announcement")
	}
	return ann.Clone(), nil
}

// ListAssignments applies the screen filters and orders by due date.
func (s *StateService) ListAssignments(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, error) {
	if !filter.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown assignment filter")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	// Only the "all" tab hides completed work; the other tabs already
	// decide completion themselves.
	hideCompleted := filter.HideCompleted && (filter.Kind == "" || filter.Kind == models.FilterAll)
	out := make([]models.Assignment, 0, len(s.repo.Assignments()))
	for _, a := range s.repo.Assignments() {
		if filter.CourseID != "" && a.CourseID != filter.CourseID {
			continue
		}
		if hideCompleted && a.Status.IsCompleted() {
			continue
		}
		if !s.matchesKind(a, filter.Kind, now) {
			continue
		}
		out = append(out, a.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (s *StateService) matchesKind(a models.Assignment, kind models.AssignmentFilterKind, now time.Time) bool {
	switch kind {
	case models.FilterPending:
		return a.Status.IsOpen()
	case models.FilterDueSoon:
		days := a.DaysUntilDue(now, s.loc)
		return days >= 0 && days <= 3 && !a.Status.IsCompleted()
	case models.FilterOverdue:
		return a.IsOverdue(now)
	case models.FilterCompleted:
		return a.Status.IsCompleted()
	default:
		return true
	}
}

// AssignmentSummary counts assignments per filter tab.
func (s *StateService) AssignmentSummary(ctx context.Context) models.AssignmentSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var summary models.AssignmentSummary
	for _, a := range s.repo.Assignments() {
		if s.matchesKind(a, models.FilterPending, now) {
			summary.Pending++
		}
		if s.matchesKind(a, models.FilterDueSoon, now) {
			summary.DueSoon++
		}
		if s.matchesKind(a, models.FilterOverdue, now) {
			summary.Overdue++
		}
		if s.matchesKind(a, models.FilterCompleted, now) {
			summary.Completed++
		}
	}
	return summary
}

// GetAssignment returns one assignment by id.
func (s *StateService) GetAssignment(ctx context.Context, id string) (models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	asg, ok := s.repo.Assignment(id)
	if !ok {
		return models.Assignment{}, notFound("assignment")
	}
	return asg.Clone(), nil
}

// ListCourses returns the enrolled courses.
func (s *StateService) ListCourses(ctx context.Context) []models.Course {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Course, len(s.repo.Courses()))
	for i, c := range s.repo.Courses() {
		out[i] = c.Clone()
	}
	return out
}

// ListClubs returns every club with its events.
func (s *StateService) ListClubs(ctx context.Context) []models.Club {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Club, len(s.repo.Clubs()))
	for i, c := range s.repo.Clubs() {
		out[i] = c.Clone()
	}
	return out
}

// ListBadges returns the user's badges.
func (s *StateService) ListBadges(ctx context.Context) []models.Badge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Badge{}, s.repo.User().Badges...)
}

// ListRewards returns the reward catalogue.
func (s *StateService) ListRewards(ctx context.Context) []models.Reward {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Reward, len(s.repo.Rewards()))
	for i, r := range s.repo.Rewards() {
		out[i] = r.Clone()
	}
	return out
}

// ListCalendarEvents returns events starting inside the range, by start time.
func (s *StateService) ListCalendarEvents(ctx context.Context, rng models.CalendarRange) []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CalendarEvent, 0, len(s.repo.Events()))
	for _, ev := range s.repo.Events() {
		if rng.Contains(ev.StartTime) {
			out = append(out, ev.Clone())
		}
	}
	return out
}

// EventsOn returns the events dated on day's calendar day.
func (s *StateService) EventsOn(ctx context.Context, day time.Time) []models.CalendarEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CalendarEvent, 0)
	for _, ev := range s.repo.Events() {
		if timeutil.SameDay(ev.Date, day, s.loc) {
			out = append(out, ev.Clone())
		}
	}
	return out
}

// Now exposes the service clock so collaborators agree on "today".
func (s *StateService) Now() time.Time { return s.now() }
