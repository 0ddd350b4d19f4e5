package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/repository"
	"github.com/noah-isme/spark-api/internal/seed"
	appErrors "github.com/noah-isme/spark-api/pkg/errors"
)

var testNow = time.Date(2025, 12, 15, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.ActivityEvent
}

func (p *recordingPublisher) Publish(ev models.ActivityEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) snapshot() []models.ActivityEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.ActivityEvent(nil), p.events...)
}

type stateFixture struct {
	svc   *StateService
	seed  seed.State
	pub   *recordingPublisher
	clock *time.Time
}

func newStateFixture(t *testing.T, strict bool, mutate ...func(*seed.State)) *stateFixture {
	t.Helper()
	st := seed.Default(testNow, time.UTC)
	for _, fn := range mutate {
		fn(&st)
	}
	clock := testNow
	pub := &recordingPublisher{}
	svc := NewStateService(StateServiceParams{
		Repo:              repository.NewStateRepository(st),
		Location:          time.UTC,
		StrictTransitions: strict,
		Activity:          pub,
		Now:               func() time.Time { return clock },
	})
	return &stateFixture{svc: svc, seed: st, pub: pub, clock: &clock}
}

func freshUser(st *seed.State) {
	st.User.Points = 0
	st.User.CurrentStreak = 0
	st.User.LongestStreak = 0
}

func assignmentByTitle(t *testing.T, st seed.State, title string) models.Assignment {
	t.Helper()
	for _, a := range st.Assignments {
		if a.Title == title {
			return a
		}
	}
	t.Fatalf("assignment %q not seeded", title)
	return models.Assignment{}
}

// assertStatsFresh checks the cached stats against a full recomputation.
func assertStatsFresh(t *testing.T, f *stateFixture, got models.TodayStats) {
	t.Helper()
	snap := f.svc.Snapshot(context.Background())
	want := ComputeTodayStats(StatsInput{
		UserID:        snap.User.ID,
		Points:        snap.User.Points,
		CurrentStreak: snap.User.CurrentStreak,
		Announcements: snap.Announcements,
		Assignments:   snap.Assignments,
		Events:        snap.Events,
		Now:           *f.clock,
		Location:      time.UTC,
	})
	assert.Equal(t, want, got)
	assert.Equal(t, want, snap.Stats)
}

func TestInitialStatsFromFixtures(t *testing.T) {
	f := newStateFixture(t, false)
	stats := f.svc.Stats(context.Background())
	assert.Equal(t, models.TodayStats{
		UnreadAnnouncements: 6,
		PendingAssignments:  4,
		UpcomingExams:       3,
		TodayEvents:         2,
		CurrentStreak:       7,
		Points:              563,
	}, stats)
	assert.Zero(t, f.svc.Revision())
}

func TestMarkAnnouncementAsReadIsIdempotent(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	id := f.seed.Announcements[0].ID

	first, err := f.svc.MarkAnnouncementAsRead(ctx, id)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, PointsAnnouncementRead, first.PointsAwarded)
	assert.Equal(t, 568, first.Stats.Points)
	assert.Equal(t, 5, first.Stats.UnreadAnnouncements)
	assertStatsFresh(t, f, first.Stats)

	second, err := f.svc.MarkAnnouncementAsRead(ctx, id)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Zero(t, second.PointsAwarded)
	assert.Equal(t, 568, second.Stats.Points)
	assert.Equal(t, first.Revision, second.Revision)

	ann, err := f.svc.GetAnnouncement(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, ann.ViewCount())
	require.Len(t, f.pub.snapshot(), 1)
	assert.Equal(t, models.ActivityRead, f.pub.snapshot()[0].Kind)
}

func TestAcknowledgeIndependentOfRead(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	id := f.seed.Announcements[1].ID

	res, err := f.svc.AcknowledgeAnnouncement(ctx, id)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 573, res.Stats.Points)
	assert.Equal(t, 6, res.Stats.UnreadAnnouncements, "acknowledging does not mark as read")

	again, err := f.svc.AcknowledgeAnnouncement(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, 573, again.Stats.Points)

	ann, _ := f.svc.GetAnnouncement(ctx, id)
	assert.Equal(t, 1, ann.AcknowledgeCount())
	assert.Zero(t, ann.ViewCount())
}

func TestUnknownIDsLeaveStateUntouched(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	before := f.svc.Snapshot(ctx)

	calls := map[string]func() (models.MutationResult, error){
		"read":     func() (models.MutationResult, error) { return f.svc.MarkAnnouncementAsRead(ctx, "nope") },
		"ack":      func() (models.MutationResult, error) { return f.svc.AcknowledgeAnnouncement(ctx, "nope") },
		"status":   func() (models.MutationResult, error) { return f.svc.UpdateAssignmentStatus(ctx, "nope", models.StatusSubmitted) },
		"redeem":   func() (models.MutationResult, error) { return f.svc.RedeemReward(ctx, "nope") },
		"rsvp":     func() (models.MutationResult, error) { return f.svc.RSVPToEvent(ctx, "nope", f.seed.Clubs[0].ID) },
		"rsvpClub": func() (models.MutationResult, error) { return f.svc.RSVPToEvent(ctx, f.seed.Clubs[0].Events[0].ID, "nope") },
	}
	for name, call := range calls {
		res, err := call()
		require.Error(t, err, name)
		assert.ErrorIs(t, err, appErrors.ErrNotFound, name)
		assert.False(t, res.Applied, name)
	}

	after := f.svc.Snapshot(ctx)
	assert.Equal(t, before, after)
	assert.Empty(t, f.pub.snapshot())
}

func TestSevenIncrementsFromZeroEarnWeekBonus(t *testing.T) {
	f := newStateFixture(t, false, freshUser)
	ctx := context.Background()

	var res models.MutationResult
	var err error
	for i := 1; i <= 7; i++ {
		res, err = f.svc.IncrementStreak(ctx)
		require.NoError(t, err)
		user := f.svc.CurrentUser(ctx)
		assert.Equal(t, i, user.CurrentStreak)
		assert.GreaterOrEqual(t, user.LongestStreak, user.CurrentStreak)
	}
	assert.Equal(t, 7, res.Stats.CurrentStreak)
	assert.Equal(t, 50, res.Stats.Points)
	assert.Equal(t, PointsWeekStreakBonus, res.PointsAwarded)
}

func TestStreakMilestonesFireOncePerCrossing(t *testing.T) {
	f := newStateFixture(t, false, freshUser)
	ctx := context.Background()

	for i := 0; i < 35; i++ {
		_, err := f.svc.IncrementStreak(ctx)
		require.NoError(t, err)
	}
	user := f.svc.CurrentUser(ctx)
	assert.Equal(t, 35, user.CurrentStreak)
	assert.Equal(t, 35, user.LongestStreak)
	assert.Equal(t, PointsWeekStreakBonus+PointsMonthStreakBonus, user.Points)

	_, err := f.svc.BreakStreak(ctx)
	require.NoError(t, err)
	user = f.svc.CurrentUser(ctx)
	assert.Zero(t, user.CurrentStreak)
	assert.Equal(t, 35, user.LongestStreak)

	for i := 0; i < 7; i++ {
		_, err := f.svc.IncrementStreak(ctx)
		require.NoError(t, err)
	}
	user = f.svc.CurrentUser(ctx)
	assert.Equal(t, 2*PointsWeekStreakBonus+PointsMonthStreakBonus, user.Points)
	assert.Equal(t, 35, user.LongestStreak)

	bonuses := 0
	for _, ev := range f.pub.snapshot() {
		if ev.Kind == models.ActivityStreakBonus {
			bonuses++
		}
	}
	assert.Equal(t, 3, bonuses)
}

func TestIncrementBeyondMilestoneAwardsNothing(t *testing.T) {
	f := newStateFixture(t, false)
	res, err := f.svc.IncrementStreak(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Stats.CurrentStreak)
	assert.Zero(t, res.PointsAwarded)
	assert.Equal(t, 563, res.Stats.Points)
}

func TestRedeemRewardAtomicity(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	printing := f.seed.Rewards[0]

	res, err := f.svc.RedeemReward(ctx, printing.ID)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, -100, res.PointsAwarded)
	assert.Equal(t, 463, res.Stats.Points)

	// 463 -> 163 -> fails on the next 300 voucher.
	grab := f.seed.Rewards[4]
	_, err = f.svc.RedeemReward(ctx, grab.ID)
	require.NoError(t, err)
	before := f.svc.CurrentUser(ctx).Points
	require.Equal(t, 163, before)

	res, err = f.svc.RedeemReward(ctx, grab.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInsufficientPoints)
	assert.False(t, res.Applied)
	assert.Equal(t, before, f.svc.CurrentUser(ctx).Points)
	assertStatsFresh(t, f, f.svc.Stats(ctx))
}

func TestRejectedRedeemReportsCurrentStatsAndRevision(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.RedeemReward(ctx, f.seed.Rewards[0].ID)
	require.NoError(t, err)
	_, err = f.svc.RedeemReward(ctx, f.seed.Rewards[4].ID)
	require.NoError(t, err)

	res, err := f.svc.RedeemReward(ctx, f.seed.Rewards[4].ID)
	require.ErrorIs(t, err, appErrors.ErrInsufficientPoints)
	assert.False(t, res.Applied)
	assert.Equal(t, uint64(2), res.Revision)
	assert.Equal(t, f.svc.Revision(), res.Revision)
	assert.Equal(t, 163, res.Stats.Points)
	assert.Equal(t, f.svc.Stats(ctx), res.Stats)
}

func TestRedeemRewardGuards(t *testing.T) {
	one := 1
	expired := testNow.Add(-time.Hour)
	f := newStateFixture(t, false, func(st *seed.State) {
		st.Rewards[0].Stock = &one
		st.Rewards[1].ExpiresAt = &expired
		st.Rewards[2].IsAvailable = false
		st.User.Points = 1000
	})
	ctx := context.Background()

	_, err := f.svc.RedeemReward(ctx, f.seed.Rewards[0].ID)
	require.NoError(t, err)
	rewards := f.svc.ListRewards(ctx)
	require.NotNil(t, rewards[0].Stock)
	assert.Zero(t, *rewards[0].Stock)

	_, err = f.svc.RedeemReward(ctx, f.seed.Rewards[0].ID)
	assert.ErrorIs(t, err, appErrors.ErrRewardUnavailable, "sold out")

	_, err = f.svc.RedeemReward(ctx, f.seed.Rewards[1].ID)
	assert.ErrorIs(t, err, appErrors.ErrRewardUnavailable, "expired")

	_, err = f.svc.RedeemReward(ctx, f.seed.Rewards[2].ID)
	assert.ErrorIs(t, err, appErrors.ErrRewardUnavailable, "unavailable")

	assert.Equal(t, 900, f.svc.CurrentUser(ctx).Points)
}

func TestRedeemUnavailableCheckedBeforePoints(t *testing.T) {
	f := newStateFixture(t, false, func(st *seed.State) {
		st.Rewards[0].IsAvailable = false
		st.User.Points = 0
	})
	_, err := f.svc.RedeemReward(context.Background(), f.seed.Rewards[0].ID)
	assert.ErrorIs(t, err, appErrors.ErrRewardUnavailable)
}

func TestOnTimeSubmissionAwardsPoints(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	lab := assignmentByTitle(t, f.seed, "JavaScript Lab 4")

	res, err := f.svc.UpdateAssignmentStatus(ctx, lab.ID, models.StatusSubmitted)
	require.NoError(t, err)
	assert.Equal(t, PointsOnTimeSubmission, res.PointsAwarded)
	assert.Equal(t, 3, res.Stats.PendingAssignments)
	assertStatsFresh(t, f, res.Stats)

	got, err := f.svc.GetAssignment(ctx, lab.ID)
	require.NoError(t, err)
	require.NotNil(t, got.SubmittedAt)
	assert.Equal(t, testNow, *got.SubmittedAt)
}

func TestOverdueFlipsOnlyViaStatus(t *testing.T) {
	f := newStateFixture(t, false, func(st *seed.State) {
		for i := range st.Assignments {
			if st.Assignments[i].Title == "Database ER Diagram" {
				st.Assignments[i].DueDate = testNow.Add(-time.Hour)
			}
		}
	})
	ctx := context.Background()
	er := assignmentByTitle(t, f.seed, "Database ER Diagram")

	got, _ := f.svc.GetAssignment(ctx, er.ID)
	assert.True(t, got.IsOverdue(f.svc.Now()))

	res, err := f.svc.UpdateAssignmentStatus(ctx, er.ID, models.StatusInProgress)
	require.NoError(t, err)
	assert.Zero(t, res.PointsAwarded)
	got, _ = f.svc.GetAssignment(ctx, er.ID)
	assert.True(t, got.IsOverdue(f.svc.Now()))

	res, err = f.svc.UpdateAssignmentStatus(ctx, er.ID, models.StatusSubmitted)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Zero(t, res.PointsAwarded, "late submission earns nothing")
	got, _ = f.svc.GetAssignment(ctx, er.ID)
	assert.False(t, got.IsOverdue(f.svc.Now()))
}

func TestPermissiveTransitionsOverwrite(t *testing.T) {
	f := newStateFixture(t, false)
	graded := assignmentByTitle(t, f.seed, "Mobile App Wireframes")

	res, err := f.svc.UpdateAssignmentStatus(context.Background(), graded.ID, models.StatusPending)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, 5, res.Stats.PendingAssignments)
}

func TestStrictTransitions(t *testing.T) {
	f := newStateFixture(t, true)
	ctx := context.Background()
	graded := assignmentByTitle(t, f.seed, "Mobile App Wireframes")
	pending := assignmentByTitle(t, f.seed, "Database ER Diagram")
	before := f.svc.Revision()

	_, err := f.svc.UpdateAssignmentStatus(ctx, graded.ID, models.StatusPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	assert.Equal(t, before, f.svc.Revision())

	res, err := f.svc.UpdateAssignmentStatus(ctx, pending.ID, models.StatusPending)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = f.svc.UpdateAssignmentStatus(ctx, pending.ID, models.StatusSubmitted)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	_, err = f.svc.UpdateAssignmentStatus(ctx, pending.ID, models.StatusInProgress)
	assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)

	_, err = f.svc.UpdateAssignmentStatus(ctx, pending.ID, models.StatusGraded)
	assert.NoError(t, err)
}

func TestUpdateAssignmentStatusRejectsUnknownStatus(t *testing.T) {
	f := newStateFixture(t, false)
	_, err := f.svc.UpdateAssignmentStatus(context.Background(), f.seed.Assignments[0].ID, "Done")
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAddPoints(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	res, err := f.svc.AddPoints(ctx, 37, "Bonus quiz")
	require.NoError(t, err)
	assert.Equal(t, 600, res.Stats.Points)

	res, err = f.svc.AddPoints(ctx, -100, "Penalty")
	require.NoError(t, err)
	assert.Equal(t, 500, res.Stats.Points)

	_, err = f.svc.AddPoints(ctx, -501, "Too much")
	assert.ErrorIs(t, err, appErrors.ErrInsufficientPoints)
	assert.Equal(t, 500, f.svc.CurrentUser(ctx).Points)

	events := f.pub.snapshot()
	require.Len(t, events, 2)
	assert.Equal(t, "Bonus quiz", events[0].Reason)
	assert.Equal(t, -100, events[1].Amount)
}

func TestRSVPToEventIsIdempotent(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	club := f.seed.Clubs[0]

	res, err := f.svc.RSVPToEvent(ctx, club.Events[0].ID, club.ID)
	require.NoError(t, err)
	assert.Equal(t, PointsEventRSVP, res.PointsAwarded)

	res, err = f.svc.RSVPToEvent(ctx, club.Events[0].ID, club.ID)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, 578, res.Stats.Points)

	clubs := f.svc.ListClubs(ctx)
	assert.Equal(t, 1, clubs[0].Events[0].RSVPCount())
}

func TestResetPoints(t *testing.T) {
	f := newStateFixture(t, false)
	res, err := f.svc.ResetPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DebugResetPointsBalance, res.Stats.Points)
	assert.Equal(t, DebugResetPointsBalance-563, res.PointsAwarded)
}

func TestEditAnnouncement(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	id := f.seed.Announcements[3].ID
	title := "Chapter 5 Notes (revised)"
	pinned := true

	res, err := f.svc.EditAnnouncement(ctx, id, models.EditAnnouncementInput{Title: &title, IsPinned: &pinned, Changes: "Fixed typo", ChangedBy: "Dr. Parker"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Zero(t, res.PointsAwarded)

	ann, _ := f.svc.GetAnnouncement(ctx, id)
	assert.Equal(t, title, ann.Title)
	assert.True(t, ann.IsPinned)
	assert.True(t, ann.IsUpdated())
	require.Len(t, ann.Changelog, 1)
	assert.Equal(t, 2, ann.Changelog[0].Version)
	assert.Equal(t, "Dr. Parker", ann.Changelog[0].ChangedBy)

	_, err = f.svc.EditAnnouncement(ctx, id, models.EditAnnouncementInput{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	blank := "  "
	_, err = f.svc.EditAnnouncement(ctx, id, models.EditAnnouncementInput{Title: &blank})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestUpdateNotificationPreferences(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	prefs := models.DefaultNotificationPreferences()
	prefs.UrgentOnly = true

	res, err := f.svc.UpdateNotificationPreferences(ctx, prefs)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, f.svc.CurrentUser(ctx).NotificationPreferences.UrgentOnly)

	res, err = f.svc.UpdateNotificationPreferences(ctx, prefs)
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestListAnnouncementsOrderingAndFilters(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	list := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{})
	require.Len(t, list, 6)
	titles := make([]string, len(list))
	for i, a := range list {
		titles[i] = a.Title
	}
	assert.Equal(t, []string{
		"Semester Break Schedule",
		"Exam Venue Changed",
		"New Assignment Posted",
		"Lab Session Rescheduled",
		"New Chapter Notes",
		"Tech Club Meeting",
	}, titles)

	_, err := f.svc.MarkAnnouncementAsRead(ctx, list[1].ID)
	require.NoError(t, err)
	unread := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{UnreadOnly: true})
	assert.Len(t, unread, 5)

	high := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{Priority: models.PriorityHigh})
	assert.Len(t, high, 2)

	search := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{Search: "JAVASCRIPT"})
	require.Len(t, search, 1)
	assert.Equal(t, "New Chapter Notes", search[0].Title)

	pinned := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{PinnedOnly: true})
	assert.Len(t, pinned, 1)
}

func TestListAssignmentsFilters(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	all, err := f.svc.ListAssignments(ctx, models.AssignmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].DueDate.Before(all[i-1].DueDate))
	}

	pending, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterPending})
	assert.Len(t, pending, 4)

	soon, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterDueSoon})
	require.Len(t, soon, 2)
	assert.Equal(t, "JavaScript Lab 4", soon[0].Title)
	assert.Equal(t, "AR App Final Project", soon[1].Title)

	overdue, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterOverdue})
	assert.Empty(t, overdue)

	completed, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterCompleted})
	assert.Len(t, completed, 2)

	open, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{HideCompleted: true})
	assert.Len(t, open, 4)

	// Tabs other than "all" ignore the hide toggle.
	completedHidden, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterCompleted, HideCompleted: true})
	assert.Len(t, completedHidden, 2)
	allHidden, _ := f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: models.FilterAll, HideCompleted: true})
	assert.Len(t, allHidden, 4)

	_, err = f.svc.ListAssignments(ctx, models.AssignmentFilter{Kind: "someday"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	assert.Equal(t, models.AssignmentSummary{Pending: 4, DueSoon: 2, Overdue: 0, Completed: 2}, f.svc.AssignmentSummary(ctx))
}

func TestCalendarQueries(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	today := f.svc.EventsOn(ctx, testNow)
	require.Len(t, today, 2)
	assert.Equal(t, "HCI Lecture", today[0].Title)

	from := time.Date(2025, 12, 16, 0, 0, 0, 0, time.UTC)
	rng := f.svc.ListCalendarEvents(ctx, models.CalendarRange{From: from, To: from.AddDate(0, 0, 1)})
	require.Len(t, rng, 2)
	assert.Equal(t, "Database Quiz", rng[0].Title)

	assert.Len(t, f.svc.ListCalendarEvents(ctx, models.CalendarRange{}), 8)
}

func TestRefreshStatsReflectsDayRollover(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	rev := f.svc.Revision()

	*f.clock = testNow.AddDate(0, 0, 2)
	stats, err := f.svc.RefreshStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TodayEvents)
	assert.Equal(t, 2, stats.UpcomingExams)
	assert.Equal(t, rev, f.svc.Revision())
	assert.Equal(t, stats, f.svc.Stats(ctx))
}

func TestSnapshotStatsAgreeWithRecords(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	_, err := f.svc.AddPoints(ctx, 25, "bonus")
	require.NoError(t, err)

	*f.clock = testNow.AddDate(0, 0, 2)
	snap := f.svc.Snapshot(ctx)
	assert.Equal(t, uint64(1), snap.Revision)
	assert.Equal(t, snap.User.Points, snap.Stats.Points)
	assert.Equal(t, 1, snap.Stats.TodayEvents)
	assert.Equal(t, 2, snap.Stats.UpcomingExams)
	assert.Equal(t, 2, f.svc.Stats(ctx).TodayEvents, "snapshot does not overwrite cached stats")
}

func TestMutationsRespectCancelledContext(t *testing.T) {
	f := newStateFixture(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.IncrementStreak(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 7, f.svc.CurrentUser(context.Background()).CurrentStreak)
}

func TestRevisionIncrementsOnlyOnAppliedMutations(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()
	id := f.seed.Announcements[0].ID

	res, _ := f.svc.MarkAnnouncementAsRead(ctx, id)
	assert.Equal(t, uint64(1), res.Revision)
	res, _ = f.svc.MarkAnnouncementAsRead(ctx, id)
	assert.Equal(t, uint64(1), res.Revision)
	res, _ = f.svc.IncrementStreak(ctx)
	assert.Equal(t, uint64(2), res.Revision)
}

func TestConcurrentMutationsAreSerialised(t *testing.T) {
	f := newStateFixture(t, false, freshUser)
	ctx := context.Background()
	annID := f.seed.Announcements[0].ID
	club := f.seed.Clubs[0]

	const workers = 40
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = f.svc.MarkAnnouncementAsRead(ctx, annID)
			_, _ = f.svc.RSVPToEvent(ctx, club.Events[0].ID, club.ID)
			_, _ = f.svc.IncrementStreak(ctx)
			_ = f.svc.Stats(ctx)
			_ = f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{})
		}()
	}
	wg.Wait()

	user := f.svc.CurrentUser(ctx)
	assert.Equal(t, workers, user.CurrentStreak)
	want := PointsAnnouncementRead + PointsEventRSVP + PointsWeekStreakBonus + PointsMonthStreakBonus
	assert.Equal(t, want, user.Points)

	ann, _ := f.svc.GetAnnouncement(ctx, annID)
	assert.Equal(t, 1, ann.ViewCount())
	assertStatsFresh(t, f, f.svc.Stats(ctx))
}

func TestReadersReceiveCopies(t *testing.T) {
	f := newStateFixture(t, false)
	ctx := context.Background()

	list := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{})
	list[0].ViewedBy.Add("intruder")
	list[0].Title = "changed"

	user := f.svc.CurrentUser(ctx)
	user.Points = 0
	user.Badges[0].Name = "changed"

	fresh := f.svc.ListAnnouncements(ctx, models.AnnouncementFilter{})
	assert.Zero(t, fresh[0].ViewCount())
	assert.NotEqual(t, "changed", fresh[0].Title)
	assert.Equal(t, 563, f.svc.CurrentUser(ctx).Points)
	assert.NotEqual(t, "changed", f.svc.ListBadges(ctx)[0].Name)
}
