package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spark-api/internal/models"
)

func TestDashboardHomeComposition(t *testing.T) {
	f := newStateFixture(t, false)
	svc := NewDashboardService(DashboardServiceParams{State: f.svc})

	home, cached, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, "JS", home.User.Initials)
	assert.Equal(t, 563, home.Stats.Points)

	require.Len(t, home.Headlines, 3)
	assert.Equal(t, "Exam Venue Changed", home.Headlines[0].Title)
	for _, h := range home.Headlines {
		assert.Contains(t, []models.AnnouncementPriority{models.PriorityUrgent, models.PriorityHigh}, h.Priority)
	}

	require.Len(t, home.OpenAssignments, 4)
	assert.Equal(t, "JavaScript Lab 4", home.OpenAssignments[0].Title)
	assert.Equal(t, 1, home.OpenAssignments[0].DaysUntilDue)
	assert.Equal(t, models.DueSoon, home.OpenAssignments[0].DueCategory)

	require.Len(t, home.UpcomingEvents, 3)
	assert.Equal(t, "Database Quiz", home.UpcomingEvents[0].Title)

	require.Len(t, home.Week, 7)
	counts := make([]int, len(home.Week))
	for i, d := range home.Week {
		counts[i] = d.EventCount
	}
	assert.Equal(t, []int{2, 2, 1, 1, 0, 1, 0}, counts)
	assert.True(t, home.Week[1].HasExam)
	assert.Equal(t, "2025-12-15", home.Week[0].Date)
	assert.Equal(t, "Monday", home.Week[0].Weekday)
}

func TestDashboardHomeCacheKeyedByRevision(t *testing.T) {
	f := newStateFixture(t, false)
	repo := newStubCacheRepo()
	cache := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := NewDashboardService(DashboardServiceParams{State: f.svc, Cache: cache})
	ctx := context.Background()

	_, cached, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 563, second.Stats.Points)

	_, err = f.svc.MarkAnnouncementAsRead(ctx, f.seed.Announcements[0].ID)
	require.NoError(t, err)

	third, cached, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.False(t, cached, "a mutation moves the dashboard to a new cache key")
	assert.Equal(t, 568, third.Stats.Points)
	assert.True(t, third.Headlines[0].IsRead)

	user := f.svc.CurrentUser(ctx)
	assert.Equal(t, []string{HomeCacheKey(user.ID, 1, testNow)}, repo.keys(), "older revisions are invalidated")
	require.NotEmpty(t, repo.deleted)
	for _, pattern := range repo.deleted {
		assert.True(t, strings.HasPrefix(pattern, "spark:dash:home:"+user.ID+":"))
	}
}

func TestDashboardHomeIsInternallyConsistent(t *testing.T) {
	f := newStateFixture(t, false)
	svc := NewDashboardService(DashboardServiceParams{State: f.svc})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.AddPoints(ctx, 10, "bonus")
		require.NoError(t, err)
	}
	*f.clock = testNow.AddDate(0, 0, 2)

	home, _, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), home.Revision)
	assert.Equal(t, 593, home.User.Points)
	assert.Equal(t, home.User.Points, home.Stats.Points)
	assert.Equal(t, 1, home.Stats.TodayEvents, "stats follow the current day")
}

func TestHomeCacheKeyFormat(t *testing.T) {
	day := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "spark:dash:home:u1:42:2025-12-15", HomeCacheKey("u1", 42, day))
}
