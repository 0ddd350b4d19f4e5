package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/spark-api/internal/dto"
	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/timeutil"
)

type homeStateReader interface {
	CurrentUser(ctx context.Context) models.User
	Revision() uint64
	Snapshot(ctx context.Context) models.Snapshot
	Location() *time.Location
	Now() time.Time
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL            time.Duration
	HeadlineLimit       int
	OpenAssignmentLimit int
	UpcomingEventsLimit int
	WeekDays            int
}

// DashboardService composes the home screen payload.
type DashboardService struct {
	state  homeStateReader
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	State  homeStateReader
	Cache  *CacheService
	Logger *zap.Logger
	Config DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.HeadlineLimit <= 0 {
		cfg.HeadlineLimit = 5
	}
	if cfg.OpenAssignmentLimit <= 0 {
		cfg.OpenAssignmentLimit = 4
	}
	if cfg.UpcomingEventsLimit <= 0 {
		cfg.UpcomingEventsLimit = 3
	}
	if cfg.WeekDays <= 0 {
		cfg.WeekDays = 7
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		state:  params.State,
		cache:  params.Cache,
		logger: logger,
		cfg:    cfg,
	}
}

// HomeCacheKey names the cache entry for a user at a revision on a day.
func HomeCacheKey(userID string, revision uint64, day time.Time) string {
	return fmt.Sprintf("spark:dash:home:%s:%d:%s", userID, revision, day.Format("2006-01-02"))
}

func homeCachePattern(userID string) string {
	return fmt.Sprintf("spark:dash:home:%s:*", userID)
}

// Home returns the home dashboard and reports whether it came from cache.
func (s *DashboardService) Home(ctx context.Context) (*dto.HomeDashboardResponse, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	now := s.state.Now()
	loc := s.state.Location()
	today := timeutil.StartOfDay(now, loc)

	userID := s.state.CurrentUser(ctx).ID
	if cached, hit, err := s.tryCache(ctx, HomeCacheKey(userID, s.state.Revision(), today)); err == nil && hit {
		return cached, true, nil
	}

	// One snapshot keeps user, stats and lists on the same revision.
	snap := s.state.Snapshot(ctx)
	summary := s.compose(snap, now, loc)
	s.persistCache(ctx, snap.User.ID, HomeCacheKey(snap.User.ID, snap.Revision, today), summary)
	return summary, false, nil
}

func (s *DashboardService) compose(snap models.Snapshot, now time.Time, loc *time.Location) *dto.HomeDashboardResponse {
	user := snap.User

	sortAnnouncements(snap.Announcements)
	headlines := make([]models.Announcement, 0, s.cfg.HeadlineLimit)
	for _, a := range snap.Announcements {
		if a.Priority != models.PriorityUrgent && a.Priority != models.PriorityHigh {
			continue
		}
		headlines = append(headlines, a)
		if len(headlines) == s.cfg.HeadlineLimit {
			break
		}
	}

	open := make([]models.Assignment, 0, len(snap.Assignments))
	for _, a := range snap.Assignments {
		if !a.Status.IsCompleted() {
			open = append(open, a)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].DueDate.Before(open[j].DueDate) })
	if len(open) > s.cfg.OpenAssignmentLimit {
		open = open[:s.cfg.OpenAssignmentLimit]
	}

	today := timeutil.StartOfDay(now, loc)
	weekEnd := timeutil.AddDays(today, s.cfg.WeekDays)

	upcoming := make([]models.CalendarEvent, 0, s.cfg.UpcomingEventsLimit)
	week := make([]dto.WeekDay, s.cfg.WeekDays)
	for i := range week {
		day := timeutil.AddDays(today, i)
		week[i] = dto.WeekDay{Date: day.Format("2006-01-02"), Weekday: day.Weekday().String()}
	}
	for _, ev := range snap.Events {
		if ev.Date.After(now) && len(upcoming) < s.cfg.UpcomingEventsLimit {
			upcoming = append(upcoming, ev)
		}
		if ev.Date.Before(today) || !ev.Date.Before(weekEnd) {
			continue
		}
		idx := timeutil.DaysBetween(today, ev.Date, loc)
		if idx >= 0 && idx < len(week) {
			week[idx].EventCount++
			if ev.Type == models.EventExam {
				week[idx].HasExam = true
			}
		}
	}

	return &dto.HomeDashboardResponse{
		User: dto.DashboardUser{
			ID:            user.ID,
			Name:          user.Name,
			Initials:      user.Initials(),
			Points:        user.Points,
			CurrentStreak: user.CurrentStreak,
			LongestStreak: user.LongestStreak,
		},
		Stats:           snap.Stats,
		Headlines:       dto.NewAnnouncementViews(headlines, user.ID),
		OpenAssignments: dto.NewAssignmentViews(open, now, loc),
		UpcomingEvents:  upcoming,
		Week:            week,
		Revision:        snap.Revision,
		GeneratedAt:     now,
	}
}

func (s *DashboardService) tryCache(ctx context.Context, key string) (*dto.HomeDashboardResponse, bool, error) {
	if s.cache == nil {
		return nil, false, nil
	}
	var cached dto.HomeDashboardResponse
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil || !hit {
		return nil, false, err
	}
	return &cached, true, nil
}

// persistCache drops the user's entries for older revisions and days before
// writing the new one, so at most one home payload per user stays cached.
func (s *DashboardService) persistCache(ctx context.Context, userID, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, homeCachePattern(userID)); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
