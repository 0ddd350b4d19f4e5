package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spark-api/internal/middleware"
	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/internal/repository"
	"github.com/noah-isme/spark-api/internal/seed"
	"github.com/noah-isme/spark-api/internal/service"
)

var apiNow = time.Date(2025, 12, 15, 9, 30, 0, 0, time.UTC)

type apiFixture struct {
	engine   *gin.Engine
	seed     seed.State
	activity *service.ActivityService
}

type apiEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta map[string]interface{} `json:"meta"`
}

func newAPIFixture(t *testing.T, debug bool) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := seed.Default(apiNow, time.UTC)
	activity := service.NewActivityService(service.ActivityConfig{Workers: 1, BufferSize: 16, History: 16}, nil, nil)
	activity.Start(context.Background())
	t.Cleanup(activity.Stop)

	state := service.NewStateService(service.StateServiceParams{
		Repo:     repository.NewStateRepository(st),
		Location: time.UTC,
		Activity: activity,
		Now:      func() time.Time { return apiNow },
	})
	exporter := service.NewExportService(state, nil, nil, nil)

	engine := gin.New()
	engine.Use(middleware.WithResponseMeta())
	Router{
		User:          NewUserHandler(state),
		Announcements: NewAnnouncementHandler(state),
		Assignments:   NewAssignmentHandler(state, exporter),
		Calendar:      NewCalendarHandler(state, exporter),
		Campus:        NewCampusHandler(state),
		Rewards:       NewRewardsHandler(state, activity),
		Dashboard:     NewDashboardHandler(service.NewDashboardService(service.DashboardServiceParams{State: state})),
		DebugEnabled:  debug,
	}.Register(engine.Group("/api/v1"))

	return &apiFixture{engine: engine, seed: st, activity: activity}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestAPIMe(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		Name     string `json:"name"`
		Initials string `json:"initials"`
	}
	env := decodeEnvelope(t, rec, &user)
	assert.Equal(t, "John Skibidi", user.Name)
	assert.Equal(t, "JS", user.Initials)
	assert.Equal(t, float64(0), env.Meta["revision"])
}

func TestAPIMarkReadIsIdempotent(t *testing.T) {
	f := newAPIFixture(t, false)
	id := f.seed.Announcements[0].ID

	var first, second models.MutationResult
	rec := f.do(t, http.MethodPost, "/announcements/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &first)

	rec = f.do(t, http.MethodPost, "/announcements/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, &second)

	assert.True(t, first.Applied)
	assert.Equal(t, 5, first.PointsAwarded)
	assert.False(t, second.Applied)
	assert.Equal(t, 568, second.Stats.Points)
	assert.Equal(t, float64(1), env.Meta["revision"])

	require.Eventually(t, func() bool { return len(f.activity.Recent(0)) == 1 }, time.Second, 10*time.Millisecond)
	var events []models.ActivityEvent
	rec = f.do(t, http.MethodGet, "/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &events)
	require.Len(t, events, 1)
	assert.Equal(t, models.ActivityRead, events[0].Kind)
}

func TestAPIUnknownAnnouncement(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPost, "/announcements/missing/acknowledge", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestAPIListAnnouncementsFilters(t *testing.T) {
	f := newAPIFixture(t, false)

	var items []map[string]interface{}
	rec := f.do(t, http.MethodGet, "/announcements?pinned=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Semester Break Schedule", items[0]["title"])

	rec = f.do(t, http.MethodGet, "/announcements?unread=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIEditAnnouncementRequiresAChange(t *testing.T) {
	f := newAPIFixture(t, false)
	id := f.seed.Announcements[0].ID

	rec := f.do(t, http.MethodPut, "/announcements/"+id, map[string]string{"changes": "nothing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/announcements/"+id, map[string]interface{}{"priority": "Whenever"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPut, "/announcements/"+id, map[string]interface{}{"is_pinned": true, "changes": "pinned", "changed_by": "Dr. Smith"})
	require.Equal(t, http.StatusOK, rec.Code)

	var item struct {
		IsPinned bool `json:"is_pinned"`
		Version  int  `json:"version"`
	}
	rec = f.do(t, http.MethodGet, "/announcements/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &item)
	assert.True(t, item.IsPinned)
	assert.Equal(t, 2, item.Version)
}

func TestAPIAssignmentStatus(t *testing.T) {
	f := newAPIFixture(t, false)
	var lab models.Assignment
	for _, a := range f.seed.Assignments {
		if a.Title == "JavaScript Lab 4" {
			lab = a
		}
	}
	require.NotEmpty(t, lab.ID)

	rec := f.do(t, http.MethodPatch, "/assignments/"+lab.ID+"/status", map[string]string{"status": "Done"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/assignments/"+lab.ID+"/status", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var result models.MutationResult
	rec = f.do(t, http.MethodPatch, "/assignments/"+lab.ID+"/status", map[string]string{"status": "Submitted"})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &result)
	assert.Equal(t, 20, result.PointsAwarded)
	assert.Equal(t, 583, result.Stats.Points)
}

func TestAPIListAssignments(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/assignments?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var items []map[string]interface{}
	rec = f.do(t, http.MethodGet, "/assignments?filter=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, &items)
	require.Len(t, items, 2)
	assert.Equal(t, "Mobile App Wireframes", items[0]["title"])

	summary, ok := env.Meta["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(2), summary["completed"])
}

func TestAPIRedeemReward(t *testing.T) {
	f := newAPIFixture(t, false)
	rewardID := func(name string) string {
		for _, r := range f.seed.Rewards {
			if r.Name == name {
				return r.ID
			}
		}
		t.Fatalf("reward %q not seeded", name)
		return ""
	}

	var ok struct {
		Redeemed bool                  `json:"redeemed"`
		Result   models.MutationResult `json:"result"`
	}
	rec := f.do(t, http.MethodPost, "/rewards/"+rewardID("Premium Stickers")+"/redeem", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &ok)
	assert.True(t, ok.Redeemed)
	assert.Equal(t, 488, ok.Result.Stats.Points)

	rec = f.do(t, http.MethodPost, "/points", map[string]interface{}{"amount": -480, "reason": "test drain"})
	require.Equal(t, http.StatusOK, rec.Code)

	var refused struct {
		Redeemed bool                  `json:"redeemed"`
		Result   models.MutationResult `json:"result"`
		Reason   string                `json:"reason"`
	}
	rec = f.do(t, http.MethodPost, "/rewards/"+rewardID("Printing Credits")+"/redeem", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	decodeEnvelope(t, rec, &refused)
	assert.False(t, refused.Redeemed)
	assert.Equal(t, "INSUFFICIENT_POINTS", refused.Reason)
	assert.Equal(t, 8, refused.Result.Stats.Points)
	assert.Equal(t, uint64(2), refused.Result.Revision)

	rec = f.do(t, http.MethodPost, "/rewards/missing/redeem", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIAddPointsValidation(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPost, "/points", map[string]interface{}{"amount": 0, "reason": "nothing"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/points", map[string]interface{}{"amount": -1000, "reason": "too much"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPIStreak(t *testing.T) {
	f := newAPIFixture(t, false)

	var result models.MutationResult
	rec := f.do(t, http.MethodPost, "/streak/break", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &result)
	assert.Equal(t, 0, result.Stats.CurrentStreak)

	rec = f.do(t, http.MethodPost, "/streak/increment", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &result)
	assert.Equal(t, 1, result.Stats.CurrentStreak)
}

func TestAPIRSVP(t *testing.T) {
	f := newAPIFixture(t, false)
	club := f.seed.Clubs[1]
	require.NotEmpty(t, club.Events)

	var result models.MutationResult
	rec := f.do(t, http.MethodPost, "/clubs/"+club.ID+"/events/"+club.Events[0].ID+"/rsvp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &result)
	assert.Equal(t, 15, result.PointsAwarded)

	rec = f.do(t, http.MethodPost, "/clubs/"+club.ID+"/events/unknown/rsvp", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPIDebugReset(t *testing.T) {
	disabled := newAPIFixture(t, false)
	rec := disabled.do(t, http.MethodPost, "/debug/reset-points", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	enabled := newAPIFixture(t, true)
	var result models.MutationResult
	rec = enabled.do(t, http.MethodPost, "/debug/reset-points", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &result)
	assert.Equal(t, 500, result.Stats.Points)
}

func TestAPICalendar(t *testing.T) {
	f := newAPIFixture(t, false)

	var events []models.CalendarEvent
	rec := f.do(t, http.MethodGet, "/calendar?from=2025-12-16&to=2025-12-16", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeEnvelope(t, rec, &events)
	require.Len(t, events, 2)
	assert.Equal(t, "Database Quiz", events[0].Title)

	rec = f.do(t, http.MethodGet, "/calendar?from=2025-12-17&to=2025-12-16", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/calendar?from=16-12-2025", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIExports(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/assignments/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="assignments-20251215.csv"`, rec.Header().Get("Content-Disposition"))

	rec = f.do(t, http.MethodGet, "/calendar/export?format=pdf&from=2025-12-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = f.do(t, http.MethodGet, "/assignments/export?format=xls", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIDashboardAndCatalogs(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec, nil)
	assert.Equal(t, false, env.Meta["cache_hit"])

	for _, path := range []string{"/courses", "/clubs", "/badges", "/rewards", "/stats", "/state"} {
		rec := f.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	var clubs []struct {
		Name   string `json:"name"`
		Events []struct {
			Attending bool `json:"attending"`
		} `json:"events"`
	}
	rec = f.do(t, http.MethodGet, "/clubs", nil)
	decodeEnvelope(t, rec, &clubs)
	require.NotEmpty(t, clubs)
	assert.Equal(t, "Tech Club", clubs[0].Name)
	require.Len(t, clubs[0].Events, 1)
	assert.False(t, clubs[0].Events[0].Attending)
}

func TestAPIUpdatePreferences(t *testing.T) {
	f := newAPIFixture(t, false)

	rec := f.do(t, http.MethodPut, "/me/notification-preferences", map[string]bool{"push_enabled": true, "urgent_only": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var user struct {
		Preferences models.NotificationPreferences `json:"notification_preferences"`
	}
	rec = f.do(t, http.MethodGet, "/me", nil)
	decodeEnvelope(t, rec, &user)
	assert.True(t, user.Preferences.UrgentOnly)
	assert.False(t, user.Preferences.EmailEnabled)
}
