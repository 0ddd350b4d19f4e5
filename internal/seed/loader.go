package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/timeutil"
)

// File is the YAML fixture layout. Dates are offsets from load time so a
// fixture stays meaningful on any day. Omitted sections fall back to Default.
type File struct {
	User          *UserFixture          `yaml:"user"`
	Courses       []CourseFixture       `yaml:"courses" validate:"dive"`
	Clubs         []ClubFixture         `yaml:"clubs" validate:"dive"`
	Assignments   []AssignmentFixture   `yaml:"assignments" validate:"dive"`
	Announcements []AnnouncementFixture `yaml:"announcements" validate:"dive"`
	Events        []EventFixture        `yaml:"events" validate:"dive"`
	Badges        []BadgeFixture        `yaml:"badges" validate:"dive"`
	Rewards       []RewardFixture       `yaml:"rewards" validate:"dive"`
}

type UserFixture struct {
	Name          string                          `yaml:"name" validate:"required"`
	Email         string                          `yaml:"email" validate:"required,email"`
	StudentID     string                          `yaml:"student_id"`
	Role          string                          `yaml:"role" validate:"omitempty,oneof=Student Lecturer 'Club Committee' Admin"`
	Program       string                          `yaml:"program"`
	Year          int                             `yaml:"year" validate:"gte=0"`
	Semester      int                             `yaml:"semester" validate:"gte=0"`
	Department    string                          `yaml:"department"`
	Phone         string                          `yaml:"phone"`
	Clubs         []string                        `yaml:"clubs"`
	Credits       int                             `yaml:"credits" validate:"gte=0"`
	Attendance    int                             `yaml:"attendance" validate:"gte=0,lte=100"`
	Bio           string                          `yaml:"bio"`
	Points        int                             `yaml:"points" validate:"gte=0"`
	CurrentStreak int                             `yaml:"current_streak" validate:"gte=0"`
	LongestStreak int                             `yaml:"longest_streak" validate:"gtefield=CurrentStreak"`
	Preferences   *models.NotificationPreferences `yaml:"notification_preferences"`
}

type CourseFixture struct {
	Name         string `yaml:"name" validate:"required"`
	Code         string `yaml:"code" validate:"required"`
	Description  string `yaml:"description"`
	LecturerName string `yaml:"lecturer_name"`
	Room         string `yaml:"room"`
	ColorHex     string `yaml:"color_hex" validate:"omitempty,hexadecimal,len=6"`
	Icon         string `yaml:"icon"`
	Semester     string `yaml:"semester"`
	Credits      int    `yaml:"credits" validate:"gte=0"`
}

type ClubFixture struct {
	Name        string             `yaml:"name" validate:"required"`
	Description string             `yaml:"description"`
	Category    string             `yaml:"category" validate:"omitempty,oneof=Academic Sports 'Arts & Culture' Technology 'Community Service' Other"`
	ColorHex    string             `yaml:"color_hex" validate:"omitempty,hexadecimal,len=6"`
	Events      []ClubEventFixture `yaml:"events" validate:"dive"`
}

type ClubEventFixture struct {
	Title           string `yaml:"title" validate:"required"`
	Description     string `yaml:"description"`
	InDays          int    `yaml:"in_days"`
	Hour            int    `yaml:"hour" validate:"gte=0,lte=23"`
	Minute          int    `yaml:"minute" validate:"gte=0,lte=59"`
	DurationMinutes int    `yaml:"duration_minutes" validate:"gte=0"`
	Location        string `yaml:"location"`
	MaxParticipants *int   `yaml:"max_participants" validate:"omitempty,gt=0"`
}

type AssignmentFixture struct {
	Title            string   `yaml:"title" validate:"required"`
	Description      string   `yaml:"description"`
	CourseCode       string   `yaml:"course_code"`
	DueInDays        float64  `yaml:"due_in_days"`
	Status           string   `yaml:"status" validate:"omitempty,oneof=Pending 'In Progress' Submitted Graded Late"`
	Priority         string   `yaml:"priority" validate:"omitempty,oneof=Low Medium High Urgent"`
	SubmittedDaysAgo *float64 `yaml:"submitted_days_ago"`
	Grade            *float64 `yaml:"grade" validate:"omitempty,gte=0"`
	MaxGrade         float64  `yaml:"max_grade" validate:"gte=0"`
	Feedback         *string  `yaml:"feedback"`
}

type AnnouncementFixture struct {
	Title       string              `yaml:"title" validate:"required"`
	Content     string              `yaml:"content"`
	Category    string              `yaml:"category" validate:"omitempty,oneof=Assignment Deadline Exam 'Class Cancellation' 'Class Replacement' 'New Revision' 'Club Activity' 'Official Notice' General"`
	Priority    string              `yaml:"priority" validate:"omitempty,oneof=Urgent High Normal Low"`
	CourseCode  string              `yaml:"course_code"`
	AuthorName  string              `yaml:"author_name"`
	AuthorRole  string              `yaml:"author_role" validate:"omitempty,oneof=Student Lecturer 'Club Committee' Admin"`
	MinutesAgo  int                 `yaml:"minutes_ago" validate:"gte=0"`
	Pinned      bool                `yaml:"pinned"`
	Attachments []AttachmentFixture `yaml:"attachments" validate:"dive"`
}

type AttachmentFixture struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"omitempty,oneof=pdf doc ppt image video link other"`
	URL  string `yaml:"url"`
	Size int64  `yaml:"size" validate:"gte=0"`
}

type EventFixture struct {
	Title           string `yaml:"title" validate:"required"`
	Description     string `yaml:"description"`
	InDays          int    `yaml:"in_days"`
	Hour            int    `yaml:"hour" validate:"gte=0,lte=23"`
	Minute          int    `yaml:"minute" validate:"gte=0,lte=59"`
	DurationMinutes int    `yaml:"duration_minutes" validate:"gte=0"`
	Location        string `yaml:"location"`
	Type            string `yaml:"type" validate:"omitempty,oneof=Lecture Lab Assignment Exam Meeting 'Club Event' Personal Holiday"`
	ColorHex        string `yaml:"color_hex" validate:"omitempty,hexadecimal,len=6"`
	CourseCode      string `yaml:"course_code"`
	AllDay          bool   `yaml:"all_day"`
}

type BadgeFixture struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
	Icon        string `yaml:"icon"`
	ColorHex    string `yaml:"color_hex" validate:"omitempty,hexadecimal,len=6"`
	Category    string `yaml:"category" validate:"omitempty,oneof=Engagement Streak Academic Social Special"`
	Requirement string `yaml:"requirement"`
	Earned      bool   `yaml:"earned"`
}

type RewardFixture struct {
	Name          string `yaml:"name" validate:"required"`
	Description   string `yaml:"description"`
	PointsCost    int    `yaml:"points_cost" validate:"gte=0"`
	Category      string `yaml:"category" validate:"omitempty,oneof=Utility 'Food & Drinks' Merchandise Events Digital"`
	Icon          string `yaml:"icon"`
	ColorHex      string `yaml:"color_hex" validate:"omitempty,hexadecimal,len=6"`
	Available     *bool  `yaml:"available"`
	Stock         *int   `yaml:"stock" validate:"omitempty,gte=0"`
	ExpiresInDays *int   `yaml:"expires_in_days"`
}

// LoadFile reads a YAML fixture from path and resolves it against now.
func LoadFile(path string, now time.Time, loc *time.Location) (State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return State{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw, now, loc)
}

// Parse decodes a YAML fixture. Unknown keys are rejected.
func Parse(raw []byte, now time.Time, loc *time.Location) (State, error) {
	if loc == nil {
		loc = time.Local
	}
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return State{}, fmt.Errorf("decode seed file: %w", err)
	}
	if err := validator.New().Struct(file); err != nil {
		return State{}, fmt.Errorf("validate seed file: %w", err)
	}
	return file.resolve(now, loc), nil
}

func (f File) resolve(now time.Time, loc *time.Location) State {
	st := Default(now, loc)

	if len(f.Courses) > 0 {
		st.Courses = make([]models.Course, 0, len(f.Courses))
		for _, c := range f.Courses {
			st.Courses = append(st.Courses, models.Course{
				ID:               uuid.NewString(),
				Name:             c.Name,
				Code:             c.Code,
				Description:      c.Description,
				LecturerID:       uuid.NewString(),
				LecturerName:     c.LecturerName,
				Schedule:         []models.ClassSchedule{},
				Room:             c.Room,
				ColorHex:         c.ColorHex,
				Icon:             c.Icon,
				Semester:         c.Semester,
				Credits:          c.Credits,
				EnrolledStudents: []string{},
			})
		}
		st.User.EnrolledCourses = make([]string, 0, len(st.Courses))
		for _, c := range st.Courses {
			st.User.EnrolledCourses = append(st.User.EnrolledCourses, c.ID)
		}
	}

	if f.User != nil {
		st.User = f.User.resolve(st.User)
	}
	if len(f.Badges) > 0 {
		st.User.Badges = make([]models.Badge, 0, len(f.Badges))
		for _, b := range f.Badges {
			st.User.Badges = append(st.User.Badges, b.resolve(now))
		}
	}
	if len(f.Clubs) > 0 {
		st.Clubs = make([]models.Club, 0, len(f.Clubs))
		for _, c := range f.Clubs {
			st.Clubs = append(st.Clubs, c.resolve(now, loc))
		}
		st.User.JoinedClubs = []string{}
	}
	if len(f.Assignments) > 0 {
		st.Assignments = make([]models.Assignment, 0, len(f.Assignments))
		for _, a := range f.Assignments {
			st.Assignments = append(st.Assignments, a.resolve(now, st.Courses))
		}
	}
	if len(f.Announcements) > 0 {
		st.Announcements = make([]models.Announcement, 0, len(f.Announcements))
		for _, a := range f.Announcements {
			st.Announcements = append(st.Announcements, a.resolve(now, st.Courses))
		}
	}
	if len(f.Events) > 0 {
		st.Events = make([]models.CalendarEvent, 0, len(f.Events))
		for _, e := range f.Events {
			st.Events = append(st.Events, e.resolve(now, loc, st.Courses))
		}
	}
	if len(f.Rewards) > 0 {
		st.Rewards = make([]models.Reward, 0, len(f.Rewards))
		for _, r := range f.Rewards {
			st.Rewards = append(st.Rewards, r.resolve(now))
		}
	}
	return st
}

func (u UserFixture) resolve(base models.User) models.User {
	out := base
	out.Name = u.Name
	out.Email = u.Email
	out.StudentID = nil
	if u.StudentID != "" {
		id := u.StudentID
		out.StudentID = &id
	}
	out.Role = models.RoleStudent
	if u.Role != "" {
		out.Role = models.UserRole(u.Role)
	}
	out.Program = u.Program
	out.Year = u.Year
	out.Semester = u.Semester
	out.Department = u.Department
	out.Phone = u.Phone
	out.Clubs = cloneOrEmpty(u.Clubs)
	out.Credits = u.Credits
	out.Attendance = u.Attendance
	out.Bio = u.Bio
	out.Points = u.Points
	out.CurrentStreak = u.CurrentStreak
	out.LongestStreak = u.LongestStreak
	out.NotificationPreferences = models.DefaultNotificationPreferences()
	if u.Preferences != nil {
		out.NotificationPreferences = *u.Preferences
	}
	return out
}

func (b BadgeFixture) resolve(now time.Time) models.Badge {
	badge := models.Badge{
		ID:          uuid.NewString(),
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		ColorHex:    b.ColorHex,
		Category:    models.BadgeCategory(orDefault(b.Category, string(models.BadgeSpecial))),
		Requirement: b.Requirement,
		IsEarned:    b.Earned,
	}
	if b.Earned {
		earned := now
		badge.EarnedAt = &earned
	}
	return badge
}

func (c ClubFixture) resolve(now time.Time, loc *time.Location) models.Club {
	club := models.Club{
		ID:               uuid.NewString(),
		Name:             c.Name,
		Description:      c.Description,
		Category:         models.ClubCategory(orDefault(c.Category, string(models.ClubOther))),
		CommitteeMembers: []string{},
		Members:          []string{},
		Events:           make([]models.ClubEvent, 0, len(c.Events)),
		ColorHex:         c.ColorHex,
		IsActive:         true,
		CreatedAt:        now,
	}
	for _, e := range c.Events {
		day := timeutil.AddDays(now, e.InDays)
		ev := models.ClubEvent{
			ID:          uuid.NewString(),
			Title:       e.Title,
			Description: e.Description,
			Date:        timeutil.At(day, e.Hour, e.Minute, loc),
			Location:    e.Location,
			RSVPList:    models.MemberSet{},
			CreatedAt:   now,
		}
		if e.DurationMinutes > 0 {
			end := ev.Date.Add(time.Duration(e.DurationMinutes) * time.Minute)
			ev.EndDate = &end
		}
		if e.MaxParticipants != nil {
			limit := *e.MaxParticipants
			ev.MaxParticipants = &limit
		}
		club.Events = append(club.Events, ev)
	}
	return club
}

func (a AssignmentFixture) resolve(now time.Time, courses []models.Course) models.Assignment {
	course := courseByCode(courses, a.CourseCode)
	out := models.Assignment{
		ID:           uuid.NewString(),
		Title:        a.Title,
		Description:  a.Description,
		CourseID:     course.ID,
		CourseName:   course.Name,
		CourseCode:   course.Code,
		LecturerName: course.LecturerName,
		DueDate:      now.Add(time.Duration(a.DueInDays * float64(day))),
		Status:       models.AssignmentStatus(orDefault(a.Status, string(models.StatusPending))),
		Priority:     models.AssignmentPriority(orDefault(a.Priority, string(models.AssignmentPriorityMedium))),
		Attachments:  []models.Attachment{},
		MaxGrade:     a.MaxGrade,
		Grade:        a.Grade,
		Feedback:     a.Feedback,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if out.MaxGrade == 0 {
		out.MaxGrade = 100
	}
	if out.Grade != nil && *out.Grade > out.MaxGrade {
		g := out.MaxGrade
		out.Grade = &g
	}
	if a.SubmittedDaysAgo != nil {
		at := now.Add(-time.Duration(*a.SubmittedDaysAgo * float64(day)))
		out.SubmittedAt = &at
	}
	return out
}

func (a AnnouncementFixture) resolve(now time.Time, courses []models.Course) models.Announcement {
	created := now.Add(-time.Duration(a.MinutesAgo) * time.Minute)
	out := models.Announcement{
		ID:             uuid.NewString(),
		Title:          a.Title,
		Content:        a.Content,
		Category:       models.AnnouncementCategory(orDefault(a.Category, string(models.CategoryGeneral))),
		Priority:       models.AnnouncementPriority(orDefault(a.Priority, string(models.PriorityNormal))),
		AuthorID:       uuid.NewString(),
		AuthorName:     a.AuthorName,
		AuthorRole:     models.UserRole(orDefault(a.AuthorRole, string(models.RoleLecturer))),
		Attachments:    make([]models.Attachment, 0, len(a.Attachments)),
		Version:        1,
		Changelog:      []models.ChangelogEntry{},
		ViewedBy:       models.MemberSet{},
		AcknowledgedBy: models.MemberSet{},
		CreatedAt:      created,
		UpdatedAt:      created,
		IsPinned:       a.Pinned,
	}
	if id := courseByCode(courses, a.CourseCode).ID; a.CourseCode != "" && id != "" {
		out.CourseID = &id
	}
	for _, att := range a.Attachments {
		out.Attachments = append(out.Attachments, models.Attachment{
			ID:         uuid.NewString(),
			Name:       att.Name,
			Type:       models.AttachmentType(orDefault(att.Type, string(models.AttachmentOther))),
			URL:        att.URL,
			Size:       att.Size,
			Version:    1,
			UploadedAt: created,
		})
	}
	return out
}

func (e EventFixture) resolve(now time.Time, loc *time.Location, courses []models.Course) models.CalendarEvent {
	date := timeutil.AddDays(now, e.InDays)
	start := timeutil.At(date, e.Hour, e.Minute, loc)
	out := models.CalendarEvent{
		ID:          uuid.NewString(),
		Title:       e.Title,
		Description: e.Description,
		Date:        date,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(e.DurationMinutes) * time.Minute),
		Location:    e.Location,
		Type:        models.CalendarEventType(orDefault(e.Type, string(models.EventPersonal))),
		ColorHex:    e.ColorHex,
		IsAllDay:    e.AllDay,
	}
	if id := courseByCode(courses, e.CourseCode).ID; e.CourseCode != "" && id != "" {
		out.CourseID = &id
	}
	return out
}

func (r RewardFixture) resolve(now time.Time) models.Reward {
	out := models.Reward{
		ID:          uuid.NewString(),
		Name:        r.Name,
		Description: r.Description,
		PointsCost:  r.PointsCost,
		Category:    models.RewardCategory(orDefault(r.Category, string(models.RewardUtility))),
		Icon:        r.Icon,
		ColorHex:    r.ColorHex,
		IsAvailable: true,
		Stock:       r.Stock,
	}
	if r.Available != nil {
		out.IsAvailable = *r.Available
	}
	if r.ExpiresInDays != nil {
		at := timeutil.AddDays(now, *r.ExpiresInDays)
		out.ExpiresAt = &at
	}
	return out
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func cloneOrEmpty(in []string) []string {
	return append([]string{}, in...)
}
