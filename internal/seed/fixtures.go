package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/spark-api/internal/models"
	"github.com/noah-isme/spark-api/pkg/timeutil"
)

const day = 24 * time.Hour

// Default returns the built-in sample data with dates relative to now.
func Default(now time.Time, loc *time.Location) State {
	if loc == nil {
		loc = time.Local
	}
	courses := defaultCourses(now, loc)
	user := defaultUser(now, courses)
	clubs := defaultClubs(now, loc, user.ID)
	user.JoinedClubs = []string{clubs[0].ID}
	return State{
		User:          user,
		Announcements: defaultAnnouncements(now, courses),
		Assignments:   defaultAssignments(now, courses),
		Courses:       courses,
		Clubs:         clubs,
		Events:        defaultEvents(now, loc, courses),
		Rewards:       defaultRewards(),
	}
}

func defaultUser(now time.Time, courses []models.Course) models.User {
	studentID := "CS2025-1842"
	enrolled := make([]string, 0, len(courses))
	for _, c := range courses {
		enrolled = append(enrolled, c.ID)
	}
	return models.User{
		ID:                      uuid.NewString(),
		Name:                    "John Skibidi",
		Email:                   "m-15005933@moe-edu.my",
		StudentID:               &studentID,
		Role:                    models.RoleStudent,
		Program:                 "Computer Science",
		Year:                    2,
		Semester:                1,
		Department:              "Computer Science",
		Phone:                   "012-3290425",
		Clubs:                   []string{"Tech Club", "Gaming Society"},
		Credits:                 45,
		Attendance:              92,
		Bio:                     "I might fail my class but at least I got a degree",
		EnrolledCourses:         enrolled,
		JoinedClubs:             []string{},
		Points:                  563,
		CurrentStreak:           7,
		LongestStreak:           14,
		Badges:                  defaultBadges(now),
		NotificationPreferences: models.DefaultNotificationPreferences(),
		CreatedAt:               now,
		LastActiveAt:            now,
	}
}

func defaultBadges(now time.Time) []models.Badge {
	earned := now
	return []models.Badge{
		{ID: uuid.NewString(), Name: "Early Bird", Description: "Check updates within 1 hour of posting", Icon: "sunrise.fill", ColorHex: "F39C12", Category: models.BadgeEngagement, Requirement: "View 10 announcements within 1 hour", EarnedAt: &earned, IsEarned: true},
		{ID: uuid.NewString(), Name: "Streak Master", Description: "Maintain a 7-day streak", Icon: "flame.fill", ColorHex: "E74C3C", Category: models.BadgeStreak, Requirement: "7 consecutive days", EarnedAt: &earned, IsEarned: true},
		{ID: uuid.NewString(), Name: "Organized Student", Description: "Complete all assignments on time", Icon: "checkmark.seal.fill", ColorHex: "27AE60", Category: models.BadgeAcademic, Requirement: "10 on-time submissions"},
		{ID: uuid.NewString(), Name: "Club Supporter", Description: "RSVP to 5 club events", Icon: "person.3.fill", ColorHex: "9B59B6", Category: models.BadgeSocial, Requirement: "5 event RSVPs"},
	}
}

type courseFixture struct {
	name, code, lecturer, room, color, icon string
	weekday                                 time.Weekday
	startHour, endHour                      int
	classType                               models.ClassType
}

var courseFixtures = []courseFixture{
	{"Human-Computer Interaction", "CSC 3104", "Prof. Emmet", "Room 301", "9B59B6", "laptopcomputer", time.Monday, 10, 12, models.ClassLecture},
	{"Web Development", "CSC 2201", "Dr. Parker", "Computer Lab A", "E67E22", "globe", time.Tuesday, 14, 16, models.ClassLab},
	{"Database Systems", "CSC 2105", "Dr. Smith", "Room 205", "27AE60", "cylinder.split.1x2", time.Wednesday, 9, 11, models.ClassLecture},
	{"Software Engineering", "CSC 3201", "Prof. Johnson", "Room 401", "3498DB", "gearshape.2", time.Thursday, 11, 13, models.ClassTutorial},
	{"Mobile App Development", "CSC 3105", "Dr. Lee", "Lab B", "E74C3C", "iphone", time.Friday, 15, 17, models.ClassLab},
}

func defaultCourses(now time.Time, loc *time.Location) []models.Course {
	courses := make([]models.Course, 0, len(courseFixtures))
	for _, f := range courseFixtures {
		courses = append(courses, models.Course{
			ID:           uuid.NewString(),
			Name:         f.name,
			Code:         f.code,
			LecturerID:   uuid.NewString(),
			LecturerName: f.lecturer,
			Schedule: []models.ClassSchedule{{
				ID:        uuid.NewString(),
				DayOfWeek: int(f.weekday) + 1,
				StartTime: timeutil.At(now, f.startHour, 0, loc),
				EndTime:   timeutil.At(now, f.endHour, 0, loc),
				Room:      f.room,
				Type:      f.classType,
			}},
			Room:             f.room,
			ColorHex:         f.color,
			Icon:             f.icon,
			Semester:         "Semester 1",
			Credits:          3,
			EnrolledStudents: []string{},
		})
	}
	return courses
}

func courseByCode(courses []models.Course, code string) models.Course {
	for _, c := range courses {
		if c.Code == code {
			return c
		}
	}
	return models.Course{Code: code}
}

func defaultAssignments(now time.Time, courses []models.Course) []models.Assignment {
	grade := 92.0
	feedback := "Excellent work!"
	submitted := now.Add(-2 * day)

	build := func(title, desc, code string, offset time.Duration, status models.AssignmentStatus, priority models.AssignmentPriority) models.Assignment {
		course := courseByCode(courses, code)
		return models.Assignment{
			ID:           uuid.NewString(),
			Title:        title,
			Description:  desc,
			CourseID:     course.ID,
			CourseName:   course.Name,
			CourseCode:   course.Code,
			LecturerName: course.LecturerName,
			DueDate:      now.Add(offset),
			Status:       status,
			Priority:     priority,
			Attachments:  []models.Attachment{},
			MaxGrade:     100,
			Version:      1,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	srs := build("Software Requirements Doc", "Write SRS document for project", "CSC 3201", -1*day, models.StatusSubmitted, models.AssignmentPriorityHigh)
	srs.SubmittedAt = &submitted

	wireframes := build("Mobile App Wireframes", "Design wireframes for mobile app", "CSC 3105", -3*day, models.StatusGraded, models.AssignmentPriorityMedium)
	wireframes.Grade = &grade
	wireframes.Feedback = &feedback

	return []models.Assignment{
		build("AR App Final Project", "Create an AR application using ARKit", "CSC 3104", 3*day, models.StatusInProgress, models.AssignmentPriorityHigh),
		build("JavaScript Lab 4", "Complete JavaScript DOM manipulation exercises", "CSC 2201", 1*day, models.StatusInProgress, models.AssignmentPriorityUrgent),
		build("Database ER Diagram", "Design ER diagram for library system", "CSC 2105", 5*day, models.StatusPending, models.AssignmentPriorityMedium),
		build("UI/UX Case Study", "Analyze and document UI/UX of 3 apps", "CSC 3104", 7*day, models.StatusPending, models.AssignmentPriorityLow),
		srs,
		wireframes,
	}
}

func defaultAnnouncements(now time.Time, courses []models.Course) []models.Announcement {
	build := func(title, content string, category models.AnnouncementCategory, priority models.AnnouncementPriority, author string, role models.UserRole, ago time.Duration) models.Announcement {
		created := now.Add(-ago)
		return models.Announcement{
			ID:             uuid.NewString(),
			Title:          title,
			Content:        content,
			Category:       category,
			Priority:       priority,
			AuthorID:       uuid.NewString(),
			AuthorName:     author,
			AuthorRole:     role,
			Attachments:    []models.Attachment{},
			Version:        1,
			Changelog:      []models.ChangelogEntry{},
			ViewedBy:       models.MemberSet{},
			AcknowledgedBy: models.MemberSet{},
			CreatedAt:      created,
			UpdatedAt:      created,
		}
	}
	withCourse := func(a models.Announcement, code string) models.Announcement {
		id := courseByCode(courses, code).ID
		if id != "" {
			a.CourseID = &id
		}
		return a
	}

	notes := withCourse(build("New Chapter Notes", "Chapter 5: Advanced JavaScript Functions notes are now available. Please download and study before the next class.",
		models.CategoryNewRevision, models.PriorityNormal, "Dr. Parker", models.RoleLecturer, 8*time.Hour), "CSC 2201")
	notes.Attachments = []models.Attachment{{
		ID:         uuid.NewString(),
		Name:       "Chapter5_Notes.pdf",
		Type:       models.AttachmentPDF,
		Size:       2048000,
		Version:    1,
		UploadedAt: notes.CreatedAt,
	}}

	semesterBreak := build("Semester Break Schedule", "The semester break will begin on December 23, 2025. Classes resume on January 6, 2026.",
		models.CategoryOfficialNotice, models.PriorityNormal, "Academic Office", models.RoleAdmin, 24*time.Hour)
	semesterBreak.IsPinned = true

	return []models.Announcement{
		withCourse(build("Exam Venue Changed", "Tomorrow's Database Systems exam has been moved from Hall A to Hall B. Please arrive 15 minutes early.",
			models.CategoryExam, models.PriorityUrgent, "Dr. Smith", models.RoleLecturer, 30*time.Minute), "CSC 2105"),
		withCourse(build("New Assignment Posted", "AR App Final Project has been posted. Please check the requirements carefully. Due date: December 22, 2025.",
			models.CategoryAssignment, models.PriorityHigh, "Prof. Emmet", models.RoleLecturer, time.Hour), "CSC 3104"),
		withCourse(build("Lab Session Rescheduled", "Friday's Mobile Dev lab has been moved to Monday 3 PM due to equipment maintenance.",
			models.CategoryClassReplacement, models.PriorityHigh, "Dr. Lee", models.RoleLecturer, 2*time.Hour), "CSC 3105"),
		notes,
		build("Tech Club Meeting", "Weekly Tech Club meeting this Friday at 4 PM in Room 301. Topic: Introduction to AI.",
			models.CategoryClubActivity, models.PriorityNormal, "Tech Club Committee", models.RoleClubCommittee, 12*time.Hour),
		semesterBreak,
	}
}

func defaultClubs(now time.Time, loc *time.Location, userID string) []models.Club {
	meetingDay := timeutil.AddDays(now, 2)
	meetingEnd := timeutil.At(meetingDay, 17, 30, loc)
	capacity := 40
	walkDay := timeutil.AddDays(now, 4)

	return []models.Club{
		{
			ID:          uuid.NewString(),
			Name:        "Tech Club",
			Description: "For tech enthusiasts",
			Category:    models.ClubTechnology,
			Members:     []string{userID},
			Events: []models.ClubEvent{{
				ID:              uuid.NewString(),
				Title:           "Weekly Tech Club Meeting",
				Description:     "Topic: Introduction to AI.",
				Date:            timeutil.At(meetingDay, 16, 0, loc),
				EndDate:         &meetingEnd,
				Location:        "Room 301",
				MaxParticipants: &capacity,
				RSVPList:        models.MemberSet{},
				CreatedAt:       now,
			}},
			ColorHex:  "3498DB",
			IsActive:  true,
			CreatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Photography Society",
			Description: "Capture moments",
			Category:    models.ClubArts,
			Events: []models.ClubEvent{{
				ID:          uuid.NewString(),
				Title:       "Campus Photo Walk",
				Description: "Golden hour shoot around the lake.",
				Date:        timeutil.At(walkDay, 9, 0, loc),
				Location:    "Main Gate",
				RSVPList:    models.MemberSet{},
				CreatedAt:   now,
			}},
			ColorHex:  "9B59B6",
			IsActive:  true,
			CreatedAt: now,
		},
		{
			ID:          uuid.NewString(),
			Name:        "Debate Club",
			Description: "Voice your opinions",
			Category:    models.ClubAcademic,
			Events:      []models.ClubEvent{},
			ColorHex:    "E74C3C",
			IsActive:    true,
			CreatedAt:   now,
		},
	}
}

func defaultEvents(now time.Time, loc *time.Location, courses []models.Course) []models.CalendarEvent {
	build := func(title string, offset, startH, startM, endH, endM int, location string, kind models.CalendarEventType, color, code string) models.CalendarEvent {
		date := timeutil.AddDays(now, offset)
		ev := models.CalendarEvent{
			ID:        uuid.NewString(),
			Title:     title,
			Date:      date,
			StartTime: timeutil.At(date, startH, startM, loc),
			EndTime:   timeutil.At(date, endH, endM, loc),
			Location:  location,
			Type:      kind,
			ColorHex:  color,
		}
		if code != "" {
			if id := courseByCode(courses, code).ID; id != "" {
				ev.CourseID = &id
			}
		}
		return ev
	}

	return []models.CalendarEvent{
		build("HCI Lecture", 0, 10, 0, 12, 0, "Room 301", models.EventLecture, "9B59B6", "CSC 3104"),
		build("Web Dev Lab", 0, 14, 0, 16, 0, "Computer Lab A", models.EventLab, "E67E22", "CSC 2201"),
		build("Database Quiz", 1, 9, 0, 10, 0, "Hall B", models.EventExam, "E74C3C", "CSC 2105"),
		build("JavaScript Assignment Due", 1, 23, 59, 23, 59, "Online", models.EventAssignment, "3498DB", "CSC 2201"),
		build("Tech Club Meeting", 2, 16, 0, 17, 30, "Room 301", models.EventClub, "1ABC9C", ""),
		build("AR Project Due", 3, 23, 59, 23, 59, "Online", models.EventAssignment, "9B59B6", "CSC 3104"),
		build("Database Final Exam", 5, 9, 0, 11, 0, "Hall A", models.EventExam, "E74C3C", "CSC 2105"),
		build("HCI Final Exam", 7, 14, 0, 16, 0, "Hall B", models.EventExam, "9B59B6", "CSC 3104"),
	}
}

func defaultRewards() []models.Reward {
	build := func(name, desc string, cost int, category models.RewardCategory, icon, color string) models.Reward {
		return models.Reward{
			ID:          uuid.NewString(),
			Name:        name,
			Description: desc,
			PointsCost:  cost,
			Category:    category,
			Icon:        icon,
			ColorHex:    color,
			IsAvailable: true,
		}
	}
	return []models.Reward{
		build("Printing Credits", "50 pages of free printing", 100, models.RewardUtility, "printer.fill", "3498DB"),
		build("Cafeteria Voucher", "RM5 off at campus cafeteria", 150, models.RewardFood, "cup.and.saucer.fill", "E67E22"),
		build("Stationery Pack", "Notebook + pens set", 200, models.RewardMerchandise, "pencil.and.outline", "9B59B6"),
		build("Club Event Ticket", "Free entry to any club event", 250, models.RewardEvents, "ticket.fill", "1ABC9C"),
		build("GrabFood Voucher", "RM10 GrabFood voucher", 300, models.RewardFood, "bag.fill", "27AE60"),
		build("Premium Stickers", "Exclusive Spark sticker pack", 75, models.RewardMerchandise, "star.circle.fill", "F1C40F"),
	}
}
