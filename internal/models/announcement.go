package models

import (
	"strings"
	"time"
)

// AnnouncementCategory classifies an announcement.
type AnnouncementCategory string

const (
	CategoryAssignment        AnnouncementCategory = "Assignment"
	CategoryDeadline          AnnouncementCategory = "Deadline"
	CategoryExam              AnnouncementCategory = "Exam"
	CategoryClassCancellation AnnouncementCategory = "Class Cancellation"
	CategoryClassReplacement  AnnouncementCategory = "Class Replacement"
	CategoryNewRevision       AnnouncementCategory = "New Revision"
	CategoryClubActivity      AnnouncementCategory = "Club Activity"
	CategoryOfficialNotice    AnnouncementCategory = "Official Notice"
	CategoryGeneral           AnnouncementCategory = "General"
)

// AnnouncementPriority orders announcements.
type AnnouncementPriority string

const (
	PriorityUrgent AnnouncementPriority = "Urgent"
	PriorityHigh   AnnouncementPriority = "High"
	PriorityNormal AnnouncementPriority = "Normal"
	PriorityLow    AnnouncementPriority = "Low"
)

// SortValue ranks priorities, most pressing first.
func (p AnnouncementPriority) SortValue() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityNormal:
		return 2
	default:
		return 3
	}
}

// AttachmentType is the kind of file attached to a post.
type AttachmentType string

const (
	AttachmentPDF   AttachmentType = "pdf"
	AttachmentDoc   AttachmentType = "doc"
	AttachmentPPT   AttachmentType = "ppt"
	AttachmentImage AttachmentType = "image"
	AttachmentVideo AttachmentType = "video"
	AttachmentLink  AttachmentType = "link"
	AttachmentOther AttachmentType = "other"
)

// Attachment is file metadata; content is never stored here.
type Attachment struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       AttachmentType `json:"type"`
	URL        string         `json:"url"`
	Size       int64          `json:"size"`
	Version    int            `json:"version"`
	UploadedAt time.Time      `json:"uploaded_at"`
}

// ChangelogEntry records one edit of an announcement.
type ChangelogEntry struct {
	ID        string    `json:"id"`
	Version   int       `json:"version"`
	Changes   string    `json:"changes"`
	ChangedAt time.Time `json:"changed_at"`
	ChangedBy string    `json:"changed_by"`
}

// Announcement is a post from a lecturer, club or the office.
type Announcement struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Content        string               `json:"content"`
	Category       AnnouncementCategory `json:"category"`
	Priority       AnnouncementPriority `json:"priority"`
	CourseID       *string              `json:"course_id,omitempty"`
	ClubID         *string              `json:"club_id,omitempty"`
	AuthorID       string               `json:"author_id"`
	AuthorName     string               `json:"author_name"`
	AuthorRole     UserRole             `json:"author_role"`
	Attachments    []Attachment         `json:"attachments"`
	Version        int                  `json:"version"`
	Changelog      []ChangelogEntry     `json:"changelog"`
	ViewedBy       MemberSet            `json:"viewed_by"`
	AcknowledgedBy MemberSet            `json:"acknowledged_by"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty"`
	IsPinned       bool                 `json:"is_pinned"`
}

// IsUpdated is true once the announcement has been edited.
func (a Announcement) IsUpdated() bool { return a.Version > 1 }

// ViewCount is the number of distinct viewers.
func (a Announcement) ViewCount() int { return a.ViewedBy.Len() }

// AcknowledgeCount is the number of distinct acknowledgements.
func (a Announcement) AcknowledgeCount() int { return a.AcknowledgedBy.Len() }

// Matches reports whether the title or content contains term, case-insensitively.
func (a Announcement) Matches(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(a.Title), term) || strings.Contains(strings.ToLower(a.Content), term)
}

// Clone returns a deep copy.
func (a Announcement) Clone() Announcement {
	out := a
	out.Attachments = append([]Attachment(nil), a.Attachments...)
	out.Changelog = append([]ChangelogEntry(nil), a.Changelog...)
	out.ViewedBy = a.ViewedBy.Clone()
	out.AcknowledgedBy = a.AcknowledgedBy.Clone()
	return out
}

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	Category   AnnouncementCategory
	Priority   AnnouncementPriority
	UnreadOnly bool
	PinnedOnly bool
	Search     string
}

// EditAnnouncementInput carries an edit. Nil fields are left untouched.
type EditAnnouncementInput struct {
	Title     *string
	Content   *string
	Priority  *AnnouncementPriority
	IsPinned  *bool
	Changes   string
	ChangedBy string
}
