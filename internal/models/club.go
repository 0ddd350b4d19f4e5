package models

import "time"

// ClubCategory groups clubs on the clubs screen.
type ClubCategory string

const (
	ClubAcademic   ClubCategory = "Academic"
	ClubSports     ClubCategory = "Sports"
	ClubArts       ClubCategory = "Arts & Culture"
	ClubTechnology ClubCategory = "Technology"
	ClubCommunity  ClubCategory = "Community Service"
	ClubOther      ClubCategory = "Other"
)

// ClubEvent is a club activity students can RSVP to.
type ClubEvent struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date"`
	EndDate         *time.Time `json:"end_date,omitempty"`
	Location        string     `json:"location"`
	MaxParticipants *int       `json:"max_participants,omitempty"`
	RSVPList        MemberSet  `json:"rsvp_list"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RSVPCount is the number of distinct RSVPs.
func (e ClubEvent) RSVPCount() int { return e.RSVPList.Len() }

// SpotsLeft is nil for events without a participant cap.
func (e ClubEvent) SpotsLeft() *int {
	if e.MaxParticipants == nil {
		return nil
	}
	left := *e.MaxParticipants - e.RSVPList.Len()
	if left < 0 {
		left = 0
	}
	return &left
}

// Clone returns a deep copy.
func (e ClubEvent) Clone() ClubEvent {
	out := e
	out.RSVPList = e.RSVPList.Clone()
	return out
}

// Club is a student society.
type Club struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	Category         ClubCategory `json:"category"`
	CommitteeMembers []string     `json:"committee_members"`
	Members          []string     `json:"members"`
	Events           []ClubEvent  `json:"events"`
	ColorHex         string       `json:"color_hex"`
	IsActive         bool         `json:"is_active"`
	CreatedAt        time.Time    `json:"created_at"`
}

// Clone returns a deep copy.
func (c Club) Clone() Club {
	out := c
	out.CommitteeMembers = cloneStrings(c.CommitteeMembers)
	out.Members = cloneStrings(c.Members)
	if c.Events != nil {
		out.Events = make([]ClubEvent, len(c.Events))
		for i, ev := range c.Events {
			out.Events[i] = ev.Clone()
		}
	}
	return out
}
