package models

// MemberSet is an ordered set of user ids. Each id appears at most once.
type MemberSet []string

// Contains reports whether id is in the set.
func (s MemberSet) Contains(id string) bool {
	for _, existing := range s {
		if existing == id {
			return true
		}
	}
	return false
}

// Add inserts id unless already present and reports whether it was inserted.
func (s *MemberSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Len returns the number of members.
func (s MemberSet) Len() int { return len(s) }

// Clone returns an independent copy.
func (s MemberSet) Clone() MemberSet {
	if s == nil {
		return nil
	}
	out := make(MemberSet, len(s))
	copy(out, s)
	return out
}
