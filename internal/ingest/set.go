package ingest

// Set is a string set. Membership, not order, is meaningful.
type Set map[string]struct{}

// NewSet builds a Set from the given members.
func NewSet(members ...string) Set {
	s := make(Set, len(members))
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add inserts a member.
func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Contains reports whether v is a member.
func (s Set) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Equal reports whether both sets have exactly the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if !other.Contains(v) {
			return false
		}
	}
	return true
}
