package ir

// LoadedSet records which identities have been executed in one sandbox
// session. It is owned by exactly one execution context and is not safe
// for concurrent use.
type LoadedSet struct {
	ids   map[string]struct{}
	order []string
}

// NewLoadedSet creates an empty set.
func NewLoadedSet() *LoadedSet {
	return &LoadedSet{ids: make(map[string]struct{})}
}

// Add registers id. It returns false when id was already present.
func (s *LoadedSet) Add(id string) bool {
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Has reports whether id was registered.
func (s *LoadedSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of registered identities.
func (s *LoadedSet) Len() int {
	return len(s.order)
}

// Order returns identities in registration order.
func (s *LoadedSet) Order() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
