package rhi

// Set is an ordered container of counted resource
// references. Adding a handle acquires a reference; Free
// drops every reference at once. The zero value is an
// empty set ready for use.
type Set[H Handle] struct {
	hs []H
}

// Add acquires a reference to h and appends it.
// A handle may appear more than once; each occurrence
// holds its own reference.
func (s *Set[H]) Add(h H) {
	h.ref()
	s.hs = append(s.hs, h)
}

// Len returns the number of entries.
func (s *Set[H]) Len() int { return len(s.hs) }

// At returns the i-th entry.
func (s *Set[H]) At(i int) H { return s.hs[i] }

// Clone returns a set holding its own reference to every
// entry of s, in the same order.
func (s *Set[H]) Clone() Set[H] {
	var c Set[H]
	c.hs = make([]H, 0, len(s.hs))
	for _, h := range s.hs {
		c.Add(h)
	}
	return c
}

// Free drops the reference held by every entry and empties
// the set. The set may be reused afterwards.
func (s *Set[H]) Free() {
	for _, h := range s.hs {
		h.Release()
	}
	s.hs = nil
}
