package browser

import "github.com/HaiFongPan/fsb-cli/internal/api"

// Selection tracks selected identity keys in the order they were first seen
type Selection struct {
	order []string
	flags map[string]bool
}

// NewSelection returns an empty selection
func NewSelection() *Selection {
	return &Selection{flags: make(map[string]bool)}
}

// Toggle flips key. Without additive every other key is dropped first.
func (s *Selection) Toggle(key string, additive bool) {
	prev := s.flags[key]
	if !additive {
		s.Clear()
	}
	s.set(key, !prev)
}

// Set replaces the selection with keys
func (s *Selection) Set(keys ...string) {
	s.Clear()
	for _, k := range keys {
		s.set(k, true)
	}
}

func (s *Selection) set(key string, v bool) {
	if _, seen := s.flags[key]; !seen {
		s.order = append(s.order, key)
	}
	s.flags[key] = v
}

// Clear drops every key, stale ones included
func (s *Selection) Clear() {
	s.order = nil
	s.flags = make(map[string]bool)
}

// Selected reports whether key is flagged
func (s *Selection) Selected(key string) bool {
	return s.flags[key]
}

// SelectedKey returns the first flagged key, or ""
func (s *Selection) SelectedKey() string {
	for _, k := range s.order {
		if s.flags[k] {
			return k
		}
	}
	return ""
}

// Keys returns every flagged key in order
func (s *Selection) Keys() []string {
	var keys []string
	for _, k := range s.order {
		if s.flags[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// ResolveEntry returns the entry of the first flagged key present in l
func (s *Selection) ResolveEntry(l Listing) (api.Entry, bool) {
	for _, k := range s.order {
		if !s.flags[k] {
			continue
		}
		if e, ok := l.Find(k); ok {
			return e, true
		}
	}
	return api.Entry{}, false
}
