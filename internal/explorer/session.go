package explorer

import (
	"fmt"
	"sort"
	"strings"
)

// MaxQueryLen caps a free-text query taken from outside the process.
const MaxQueryLen = 1000

// Session holds one browser's explorer state over a fixed item list. It is
// not safe for concurrent use; each session belongs to one event loop.
type Session struct {
	items       []Item
	defaultSort SortMode

	query     string
	typ       string
	sort      SortMode
	panelOpen bool

	result Result
}

// NewSession starts a session with an empty query, no type filter, the
// given default sort and a closed panel.
func NewSession(items []Item, defaultSort SortMode) *Session {
	if defaultSort != Oldest {
		defaultSort = Newest
	}
	s := &Session{
		items:       items,
		defaultSort: defaultSort,
		typ:         AllTypes,
		sort:        defaultSort,
	}
	s.recompute()
	return s
}

func (s *Session) recompute() {
	s.result = Apply(s.items, Query{Text: s.query, Type: s.typ, Sort: s.sort})
}

// SetQuery replaces the search text.
func (s *Session) SetQuery(q string) {
	s.query = q
	s.recompute()
}

// SetType selects a type filter. AllTypes clears it.
func (s *Session) SetType(t string) {
	if t == "" {
		t = AllTypes
	}
	s.typ = t
	s.recompute()
}

// SetSort changes the sort order.
func (s *Session) SetSort(m SortMode) {
	if m != Oldest {
		m = Newest
	}
	s.sort = m
	s.recompute()
}

// Clear resets query, type and sort to their defaults. The panel keeps
// whatever state it had.
func (s *Session) Clear() {
	s.query = ""
	s.typ = AllTypes
	s.sort = s.defaultSort
	s.recompute()
}

// TogglePanel opens a closed panel and closes an open one.
func (s *Session) TogglePanel() { s.panelOpen = !s.panelOpen }

// ClosePanel closes the panel.
func (s *Session) ClosePanel() { s.panelOpen = false }

// ApplyPanel commits the panel's selections, which are already live, and
// closes it.
func (s *Session) ApplyPanel() { s.panelOpen = false }

// PointerDown reports a pointer press. A press outside the panel bounds
// closes an open panel; presses inside are ignored.
func (s *Session) PointerDown(insidePanel bool) {
	if s.panelOpen && !insidePanel {
		s.panelOpen = false
	}
}

func (s *Session) Query() string { return s.query }
func (s *Session) Type() string { return s.typ }
func (s *Session) Sort() SortMode { return s.sort }
func (s *Session) DefaultSort() SortMode { return s.defaultSort }
func (s *Session) PanelOpen() bool { return s.panelOpen }
func (s *Session) Items() []Item { return s.items }

// Result returns the visible items for the current state.
func (s *Session) Result() Result { return s.result }

// TypeOptions returns AllTypes followed by the distinct non-empty item types
// in sorted order.
func (s *Session) TypeOptions() []string { return TypeOptions(s.items) }

// HasActiveFilters reports whether anything narrows or reorders the list
// compared to a fresh session.
func (s *Session) HasActiveFilters() bool {
	return strings.TrimSpace(s.query) != "" || s.typ != AllTypes || s.sort != s.defaultSort
}

// Summary is the result count line shown above the list.
func (s *Session) Summary() string { return Summary(s.result.Count) }

// TypeOptions returns AllTypes followed by the sorted distinct non-empty
// types found in items.
func TypeOptions(items []Item) []string {
	seen := make(map[string]bool)
	var types []string
	for _, it := range items {
		if it.Type == "" || seen[it.Type] {
			continue
		}
		seen[it.Type] = true
		types = append(types, it.Type)
	}
	sort.Strings(types)
	return append([]string{AllTypes}, types...)
}

// Summary formats a result count, e.g. "Showing 1 item" or "Showing 3 items".
func Summary(n int) string {
	if n == 1 {
		return "Showing 1 item"
	}
	return fmt.Sprintf("Showing %d items", n)
}
