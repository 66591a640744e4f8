package explorer

import (
	"sort"
	"time"
)

// Query is the input to one pipeline run.
type Query struct {
	Text string
	Type string
	Sort SortMode
}

// Result is the visible subset of items and its size.
type Result struct {
	Items []Item `json:"items"`
	Count int    `json:"count"`
}

// Apply runs search, then the type filter, then the date sort. It never
// modifies items.
func Apply(items []Item, q Query) Result {
	out := Search(items, q.Text)
	out = FilterType(out, q.Type)
	out = SortByDate(out, q.Sort)
	return Result{Items: out, Count: len(out)}
}

// FilterType keeps items whose Type equals typ exactly. AllTypes and the
// empty string keep everything.
func FilterType(items []Item, typ string) []Item {
	if typ == "" || typ == AllTypes {
		return items
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Type == typ {
			out = append(out, it)
		}
	}
	return out
}

// SortByDate returns a copy of items ordered by date. Missing or unparsable
// dates count as the earliest instant. Equal dates keep input order.
func SortByDate(items []Item, mode SortMode) []Item {
	type dated struct {
		item Item
		at   time.Time
	}
	list := make([]dated, len(items))
	for i, it := range items {
		list[i] = dated{item: it, at: ParseDate(it.Date)}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if mode == Oldest {
			return list[i].at.Before(list[j].at)
		}
		return list[i].at.After(list[j].at)
	})

	out := make([]Item, len(list))
	for i, d := range list {
		out[i] = d.item
	}
	return out
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano}

// ParseDate parses a front matter date. It returns the zero time, which
// sorts before every real date, when s is empty or not a known layout.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
