// Package explorer implements search, type filtering and date sorting over a
// flat list of browsable items, plus the per-session state that drives it.
package explorer

import (
	"fmt"
	"strings"
)

// AllTypes is the type filter value that lets every item through.
const AllTypes = "all"

// Item is the collection-agnostic shape the explorer works on. Empty
// Summary, Date and Type mean the field is absent; a nil Tags slice means
// no tags were given, which is distinct from an empty list.
type Item struct {
	ID           string   `json:"id"`
	Href         string   `json:"href"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary,omitempty"`
	Date         string   `json:"date,omitempty"`
	Type         string   `json:"type,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Confidential bool     `json:"confidential,omitempty"`
}

// SortMode orders results by date.
type SortMode string

const (
	Newest SortMode = "newest"
	Oldest SortMode = "oldest"
)

// ParseSortMode accepts "newest" or "oldest" in any case.
func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case Newest:
		return Newest, nil
	case Oldest:
		return Oldest, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want newest or oldest)", s)
}

// Flip returns the opposite order.
func (m SortMode) Flip() SortMode {
	if m == Oldest {
		return Newest
	}
	return Oldest
}

func (m SortMode) String() string { return string(m) }
