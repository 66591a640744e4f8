package explorer

import (
	"math"
	"sort"
	"strings"
)

// Threshold is the largest edits-per-query-rune ratio still counted as a
// match. 0 demands an exact substring, 1 accepts anything.
const Threshold = 0.35

// Field weights. Title dominates; type barely moves the ranking.
const (
	titleWeight   = 0.55
	summaryWeight = 0.30
	tagsWeight    = 0.10
	typeWeight    = 0.05
)

// epsilon stands in for a perfect field score so the product stays ordered.
const epsilon = 0.001

// Search keeps the items that match query in at least one field and ranks
// them best first. Items with equal scores keep their input order. A blank
// query returns the input unchanged.
func Search(items []Item, query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	pattern := []rune(q)

	type scored struct {
		item  Item
		score float64
	}
	var hits []scored
	for _, it := range items {
		if s, ok := scoreItem(it, pattern); ok {
			hits = append(hits, scored{item: it, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]Item, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// Matches reports whether query matches at least one searchable field of it.
func Matches(it Item, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	_, ok := scoreItem(it, []rune(q))
	return ok
}

// scoreItem combines the field scores of every matching field into one
// value where lower is better.
func scoreItem(it Item, pattern []rune) (float64, bool) {
	total := 1.0
	matched := false

	add := func(score float64, weight float64) {
		if score == 0 {
			score = epsilon
		}
		total *= math.Pow(score, weight)
		matched = true
	}

	if s, ok := fieldScore(pattern, it.Title); ok {
		add(s, titleWeight)
	}
	if s, ok := fieldScore(pattern, it.Summary); ok {
		add(s, summaryWeight)
	}
	best, found := 1.0, false
	for _, tag := range it.Tags {
		if s, ok := fieldScore(pattern, tag); ok && s <= best {
			best, found = s, true
		}
	}
	if found {
		add(best, tagsWeight)
	}
	if s, ok := fieldScore(pattern, it.Type); ok {
		add(s, typeWeight)
	}
	return total, matched
}

// fieldScore returns edits/len(pattern) for the closest substring of text,
// and whether that is within Threshold. Empty fields never match.
func fieldScore(pattern []rune, text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	edits := substringDistance(pattern, []rune(strings.ToLower(text)))
	score := float64(edits) / float64(len(pattern))
	return score, score <= Threshold
}

// substringDistance is the smallest Levenshtein distance between pattern
// and any substring of text. The first DP row is all zeros so a match may
// start anywhere in text, and the answer is the minimum of the last row so
// it may end anywhere.
func substringDistance(pattern, text []rune) int {
	m := len(pattern)
	if m == 0 {
		return 0
	}
	prev := make([]int, len(text)+1)
	cur := make([]int, len(text)+1)

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= len(text); j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j-1]+cost, prev[j]+1, cur[j-1]+1)
		}
		prev, cur = cur, prev
	}

	best := prev[0]
	for _, d := range prev[1:] {
		if d < best {
			best = d
		}
	}
	return best
}
