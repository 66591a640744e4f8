package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var typeLabels = map[string]string{
	"cyber":      "Cybersecurity",
	"ai":         "AI",
	"AI":         "AI",
	"automation": "Automation",
	"blog":       "Blog",
	"photo":      "Photography",
	"coding":     "Software",
	"software":   "Software",
}

// TypeLabel turns a short type key from front matter into a display label.
// Unknown keys are title-cased with dashes and underscores read as spaces,
// so "case-study" becomes "Case Study". An empty key reads as "Software".
func TypeLabel(t string) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	t = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(t))
	if t == "" {
		return "Software"
	}
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(t)
}
