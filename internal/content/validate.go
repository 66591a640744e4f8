package content

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the only accepted front matter date format. Lexicographic
// order on it matches chronological order, which LoadAll relies on.
const DateLayout = "2006-01-02"

// Validator checks a decoded front matter record. It returns nil when the
// record is usable, or an error (usually from a Check) describing what is
// wrong. The store wraps the result in a ValidationError.
type Validator[F any] func(fm *F) error

// FieldError is the result of a failed Check.
type FieldError struct {
	Missing []string
	Invalid []string
}

func (e *FieldError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "needs "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "bad "+strings.Join(e.Invalid, ", "))
	}
	return strings.Join(parts, "; ")
}

// Check accumulates field problems for one record.
//
//	var c content.Check
//	c.Require("title", fm.Title != "")
//	c.Date("date", fm.Date)
//	return c.Err()
type Check struct {
	missing []string
	invalid []string
}

// Require records name as missing unless present is true.
func (c *Check) Require(name string, present bool) {
	if !present {
		c.missing = append(c.missing, name)
	}
}

// Date records name as invalid when value is non-empty and not a
// zero-padded YYYY-MM-DD date. Absence is left to Require.
func (c *Check) Date(name, value string) {
	if value == "" {
		return
	}
	if _, err := time.Parse(DateLayout, value); err != nil || len(value) != len(DateLayout) {
		c.invalid = append(c.invalid, fmt.Sprintf("%s (%q is not YYYY-MM-DD)", name, value))
	}
}

// Err returns nil when nothing was recorded, otherwise a *FieldError.
func (c *Check) Err() error {
	if len(c.missing) == 0 && len(c.invalid) == 0 {
		return nil
	}
	return &FieldError{Missing: c.missing, Invalid: c.invalid}
}
