package content

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching. The concrete error types below
// carry the collection and slug that failed.
var (
	ErrDirNotFound = errors.New("content directory not found")
	ErrNotFound    = errors.New("content item not found")
	ErrValidation  = errors.New("invalid front matter")
)

// DirNotFoundError reports that none of the candidate directories for a
// collection exist.
type DirNotFoundError struct {
	Collection string
	Tried      []string
}

func (e *DirNotFoundError) Error() string {
	return fmt.Sprintf("content directory not found for %q. Tried:\n- %s",
		e.Collection, strings.Join(e.Tried, "\n- "))
}

func (e *DirNotFoundError) Is(target error) bool { return target == ErrDirNotFound }

// NotFoundError reports a slug with no backing file.
type NotFoundError struct {
	Collection string
	Slug       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s item not found: %s", e.Collection, e.Slug)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports front matter that failed a collection validator.
// Missing lists absent required fields, Invalid lists present fields whose
// value has the wrong shape.
type ValidationError struct {
	Collection string
	Slug       string
	Missing    []string
	Invalid    []string
	Err        error
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required field(s): "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid field(s): "+strings.Join(e.Invalid, ", "))
	}
	if len(parts) == 0 && e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return fmt.Sprintf("invalid front matter in %s/%s: %s", e.Collection, e.Slug, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err means the requested item does not exist.
// A missing collection directory is reported as ErrDirNotFound instead.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
