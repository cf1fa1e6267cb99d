package task

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"taskodo/internal/datekey"
	"taskodo/internal/model"
)

const (
	MinTitleLen = 2
	MaxDescLen  = 250
)

// ValidationError lists every problem found on a task. It matches
// ErrInvalid under errors.Is.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return ErrInvalid.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Validate applies the task form rules.
func Validate(t model.Task) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if utf8.RuneCountInString(strings.TrimSpace(t.Title)) < MinTitleLen {
		add("title must be at least %d characters", MinTitleLen)
	}
	if utf8.RuneCountInString(t.Desc) > MaxDescLen {
		add("description is too long (max %d)", MaxDescLen)
	}
	if !t.Line.Valid() {
		add("line must be 1, 2 or 3")
	}
	if !t.Effort.Valid() {
		add("effort must be between 1 and 5")
	}
	if strings.TrimSpace(t.Color) == "" {
		add("color is required")
	}
	for _, tag := range t.Tags {
		if tag.ID == "" || tag.Label == "" {
			add("tags need an id and a label")
			break
		}
	}

	switch r := t.Recurrence.(type) {
	case model.Weekly:
		if len(r.Days) == 0 {
			add("pick at least one day")
		}
		for _, d := range r.Days {
			if !d.Valid() {
				add("unknown weekday %q", d)
			}
		}
	case model.Ranged:
		switch {
		case !datekey.Valid(r.StartKey) || !datekey.Valid(r.EndKey):
			add("pick a date range")
		case r.StartKey > r.EndKey:
			add("range start %s is after its end %s", r.StartKey, r.EndKey)
		}
	default:
		add("recurrence is required")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
