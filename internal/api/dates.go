package api

import (
	"time"

	"github.com/Kerhoff/MessBoT/internal/apperr"
)

// parseDate accepts YYYY-MM-DD, read as a calendar day in loc, or RFC 3339
func parseDate(field, value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.Validation("Invalid date",
		apperr.FieldError{Field: field, Message: "must be a date in YYYY-MM-DD or RFC 3339 format"})
}

// parseOptionalDate returns nil for an empty value
func parseOptionalDate(field, value string, loc *time.Location) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDate(field, value, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
