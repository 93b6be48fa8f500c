package api

import (
	"fmt"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

const dateOnlyLayout = "2006-01-02"

type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q", e.Value)
}

type InvalidYearError struct {
	Year int
}

func (e InvalidYearError) Error() string {
	return fmt.Sprintf("invalid year %d", e.Year)
}

// ParseDate reads a date or date-time as UTC. A date-only value means the
// start of that day, or its last instant when endOfDay is set.
func ParseDate(value string, endOfDay bool) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(dateOnlyLayout, value, time.UTC); err == nil {
		if endOfDay {
			return t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
		}
		return t, nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, InvalidDateError{Value: value}
}

// ParseOptionalDate is ParseDate for optional parameters; empty yields nil.
func ParseOptionalDate(value string, endOfDay bool) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(value, endOfDay)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseConstituents splits a comma separated list, upper-casing names and
// dropping empty entries.
func ParseConstituents(value string) []string {
	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.ToUpper(strings.TrimSpace(part))
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func ValidateYear(year int) error {
	if year < 1 || year > 9999 {
		return InvalidYearError{Year: year}
	}
	return nil
}
