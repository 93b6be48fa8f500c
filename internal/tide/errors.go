package tide

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoConstituents is returned when a harmonic analysis is asked for no constituents.
var ErrNoConstituents = errors.New("no tidal constituents requested")

// ParseError represents a station file that could not be read or has the wrong layout
type ParseError struct {
	File    string
	Line    int // 1-based, 0 when the failure is not tied to a line
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	where := e.File
	if e.Line > 0 {
		where = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("parse error: %s: %s: %v", where, e.Message, e.Err)
	}
	return fmt.Sprintf("parse error: %s: %s", where, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new parse error
func NewParseError(file string, line int, message string, err error) *ParseError {
	return &ParseError{
		File:    file,
		Line:    line,
		Message: message,
		Err:     err,
	}
}

// EmptySegmentError is returned when a requested range has no sea level readings
type EmptySegmentError struct {
	Start time.Time
	End   time.Time
	Rows  int
}

func (e *EmptySegmentError) Error() string {
	return fmt.Sprintf("no sea level readings between %s and %s (%d rows in range)",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.Rows)
}

func NewEmptySegmentError(start, end time.Time, rows int) *EmptySegmentError {
	return &EmptySegmentError{Start: start, End: end, Rows: rows}
}

// InsufficientDataError is returned when a regression has too few usable points
type InsufficientDataError struct {
	Need    int
	Have    int
	Message string
}

func (e *InsufficientDataError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("insufficient data: %s (need %d, have %d)", e.Message, e.Need, e.Have)
	}
	return fmt.Sprintf("insufficient data: need %d readings, have %d", e.Need, e.Have)
}

func NewInsufficientDataError(need, have int, message string) *InsufficientDataError {
	return &InsufficientDataError{Need: need, Have: have, Message: message}
}

// UnknownConstituentError is returned for a constituent missing from the catalogue
type UnknownConstituentError struct {
	Name string
}

func (e *UnknownConstituentError) Error() string {
	return fmt.Sprintf("unknown tidal constituent %q", e.Name)
}

func NewUnknownConstituentError(name string) *UnknownConstituentError {
	return &UnknownConstituentError{Name: name}
}

// DuplicateConstituentError is returned when a constituent is requested twice,
// which would make the harmonic system singular.
type DuplicateConstituentError struct {
	Name string
}

func (e *DuplicateConstituentError) Error() string {
	return fmt.Sprintf("tidal constituent %q requested more than once", e.Name)
}
