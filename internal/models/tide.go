package models

import (
	"time"
)

// Row is one gauge reading. Time is UTC; a row whose timestamp could not be
// parsed keeps the zero Time and missing readings.
type Row struct {
	Cycle    string    `json:"cycle"`
	Time     time.Time `json:"time"`
	SeaLevel Level     `json:"seaLevel"`
	Residual Level     `json:"residual"`
	Flag     string    `json:"flag,omitempty"`
}

// HasTime reports whether the row carries a parsed timestamp.
func (r Row) HasTime() bool {
	return !r.Time.IsZero()
}

// Table is an immutable, time-indexed sequence of rows. Every constructor and
// accessor copies, so callers can never alias another table's rows.
type Table struct {
	rows []Row
}

func NewTable(rows []Row) Table {
	cp := make([]Row, len(rows))
	copy(cp, rows)
	return Table{rows: cp}
}

// EmptyTable is the identity element for combining tables.
func EmptyTable() Table {
	return NewTable(nil)
}

func (t Table) Len() int {
	return len(t.rows)
}

func (t Table) IsEmpty() bool {
	return len(t.rows) == 0
}

func (t Table) Row(i int) Row {
	return t.rows[i]
}

// Rows returns a copy of the table's rows.
func (t Table) Rows() []Row {
	cp := make([]Row, len(t.rows))
	copy(cp, t.rows)
	return cp
}

// Slice returns rows [i, j) as a new table.
func (t Table) Slice(i, j int) Table {
	return NewTable(t.rows[i:j])
}

func (t Table) Head(n int) Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Slice(0, n)
}

func (t Table) Tail(n int) Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	return t.Slice(len(t.rows)-n, len(t.rows))
}

// Span returns the times of the first and last rows. ok is false for an empty table.
func (t Table) Span() (start, end time.Time, ok bool) {
	if len(t.rows) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return t.rows[0].Time, t.rows[len(t.rows)-1].Time, true
}

// PresentCount returns the number of rows with a sea level reading.
func (t Table) PresentCount() int {
	n := 0
	for _, r := range t.rows {
		if !r.SeaLevel.IsMissing() {
			n++
		}
	}
	return n
}

// IsSorted reports whether rows are in ascending time order.
func (t Table) IsSorted() bool {
	for i := 1; i < len(t.rows); i++ {
		if t.rows[i].Time.Before(t.rows[i-1].Time) {
			return false
		}
	}
	return true
}
