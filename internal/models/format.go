package models

import (
	"fmt"
	"io"
	"text/tabwriter"
)

const displayTimeLayout = "2006-01-02 15:04:05"

// Format writes the table as aligned text. When maxRows > 0 and the table is
// longer, only the first and last maxRows/2 rows are shown.
func (t Table) Format(w io.Writer, maxRows int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "datetime\tCycle\tSea Level\tResidual\tFlag\t"); err != nil {
		return err
	}

	truncated := maxRows > 0 && len(t.rows) > maxRows
	if !truncated {
		for _, r := range t.rows {
			if err := writeRow(tw, r); err != nil {
				return err
			}
		}
	} else {
		half := maxRows / 2
		for _, r := range t.Head(half).Rows() {
			if err := writeRow(tw, r); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(tw, "...\t...\t...\t...\t...\t"); err != nil {
			return err
		}
		for _, r := range t.Tail(half).Rows() {
			if err := writeRow(tw, r); err != nil {
				return err
			}
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	if truncated || len(t.rows) == 0 {
		_, err := fmt.Fprintf(w, "\n[%d rows x 4 columns]\n", len(t.rows))
		return err
	}
	return nil
}

func writeRow(w io.Writer, r Row) error {
	ts := "NaT"
	if r.HasTime() {
		ts = r.Time.Format(displayTimeLayout)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", ts, r.Cycle, r.SeaLevel, r.Residual, r.Flag)
	return err
}
