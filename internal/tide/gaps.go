package tide

import (
	"github.com/bbernstein/tidegauge/internal/models"
)

// run is a half-open [start, stop) range of row positions.
type run struct {
	start, stop int
}

func (r run) length() int {
	return r.stop - r.start
}

// LongestContiguous returns the longest stretch of consecutive rows whose sea
// level is present. Runs are measured by position, not by elapsed time, and
// the earliest run wins a tie. An all-missing table yields an empty table.
func LongestContiguous(t models.Table) models.Table {
	best, ok := longestRun(presentRuns(t))
	if !ok {
		return models.EmptyTable()
	}
	return t.Slice(best.start, best.stop)
}

// presentRuns lists the maximal runs of present readings. The missing mask is
// padded with a missing sentinel at both ends so every run has two edges.
func presentRuns(t models.Table) []run {
	n := t.Len()
	missing := make([]bool, n+2)
	missing[0], missing[n+1] = true, true
	for i := 0; i < n; i++ {
		missing[i+1] = t.Row(i).SeaLevel.IsMissing()
	}

	var runs []run
	start := -1
	for i := 1; i < len(missing); i++ {
		if missing[i] == missing[i-1] {
			continue
		}
		if !missing[i] {
			start = i - 1
		} else {
			runs = append(runs, run{start: start, stop: i - 1})
		}
	}
	return runs
}

// missingRuns lists the maximal runs of missing readings.
func missingRuns(t models.Table) []run {
	var runs []run
	start := -1
	for i := 0; i < t.Len(); i++ {
		if t.Row(i).SeaLevel.IsMissing() {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, run{start: start, stop: i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, run{start: start, stop: t.Len()})
	}
	return runs
}

func longestRun(runs []run) (run, bool) {
	if len(runs) == 0 {
		return run{}, false
	}
	best := runs[0]
	for _, r := range runs[1:] {
		if r.length() > best.length() {
			best = r
		}
	}
	return best, true
}

// SummarizeGaps describes the missing readings of a table.
func SummarizeGaps(t models.Table) models.GapSummary {
	summary := models.GapSummary{
		TotalRows:   t.Len(),
		MissingRows: t.Len() - t.PresentCount(),
	}

	gaps := missingRuns(t)
	summary.MissingRuns = len(gaps)
	if longest, ok := longestRun(gaps); ok {
		summary.LongestMissing = spanOf(t, longest)
	}
	if longest, ok := longestRun(presentRuns(t)); ok {
		summary.LongestPresent = spanOf(t, longest)
	}
	return summary
}

func spanOf(t models.Table, r run) *models.Span {
	return &models.Span{
		Start: t.Row(r.start).Time,
		End:   t.Row(r.stop - 1).Time,
		Rows:  r.length(),
	}
}
