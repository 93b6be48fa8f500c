package tide

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/rs/zerolog/log"
)

// SeaLevelColumn is the zero-based column that always holds the sea level,
// whatever its header text says. Station headers name it inconsistently.
const SeaLevelColumn = 3

const (
	defaultHeaderLines = 9
	defaultUnitsLines  = 1
	maxLineLength      = 1024 * 1024
)

// Timestamp layouts accepted for the combined "date time" cell pair.
var timeLayouts = []string{
	"2006/01/02 15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
}

// ParseOptions describes the fixed layout of a station file: HeaderLines
// descriptive lines, one column header line, then UnitsLines lines that are
// skipped before the readings start.
type ParseOptions struct {
	HeaderLines int
	UnitsLines  int
}

func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		HeaderLines: defaultHeaderLines,
		UnitsLines:  defaultUnitsLines,
	}
}

// headerLength is the number of lines before the first reading.
func (o ParseOptions) headerLength() int {
	return o.HeaderLines + 1 + o.UnitsLines
}

type columnLayout struct {
	count    int
	cycle    int
	date     int
	time     int
	seaLevel int
	residual int
}

// ReadTidalTable reads one station file using the default layout.
func ReadTidalTable(path string) (models.Table, error) {
	_, table, err := ReadStationFile(path, DefaultParseOptions())
	return table, err
}

// ReadStationFile reads one station file from disk.
func ReadStationFile(path string, opts ParseOptions) (models.StationInfo, models.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.StationInfo{}, models.Table{}, NewParseError(path, 0, "opening file", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("file", path).Msg("Error closing station file")
		}
	}()

	return ParseStationFile(path, f, opts)
}

// ParseTable parses a station file and discards its descriptive header.
func ParseTable(name string, r io.Reader, opts ParseOptions) (models.Table, error) {
	_, table, err := ParseStationFile(name, r, opts)
	return table, err
}

// ParseStationFile parses the header block and readings of a station file.
// Rows are returned in file order. Unreadable cells become missing readings;
// only structural problems fail the parse.
func ParseStationFile(name string, r io.Reader, opts ParseOptions) (models.StationInfo, models.Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	lineNo := 0
	next := func() (string, bool) {
		if !scanner.Scan() {
			return "", false
		}
		lineNo++
		return scanner.Text(), true
	}
	short := func() error {
		if err := scanner.Err(); err != nil {
			return NewParseError(name, lineNo, "reading header", err)
		}
		return NewParseError(name, lineNo,
			fmt.Sprintf("file has %d lines, header needs %d", lineNo, opts.headerLength()), nil)
	}

	headerLines := make([]string, 0, opts.HeaderLines)
	for i := 0; i < opts.HeaderLines; i++ {
		line, ok := next()
		if !ok {
			return models.StationInfo{}, models.Table{}, short()
		}
		headerLines = append(headerLines, line)
	}
	info := parseStationInfo(headerLines)

	columnLine, ok := next()
	if !ok {
		return models.StationInfo{}, models.Table{}, short()
	}
	layout, err := resolveColumns(strings.Fields(columnLine))
	if err != nil {
		return models.StationInfo{}, models.Table{}, NewParseError(name, lineNo, "resolving columns", err)
	}

	for i := 0; i < opts.UnitsLines; i++ {
		if _, ok := next(); !ok {
			return models.StationInfo{}, models.Table{}, short()
		}
	}

	var rows []models.Row
	for {
		line, ok := next()
		if !ok {
			break
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		row, err := parseRow(fields, layout)
		if err != nil {
			return models.StationInfo{}, models.Table{}, NewParseError(name, lineNo, "malformed row", err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return models.StationInfo{}, models.Table{}, NewParseError(name, lineNo, "reading rows", err)
	}

	return info, models.NewTable(rows), nil
}

// resolveColumns finds the named columns of the column header line.
func resolveColumns(header []string) (columnLayout, error) {
	if len(header) <= SeaLevelColumn {
		return columnLayout{}, fmt.Errorf("expected at least %d columns, found %d", SeaLevelColumn+1, len(header))
	}

	layout := columnLayout{count: len(header), cycle: 0, seaLevel: SeaLevelColumn, date: -1, time: -1, residual: -1}
	for i, h := range header {
		switch {
		case strings.EqualFold(h, "Date"):
			layout.date = i
		case strings.EqualFold(h, "Time"):
			layout.time = i
		case strings.EqualFold(h, "Residual"):
			layout.residual = i
		}
	}

	for name, idx := range map[string]int{"Date": layout.date, "Time": layout.time, "Residual": layout.residual} {
		if idx < 0 {
			return columnLayout{}, fmt.Errorf("missing %q column in %v", name, header)
		}
		if idx == SeaLevelColumn || idx == layout.cycle {
			return columnLayout{}, fmt.Errorf("%q column at position %d collides with the sea level or cycle column", name, idx)
		}
	}
	return layout, nil
}

func parseRow(fields []string, layout columnLayout) (models.Row, error) {
	trailingFlag := ""
	switch {
	case len(fields) == layout.count:
	case len(fields) == layout.count+1 && isFlagToken(fields[len(fields)-1]):
		trailingFlag = fields[len(fields)-1]
		fields = fields[:len(fields)-1]
	default:
		return models.Row{}, fmt.Errorf("expected %d fields, found %d", layout.count, len(fields))
	}

	seaLevel, seaFlag := classifyCell(fields[layout.seaLevel])
	residual, residualFlag := classifyCell(fields[layout.residual])
	if trailingFlag != "" {
		seaLevel = models.Missing()
	}

	row := models.Row{
		Cycle:    strings.TrimSuffix(fields[layout.cycle], ")"),
		SeaLevel: seaLevel,
		Residual: residual,
		Flag:     firstNonEmpty(seaFlag, residualFlag, trailingFlag),
	}

	ts, ok := parseTimestamp(fields[layout.date], fields[layout.time])
	if !ok {
		row.SeaLevel = models.Missing()
		row.Residual = models.Missing()
		return row, nil
	}
	row.Time = ts
	return row, nil
}

// classifyCell converts a raw cell into a reading. A cell carrying a quality
// flag suffix is missing whatever its numeric part says.
func classifyCell(cell string) (models.Level, string) {
	if flag := qualityFlag(cell); flag != "" {
		return models.Missing(), flag
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return models.Missing(), ""
	}
	return models.Reading(v), ""
}

// qualityFlag returns the gauge-network suffix of a cell: M (improbable),
// N (null) or T (interpolated).
func qualityFlag(cell string) string {
	if cell == "" {
		return ""
	}
	switch last := cell[len(cell)-1]; last {
	case 'M', 'N', 'T':
		return string(last)
	}
	return ""
}

func isFlagToken(tok string) bool {
	return tok == "M" || tok == "N" || tok == "T"
}

func parseTimestamp(date, clock string) (time.Time, bool) {
	s := date + " " + clock
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func parseStationInfo(lines []string) models.StationInfo {
	info := models.StationInfo{Fields: make(map[string]string)}
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		info.Fields[key] = value

		switch strings.ToLower(key) {
		case "port":
			info.Port = value
		case "site":
			info.Site = value
		case "latitude":
			info.Latitude = parseCoordinate(value)
		case "longitude":
			info.Longitude = parseCoordinate(value)
		case "start date":
			info.StartDate = value
		case "end date":
			info.EndDate = value
		case "contributor":
			info.Contributor = value
		case "datum information":
			info.Datum = value
		case "parameter code":
			info.ParameterCode = value
		}
	}
	return info
}

// parseCoordinate returns nil for anything but a finite number.
func parseCoordinate(value string) *float64 {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
