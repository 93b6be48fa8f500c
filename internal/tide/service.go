package tide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bbernstein/tidegauge/internal/cache"
	"github.com/bbernstein/tidegauge/internal/config"
	"github.com/bbernstein/tidegauge/internal/models"
	"github.com/bbernstein/tidegauge/internal/station"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultPreviewRows = 25

type Service struct {
	Sources      station.Factory
	Cache        TableCache
	ParseOptions ParseOptions
	Workers      int
	now          func() time.Time
}

func NewService(cfg *config.Config, sources station.Factory, tableCache TableCache) *Service {
	return &Service{
		Sources: sources,
		Cache:   tableCache,
		ParseOptions: ParseOptions{
			HeaderLines: cfg.HeaderLines,
			UnitsLines:  cfg.UnitsLines,
		},
		Workers: cfg.Workers,
		now:     time.Now,
	}
}

// StationData is the combined content of every readable file of a source.
type StationData struct {
	Source   string
	Info     models.StationInfo
	Table    models.Table
	Files    []string
	Failures []models.FileFailure
}

// AnalysisRequest selects what to compute for one station location. Year takes
// precedence over Start/End. Without constituents no harmonic analysis runs.
type AnalysisRequest struct {
	Location      string
	Year          *int
	Start         *time.Time
	End           *time.Time
	Constituents  []string
	HarmonicStart *time.Time
	PreviewRows   int
	OnFile        func(station.File)
}

func (r AnalysisRequest) hasSegment() bool {
	return r.Year != nil || r.Start != nil || r.End != nil
}

// Analysis carries the tables behind a report for callers that print them.
type Analysis struct {
	Station *StationData
	Longest models.Table
	Segment models.Table
	Report  *models.AnalysisReport
}

type fileResult struct {
	file  station.File
	info  models.StationInfo
	table models.Table
	err   error
}

// LoadStation parses every file of src and combines them. A file that fails
// to parse is recorded in Failures and does not stop the others.
func (s *Service) LoadStation(ctx context.Context, src station.Source, onFile func(station.File)) (*StationData, error) {
	files, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing station files: %w", err)
	}
	log.Debug().Str("source", src.Location()).Int("files", len(files)).Msg("Listed station files")

	workerCount := s.Workers
	if workerCount < 1 {
		workerCount = 1
	}

	// Per-file errors are recorded in the result, so only cancellation
	// stops the group.
	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)
	for idx, f := range files {
		if onFile != nil {
			onFile(f)
		}
		g.Go(func() error {
			results[idx] = s.loadFile(gctx, src, f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := &StationData{
		Source: src.Location(),
		Table:  models.EmptyTable(),
	}
	haveInfo := false
	for _, res := range results {
		if res.err != nil {
			log.Error().Err(res.err).Str("file", res.file.Path).Msg("Skipping station file")
			data.Failures = append(data.Failures, models.FileFailure{File: res.file.Path, Error: res.err.Error()})
			continue
		}
		data.Files = append(data.Files, res.file.Path)
		data.Table = Combine(data.Table, res.table)
		if !haveInfo {
			data.Info = res.info
			haveInfo = true
		}
	}

	log.Info().
		Str("source", data.Source).
		Str("station", data.Info.ID()).
		Int("files", len(data.Files)).
		Int("failures", len(data.Failures)).
		Int("rows", data.Table.Len()).
		Msg("Loaded station data")

	return data, nil
}

func (s *Service) loadFile(ctx context.Context, src station.Source, f station.File) fileResult {
	res := fileResult{file: f}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}

	key := cache.Key(src.Location(), f.Name, f.Version)
	if s.Cache != nil && f.Version != "" {
		if info, table, ok := s.Cache.Get(key); ok {
			log.Debug().Str("file", f.Path).Msg("Cache HIT for station file")
			res.info, res.table = info, table
			return res
		}
	}

	rc, err := src.Open(ctx, f.Name)
	if err != nil {
		res.err = NewParseError(f.Path, 0, "opening file", err)
		return res
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("file", f.Path).Msg("Error closing station file")
		}
	}(rc)

	res.info, res.table, res.err = ParseStationFile(f.Path, rc, s.ParseOptions)
	if res.err == nil && s.Cache != nil && f.Version != "" {
		s.Cache.Add(key, res.info, res.table)
	}
	log.Debug().Str("file", f.Path).Int("rows", res.table.Len()).Msg("Parsed station file")
	return res
}

// Analyze loads a station location and runs the gap, trend and (optionally)
// harmonic analyses over it. A failing trend or harmonic stage fails the
// whole analysis.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	src, err := s.Sources.NewSource(ctx, req.Location)
	if err != nil {
		return nil, fmt.Errorf("opening station source: %w", err)
	}

	data, err := s.LoadStation(ctx, src, req.OnFile)
	if err != nil {
		return nil, err
	}
	if len(data.Files) == 0 {
		log.Warn().Str("source", data.Source).Msg("No readable station files")
	}

	trend, err := SeaLevelRise(data.Table)
	if err != nil {
		return nil, fmt.Errorf("estimating sea level trend: %w", err)
	}

	longest := LongestContiguous(data.Table)
	previewRows := req.PreviewRows
	if previewRows <= 0 {
		previewRows = defaultPreviewRows
	}

	report := &models.AnalysisReport{
		Source:      data.Source,
		Station:     data.Info,
		Files:       data.Files,
		Failures:    data.Failures,
		Rows:        data.Table.Len(),
		Preview:     data.Table.Head(previewRows).Rows(),
		Longest:     spanOfTable(longest),
		Gaps:        SummarizeGaps(data.Table),
		Trend:       trend,
		GeneratedAt: s.clock().UTC(),
	}
	analysis := &Analysis{Station: data, Longest: longest, Report: report}

	if !req.hasSegment() && len(req.Constituents) == 0 {
		return analysis, nil
	}

	segment, label, segmentStart, err := extractSegment(data.Table, req)
	if err != nil {
		return nil, fmt.Errorf("extracting segment: %w", err)
	}
	analysis.Segment = segment
	report.Segment = label

	if len(req.Constituents) > 0 {
		start := segmentStart
		if req.HarmonicStart != nil {
			start = *req.HarmonicStart
		}
		harmonics, err := TidalAnalysis(segment, req.Constituents, start)
		if err != nil {
			return nil, fmt.Errorf("harmonic analysis: %w", err)
		}
		report.Harmonics = &harmonics
	}

	return analysis, nil
}

// extractSegment applies the request's year or bounds, defaulting to the whole
// record, and returns the demeaned segment, a label and the segment start.
func extractSegment(t models.Table, req AnalysisRequest) (models.Table, string, time.Time, error) {
	if req.Year != nil {
		segment, err := ExtractYear(t, *req.Year)
		start := time.Date(*req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return segment, fmt.Sprintf("%d", *req.Year), start, err
	}

	first, last, ok := timedSpan(t)
	if !ok {
		return models.Table{}, "", time.Time{}, NewInsufficientDataError(1, 0, "no timestamped readings")
	}
	start, end := first, last
	if req.Start != nil {
		start = *req.Start
	}
	if req.End != nil {
		end = *req.End
	}

	label := "all"
	if req.Start != nil || req.End != nil {
		label = start.Format(time.RFC3339) + "/" + end.Format(time.RFC3339)
	}
	segment, err := ExtractSection(t, start, end)
	return segment, label, start, err
}

// timedSpan returns the first and last parsed timestamps of a sorted table.
func timedSpan(t models.Table) (time.Time, time.Time, bool) {
	var first, last time.Time
	found := false
	for _, r := range t.Rows() {
		if !r.HasTime() {
			continue
		}
		if !found {
			first = r.Time
			found = true
		}
		last = r.Time
	}
	return first, last, found
}

func spanOfTable(t models.Table) models.Span {
	start, end, _ := t.Span()
	return models.Span{Start: start, End: end, Rows: t.Len()}
}

// WriteReport stores the report as indented JSON at a local path or s3:// URI.
// The report is validated and encoded before the destination is opened, so a
// failed encode never leaves a partial object behind.
func (s *Service) WriteReport(ctx context.Context, report *models.AnalysisReport, location string) (err error) {
	if report == nil {
		return errors.New("no report to write")
	}
	if err := report.Validate(); err != nil {
		return fmt.Errorf("invalid report: %w", err)
	}
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	w, err := s.Sources.Create(ctx, location)
	if err != nil {
		return fmt.Errorf("opening report output: %w", err)
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing report output: %w", closeErr)
		}
	}()

	if _, err := w.Write(append(body, '\n')); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	log.Info().Str("output", location).Int("bytes", len(body)+1).Msg("Wrote analysis report")
	return nil
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}
