package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/bbernstein/tidegauge/internal/api"
	"github.com/bbernstein/tidegauge/internal/config"
	"github.com/bbernstein/tidegauge/internal/station"
	"github.com/bbernstein/tidegauge/internal/tide"
	"github.com/rs/zerolog/log"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	longestPreviewRows = 10
)

type options struct {
	directory     string
	verbose       bool
	year          *int
	start         string
	end           string
	constituents  string
	harmonicStart string
	head          int
	jsonOutput    bool
	output        string
	workers       int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// parseArgs accepts flags before and after the positional directory.
func parseArgs(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	var year int

	fs := flag.NewFlagSet("tidal", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: tidal [flags] <directory | s3://bucket/prefix>")
		fs.PrintDefaults()
	}
	fs.BoolVar(&opts.verbose, "v", false, "print each file as it is read and enable debug logging")
	fs.BoolVar(&opts.verbose, "verbose", false, "same as -v")
	fs.IntVar(&year, "year", 0, "extract this calendar year for harmonic analysis")
	fs.StringVar(&opts.start, "start", "", "segment start (YYYY-MM-DD or date-time, UTC)")
	fs.StringVar(&opts.end, "end", "", "segment end, inclusive; a date covers the whole day")
	fs.StringVar(&opts.constituents, "constituents", "", "comma separated constituents, e.g. M2,S2")
	fs.StringVar(&opts.harmonicStart, "harmonic-start", "", "time origin of the harmonic phases")
	fs.IntVar(&opts.head, "head", 25, "number of leading rows to print")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	fs.StringVar(&opts.output, "output", "", "write the JSON report to a file or s3:// URI")
	fs.IntVar(&opts.workers, "workers", 0, "parallel file parsers (0 uses TIDAL_WORKERS)")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	if len(positional) != 1 {
		fs.Usage()
		return nil, fmt.Errorf("expected one directory, got %d", len(positional))
	}
	opts.directory = positional[0]

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "year" {
			opts.year = &year
		}
	})
	if opts.head < 0 {
		return nil, fmt.Errorf("-head must not be negative")
	}
	return opts, nil
}

func buildRequest(opts *options) (tide.AnalysisRequest, error) {
	req := tide.AnalysisRequest{
		Location:     opts.directory,
		Year:         opts.year,
		Constituents: api.ParseConstituents(opts.constituents),
		PreviewRows:  opts.head,
	}
	if opts.year != nil {
		if err := api.ValidateYear(*opts.year); err != nil {
			return req, err
		}
	}

	var err error
	if req.Start, err = api.ParseOptionalDate(opts.start, false); err != nil {
		return req, err
	}
	if req.End, err = api.ParseOptionalDate(opts.end, true); err != nil {
		return req, err
	}
	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return req, errors.New("-end is before -start")
	}
	if req.HarmonicStart, err = api.ParseOptionalDate(opts.harmonicStart, false); err != nil {
		return req, err
	}
	return req, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	req, err := buildRequest(opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfgOpts := []config.Option{config.WithLogOutput(stderr)}
	if os.Getenv("ENV") == "" {
		cfgOpts = append(cfgOpts, config.WithEnvironment("local"))
	}
	if opts.verbose {
		cfgOpts = append(cfgOpts, config.WithLogLevel("debug"))
	}
	if opts.workers > 0 {
		cfgOpts = append(cfgOpts, config.WithWorkers(opts.workers))
	}
	cfg := config.LoadFromEnv(cfgOpts...)
	cfg.InitializeLogging()

	if opts.verbose {
		// Keep stdout a single JSON document in -json mode.
		progress := stdout
		if opts.jsonOutput {
			progress = stderr
		}
		req.OnFile = func(f station.File) {
			fmt.Fprintf(progress, "Reading in %s\n", f.Path)
		}
	}

	service := tide.NewService(cfg, &station.DefaultFactory{Pattern: cfg.FilePattern}, nil)
	analysis, err := service.Analyze(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("source", req.Location).Msg("Analysis failed")
		fmt.Fprintf(stderr, "error: %v\n", err)
		var unknownErr *tide.UnknownConstituentError
		if errors.As(err, &unknownErr) {
			fmt.Fprintf(stderr, "known constituents: %s\n", strings.Join(tide.KnownConstituents(), ", "))
		}
		return exitFailure
	}

	if opts.jsonOutput {
		if err := api.Write(stdout, api.NewAnalysisResponse(analysis.Report, opts.output)); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
	} else if err := printAnalysis(stdout, analysis, opts.head); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	if opts.output != "" {
		if err := service.WriteReport(ctx, analysis.Report, opts.output); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailure
		}
	}

	if failures := analysis.Report.Failures; len(failures) > 0 {
		for _, f := range failures {
			fmt.Fprintf(stderr, "failed to read %s: %s\n", f.File, f.Error)
		}
		return exitFailure
	}
	return exitOK
}

func printAnalysis(w io.Writer, analysis *tide.Analysis, head int) error {
	data := analysis.Station
	if err := data.Table.Head(head).Format(w, head); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Longest contiguous segment:")
	if err := analysis.Longest.Format(w, longestPreviewRows); err != nil {
		return err
	}

	fmt.Fprintln(w)
	trend := analysis.Report.Trend
	fmt.Fprintf(w, "(%g, %g)\n", trend.Slope, trend.PValue)

	if h := analysis.Report.Harmonics; h != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Harmonic analysis (%s, %d readings, phases from %s):\n",
			analysis.Report.Segment, h.Samples, h.StartTime.Format(time.RFC3339))
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintln(tw, "Constituent\tAmplitude\tPhase (deg)\t")
		degrees := h.PhaseDegrees()
		for i, name := range h.Constituents {
			fmt.Fprintf(tw, "%s\t%.4f\t%.2f\t\n", strings.ToUpper(name), h.Amplitudes[i], degrees[i])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
