package handler

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/bbernstein/tidegauge/internal/api"
	"github.com/bbernstein/tidegauge/internal/tide"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	KindInvalidRequest     = "invalid_request"
	KindParse              = "parse"
	KindEmptySegment       = "empty_segment"
	KindInsufficientData   = "insufficient_data"
	KindUnknownConstituent = "unknown_constituent"
	KindInternal           = "internal"
)

// AnalysisEvent is the payload the batch job is invoked with. Dates are
// YYYY-MM-DD or ISO 8601 date-times in UTC.
type AnalysisEvent struct {
	Source        string   `json:"source" validate:"required"`
	Year          *int     `json:"year,omitempty" validate:"omitempty,min=1,max=9999"`
	Start         string   `json:"start,omitempty" validate:"omitempty,isodate"`
	End           string   `json:"end,omitempty" validate:"omitempty,isodate"`
	Constituents  []string `json:"constituents,omitempty" validate:"omitempty,max=64"`
	HarmonicStart string   `json:"harmonicStart,omitempty" validate:"omitempty,isodate"`
	Output        string   `json:"output,omitempty"`
	PreviewRows   int      `json:"previewRows,omitempty" validate:"gte=0,lte=10000"`
}

type AnalysisHandler struct {
	analyzer tide.Analyzer
	validate *validator.Validate
}

func NewAnalysisHandler(analyzer tide.Analyzer) (*AnalysisHandler, error) {
	v, err := newEventValidator()
	if err != nil {
		return nil, err
	}
	return &AnalysisHandler{
		analyzer: analyzer,
		validate: v,
	}, nil
}

func newEventValidator() (*validator.Validate, error) {
	v := validator.New()
	if err := v.RegisterValidation("isodate", isISODate); err != nil {
		return nil, fmt.Errorf("registering isodate validation: %w", err)
	}

	// Report JSON field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v, nil
}

func isISODate(fl validator.FieldLevel) bool {
	_, err := api.ParseDate(fl.Field().String(), false)
	return err == nil
}

// validateEvent checks the event's struct tags and flattens the first
// failure into a readable message.
func (h *AnalysisHandler) validateEvent(event AnalysisEvent) error {
	err := h.validate.Struct(event)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "isodate":
		return api.InvalidDateError{Value: fmt.Sprint(fe.Value())}
	case "min", "max", "gte", "lte":
		if fe.Field() == "year" {
			return api.InvalidYearError{Year: *event.Year}
		}
		return fmt.Errorf("%s is out of range (%s %s)", fe.Field(), fe.Tag(), fe.Param())
	default:
		return fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

// HandleRequest runs one analysis. Failures come back as an *api.ErrorResponse
// with a nil error so the invoker always receives an envelope.
func (h *AnalysisHandler) HandleRequest(ctx context.Context, event AnalysisEvent) (interface{}, error) {
	if err := h.validateEvent(event); err != nil {
		log.Warn().Err(err).Msg("Rejected analysis request")
		return api.NewErrorResponse(KindInvalidRequest, err.Error()), nil
	}
	req, err := buildRequest(event)
	if err != nil {
		return api.NewErrorResponse(KindInvalidRequest, err.Error()), nil
	}

	log.Info().Str("source", req.Location).Strs("constituents", req.Constituents).Msg("Handling analysis request")

	analysis, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("source", req.Location).Msg("Analysis failed")
		return api.NewErrorResponse(ErrorKind(err), err.Error()), nil
	}

	if event.Output != "" {
		if err := h.analyzer.WriteReport(ctx, analysis.Report, event.Output); err != nil {
			log.Error().Err(err).Str("output", event.Output).Msg("Error writing report")
			return api.NewErrorResponse(KindInternal, "Error writing report"), nil
		}
	}

	return api.NewAnalysisResponse(analysis.Report, event.Output), nil
}

func buildRequest(event AnalysisEvent) (tide.AnalysisRequest, error) {
	source := strings.TrimSpace(event.Source)
	if source == "" {
		return tide.AnalysisRequest{}, errors.New("source is required")
	}
	req := tide.AnalysisRequest{
		Location:    source,
		Year:        event.Year,
		PreviewRows: event.PreviewRows,
	}

	var err error
	if req.Start, err = api.ParseOptionalDate(event.Start, false); err != nil {
		return tide.AnalysisRequest{}, err
	}
	if req.End, err = api.ParseOptionalDate(event.End, true); err != nil {
		return tide.AnalysisRequest{}, err
	}
	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return tide.AnalysisRequest{}, errors.New("end is before start")
	}
	if req.HarmonicStart, err = api.ParseOptionalDate(event.HarmonicStart, false); err != nil {
		return tide.AnalysisRequest{}, err
	}
	req.Constituents = api.ParseConstituents(strings.Join(event.Constituents, ","))
	return req, nil
}

// ErrorKind classifies a pipeline error for the error envelope.
func ErrorKind(err error) string {
	var parseErr *tide.ParseError
	var emptyErr *tide.EmptySegmentError
	var insufficientErr *tide.InsufficientDataError
	var unknownErr *tide.UnknownConstituentError
	var duplicateErr *tide.DuplicateConstituentError

	switch {
	case errors.As(err, &unknownErr):
		return KindUnknownConstituent
	case errors.As(err, &duplicateErr), errors.Is(err, tide.ErrNoConstituents):
		return KindInvalidRequest
	case errors.As(err, &emptyErr):
		return KindEmptySegment
	case errors.As(err, &insufficientErr):
		return KindInsufficientData
	case errors.As(err, &parseErr):
		return KindParse
	default:
		return KindInternal
	}
}
