package api

import (
	"encoding/json"
	"io"

	"github.com/bbernstein/tidegauge/internal/models"
)

const (
	ResponseTypeAnalysis = "analysis"
	ResponseTypeError    = "error"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type AnalysisResponse struct {
	APIResponse
	Report *models.AnalysisReport `json:"report"`
	Output string                 `json:"output,omitempty"`
}

// ErrorResponse carries a user-facing message. Kind names the failure class
// (parse, empty_segment, insufficient_data, unknown_constituent, invalid_request, internal).
type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func NewAnalysisResponse(report *models.AnalysisReport, output string) *AnalysisResponse {
	return &AnalysisResponse{
		APIResponse: APIResponse{ResponseType: ResponseTypeAnalysis},
		Report:      report,
		Output:      output,
	}
}

func NewErrorResponse(kind, message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: ResponseTypeError},
		Error:       message,
		Kind:        kind,
	}
}

// Write encodes any envelope as indented JSON.
func Write(w io.Writer, body interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(body)
}
