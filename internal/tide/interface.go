package tide

import (
	"context"

	"github.com/bbernstein/tidegauge/internal/models"
)

// Analyzer runs the full pipeline over one station location.
type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)
	WriteReport(ctx context.Context, report *models.AnalysisReport, location string) error
}

// TableCache keeps parsed station files between loads.
type TableCache interface {
	Get(key string) (models.StationInfo, models.Table, bool)
	Add(key string, info models.StationInfo, table models.Table)
}
