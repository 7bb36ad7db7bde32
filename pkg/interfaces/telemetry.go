package interfaces

import (
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// TelemetryService defines the vitals ingestion and alert surface exposed
// to the HTTP layer and to the background simulator.
type TelemetryService interface {
	// Ingestion entry points; all converge on persist-then-evaluate
	RecordManual(userID string, vitals *types.VitalsInput) (*types.IngestResult, error)
	RecordFromDocument(userID string, document []byte, documentPath string) (*types.IngestResult, error)
	RecordSimulated(userID string, scenario types.SimScenario) (*types.IngestResult, error)
	RecordBulkSimulated(userID string, count int, scenario types.SimScenario) ([]*types.IngestResult, error)

	// Read operations consumed by the CRUD layer
	ListReadings(userID string, filters *types.ReadingFilters) ([]*types.VitalsReading, error)
	GetReading(id string) (*types.VitalsReading, error)
	ListAlerts(userID string, filters *types.AlertFilters) ([]*types.Alert, error)
	ResolveAlert(id string) (*types.Alert, error)
}

// TelemetryRepository defines persistence for readings and alerts
type TelemetryRepository interface {
	CreateReading(reading *types.VitalsReading) error
	GetReadingByID(id string) (*types.VitalsReading, error)
	ListReadings(userID string, filters *types.ReadingFilters) ([]*types.VitalsReading, error)
	ListReadingsBetween(userID string, from, to time.Time) ([]*types.VitalsReading, error)

	CreateAlerts(alerts []*types.Alert) error
	ListAlerts(userID string, filters *types.AlertFilters) ([]*types.Alert, error)
	ListAlertsBetween(userID string, from, to time.Time) ([]*types.Alert, error)
	ResolveAlert(id string, resolvedAt time.Time) (*types.Alert, error)
}

// TextExtractor extracts plain text from an uploaded document. Extraction
// is best effort: an empty string is a valid, non-error result.
type TextExtractor interface {
	ExtractText(document []byte) (string, error)
}
