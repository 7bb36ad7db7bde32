package telemetry

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/monitoring"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Bulk simulation hard cap
const maxBulkSimulations = 20

const defaultListLimit = 20

// Service implements vitals ingestion and alert management. All ingestion
// entry points converge on persist-then-evaluate.
type Service struct {
	repo      interfaces.TelemetryRepository
	extractor interfaces.TextExtractor
	logger    *logger.Logger
	metrics   *monitoring.MetricsCollector
}

// NewService creates a new telemetry service
func NewService(repo interfaces.TelemetryRepository, extractor interfaces.TextExtractor, log *logger.Logger, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		repo:      repo,
		extractor: extractor,
		logger:    log,
		metrics:   metrics,
	}
}

// RecordManual persists a manually entered reading and evaluates it for
// alerts. Manual entries must carry at least one vital.
func (s *Service) RecordManual(userID string, vitals *types.VitalsInput) (*types.IngestResult, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if vitals == nil || !vitals.HasVitals() {
		return nil, types.NewValidationError("at least one vital sign is required", nil)
	}

	reading := newReading(userID, vitals, types.SourceManual)
	return s.ingest(reading, "")
}

// RecordFromDocument extracts vitals from an uploaded document and persists
// whatever was found. Unlike manual entry, a document that yields no vitals
// is still accepted: the reading records the upload even when extraction
// came up empty.
func (s *Service) RecordFromDocument(userID string, document []byte, documentPath string) (*types.IngestResult, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if len(document) == 0 {
		return nil, types.NewValidationError("document is empty", nil)
	}

	rawText, err := s.extractor.ExtractText(document)
	if err != nil {
		return nil, types.NewExternalError("failed to extract document text", err)
	}

	now := time.Now()
	vitals, metadata := ParseVitalsText(rawText, now)

	reading := newReading(userID, vitals, types.SourceDocument)
	reading.DocumentPath = documentPath
	reading.Metadata = metadata

	excerpt := rawText
	if len(excerpt) > 500 {
		excerpt = excerpt[:500]
	}

	return s.ingest(reading, excerpt)
}

// RecordSimulated generates one synthetic reading for the given scenario and
// pushes it through the regular ingestion pipeline.
func (s *Service) RecordSimulated(userID string, scenario types.SimScenario) (*types.IngestResult, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if !types.ValidScenario(scenario) {
		return nil, types.NewValidationError(
			fmt.Sprintf("invalid scenario %q, valid options: normal, emergency, oxygen_drop", scenario), nil)
	}

	vitals := generateVitals(scenario)
	reading := newReading(userID, vitals, types.SourceSimulator)
	reading.IsEmergency = scenarioIsEmergency(scenario)
	reading.Metadata = &types.ReadingMetadata{
		ReportName:  fmt.Sprintf("Simulated - %s", scenario),
		ExtractedAt: reading.RecordedAt,
	}

	return s.ingest(reading, "")
}

// RecordBulkSimulated generates up to maxBulkSimulations readings in one
// call. Each reading is independently persisted and evaluated.
func (s *Service) RecordBulkSimulated(userID string, count int, scenario types.SimScenario) ([]*types.IngestResult, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if count <= 0 {
		count = 5
	}
	if count > maxBulkSimulations {
		count = maxBulkSimulations
	}

	results := make([]*types.IngestResult, 0, count)
	for i := 0; i < count; i++ {
		result, err := s.RecordSimulated(userID, scenario)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

// ListReadings returns a user's readings, most recent first
func (s *Service) ListReadings(userID string, filters *types.ReadingFilters) ([]*types.VitalsReading, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if filters == nil {
		filters = &types.ReadingFilters{}
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}

	readings, err := s.repo.ListReadings(userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}

// GetReading returns a single reading by ID
func (s *Service) GetReading(id string) (*types.VitalsReading, error) {
	if id == "" {
		return nil, types.NewValidationError("reading id is required", nil)
	}

	reading, err := s.repo.GetReadingByID(id)
	if err != nil {
		return nil, err
	}
	return reading, nil
}

// ListAlerts returns a user's alert history, most recent first
func (s *Service) ListAlerts(userID string, filters *types.AlertFilters) ([]*types.Alert, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if filters == nil {
		filters = &types.AlertFilters{}
	}
	if filters.Limit <= 0 {
		filters.Limit = 50
	}

	alerts, err := s.repo.ListAlerts(userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// ResolveAlert marks an alert as resolved. Resolution is one-way.
func (s *Service) ResolveAlert(id string) (*types.Alert, error) {
	if id == "" {
		return nil, types.NewValidationError("alert id is required", nil)
	}

	alert, err := s.repo.ResolveAlert(id, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"alert_id":   alert.ID,
		"alert_type": string(alert.AlertType),
	}).Info("Alert resolved")

	return alert, nil
}

// ingest persists a reading, evaluates it against the clinical thresholds,
// and persists any resulting alerts in one batch.
func (s *Service) ingest(reading *types.VitalsReading, extractedText string) (*types.IngestResult, error) {
	if err := s.repo.CreateReading(reading); err != nil {
		return nil, fmt.Errorf("failed to persist reading: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReadingIngested(string(reading.Source))
	}

	alerts := Evaluate(reading)
	for _, alert := range alerts {
		alert.ID = uuid.New().String()
		alert.CreatedAt = time.Now()
	}

	if len(alerts) > 0 {
		if err := s.repo.CreateAlerts(alerts); err != nil {
			return nil, fmt.Errorf("failed to persist alerts: %w", err)
		}

		for _, alert := range alerts {
			if s.metrics != nil {
				s.metrics.RecordAlertCreated(string(alert.AlertType), string(alert.Severity))
			}
			s.logger.WithFields(map[string]interface{}{
				"user_id":    alert.UserID,
				"reading_id": reading.ID,
				"alert_type": string(alert.AlertType),
				"severity":   string(alert.Severity),
			}).Warn("Health alert created")
		}
	}

	return &types.IngestResult{
		Reading:       reading,
		Alerts:        alerts,
		AlertCount:    len(alerts),
		ExtractedText: extractedText,
	}, nil
}

// newReading builds a reading row from client input
func newReading(userID string, vitals *types.VitalsInput, source types.VitalSource) *types.VitalsReading {
	now := time.Now()
	return &types.VitalsReading{
		ID:            uuid.New().String(),
		UserID:        userID,
		HeartRate:     vitals.HeartRate,
		BloodPressure: vitals.BloodPressure,
		OxygenLevel:   vitals.OxygenLevel,
		Temperature:   vitals.Temperature,
		GlucoseLevel:  vitals.GlucoseLevel,
		Source:        source,
		RecordedAt:    now,
		CreatedAt:     now,
	}
}
