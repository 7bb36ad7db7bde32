package telemetry

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/database"
	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Repository implements the TelemetryRepository interface on PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new telemetry repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.TelemetryRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateReading inserts a new health reading
func (r *Repository) CreateReading(reading *types.VitalsReading) error {
	query := `
		INSERT INTO health_readings (
			id, user_id, heart_rate, bp_systolic, bp_diastolic, oxygen_level,
			temperature, glucose_level, source, document_path, report_name,
			hospital_name, doctor_name, extracted_at, is_emergency, recorded_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	var systolic, diastolic *int
	if reading.BloodPressure != nil {
		systolic = &reading.BloodPressure.Systolic
		diastolic = &reading.BloodPressure.Diastolic
	}

	var reportName, hospitalName, doctorName *string
	var extractedAt *time.Time
	if reading.Metadata != nil {
		reportName = nullableString(reading.Metadata.ReportName)
		hospitalName = nullableString(reading.Metadata.HospitalName)
		doctorName = nullableString(reading.Metadata.DoctorName)
		if !reading.Metadata.ExtractedAt.IsZero() {
			extractedAt = &reading.Metadata.ExtractedAt
		}
	}

	_, err := r.db.Exec(query,
		reading.ID,
		reading.UserID,
		reading.HeartRate,
		systolic,
		diastolic,
		reading.OxygenLevel,
		reading.Temperature,
		reading.GlucoseLevel,
		string(reading.Source),
		nullableString(reading.DocumentPath),
		reportName,
		hospitalName,
		doctorName,
		extractedAt,
		reading.IsEmergency,
		reading.RecordedAt,
		reading.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create health reading")
		return fmt.Errorf("failed to create health reading: %w", err)
	}

	return nil
}

// GetReadingByID retrieves a single reading
func (r *Repository) GetReadingByID(id string) (*types.VitalsReading, error) {
	query := readingSelectColumns + ` FROM health_readings WHERE id = $1`

	reading, err := scanReading(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(fmt.Sprintf("health reading not found: %s", id))
		}
		r.logger.WithError(err).Error("Failed to get health reading")
		return nil, fmt.Errorf("failed to get health reading: %w", err)
	}

	return reading, nil
}

// ListReadings returns a user's readings, most recent first
func (r *Repository) ListReadings(userID string, filters *types.ReadingFilters) ([]*types.VitalsReading, error) {
	query := readingSelectColumns + ` FROM health_readings WHERE user_id = $1`
	args := []interface{}{userID}

	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", len(args)+1)
		args = append(args, string(filters.Source))
	}

	query += " ORDER BY recorded_at DESC"
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, filters.Limit)

	return r.queryReadings(query, args...)
}

// ListReadingsBetween returns a user's readings inside a time window,
// oldest first
func (r *Repository) ListReadingsBetween(userID string, from, to time.Time) ([]*types.VitalsReading, error) {
	query := readingSelectColumns + `
		FROM health_readings
		WHERE user_id = $1 AND recorded_at >= $2 AND recorded_at <= $3
		ORDER BY recorded_at ASC`

	return r.queryReadings(query, userID, from, to)
}

// CreateAlerts inserts a batch of alerts in one transaction
func (r *Repository) CreateAlerts(alerts []*types.Alert) error {
	if len(alerts) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO alert_history (id, user_id, reading_id, alert_type, severity, message, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, alert := range alerts {
		_, err := tx.Exec(query,
			alert.ID,
			alert.UserID,
			alert.ReadingID,
			string(alert.AlertType),
			string(alert.Severity),
			alert.Message,
			alert.Resolved,
			alert.CreatedAt,
		)
		if err != nil {
			r.logger.WithError(err).Error("Failed to create alert")
			return fmt.Errorf("failed to create alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit alerts: %w", err)
	}

	return nil
}

// ListAlerts returns a user's alert history, most recent first
func (r *Repository) ListAlerts(userID string, filters *types.AlertFilters) ([]*types.Alert, error) {
	query := alertSelectColumns + ` FROM alert_history WHERE user_id = $1`
	args := []interface{}{userID}

	if filters.Severity != "" {
		query += fmt.Sprintf(" AND severity = $%d", len(args)+1)
		args = append(args, string(filters.Severity))
	}

	if filters.Resolved != nil {
		query += fmt.Sprintf(" AND resolved = $%d", len(args)+1)
		args = append(args, *filters.Resolved)
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
	args = append(args, filters.Limit)

	return r.queryAlerts(query, args...)
}

// ListAlertsBetween returns a user's alerts inside a time window
func (r *Repository) ListAlertsBetween(userID string, from, to time.Time) ([]*types.Alert, error) {
	query := alertSelectColumns + `
		FROM alert_history
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at ASC`

	return r.queryAlerts(query, userID, from, to)
}

// ResolveAlert marks an alert as resolved and returns the updated row
func (r *Repository) ResolveAlert(id string, resolvedAt time.Time) (*types.Alert, error) {
	query := `
		UPDATE alert_history
		SET resolved = TRUE, resolved_at = $1
		WHERE id = $2
		RETURNING id, user_id, reading_id, alert_type, severity, message, resolved, resolved_at, created_at`

	alert, err := scanAlert(r.db.QueryRow(query, resolvedAt, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(fmt.Sprintf("alert not found: %s", id))
		}
		r.logger.WithError(err).Error("Failed to resolve alert")
		return nil, fmt.Errorf("failed to resolve alert: %w", err)
	}

	return alert, nil
}

const readingSelectColumns = `
	SELECT id, user_id, heart_rate, bp_systolic, bp_diastolic, oxygen_level,
		   temperature, glucose_level, source, document_path, report_name,
		   hospital_name, doctor_name, extracted_at, is_emergency, recorded_at, created_at`

const alertSelectColumns = `
	SELECT id, user_id, reading_id, alert_type, severity, message, resolved, resolved_at, created_at`

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReading(row rowScanner) (*types.VitalsReading, error) {
	reading := &types.VitalsReading{}

	var systolic, diastolic sql.NullInt64
	var documentPath, reportName, hospitalName, doctorName sql.NullString
	var extractedAt sql.NullTime
	var source string

	err := row.Scan(
		&reading.ID,
		&reading.UserID,
		&reading.HeartRate,
		&systolic,
		&diastolic,
		&reading.OxygenLevel,
		&reading.Temperature,
		&reading.GlucoseLevel,
		&source,
		&documentPath,
		&reportName,
		&hospitalName,
		&doctorName,
		&extractedAt,
		&reading.IsEmergency,
		&reading.RecordedAt,
		&reading.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reading.Source = types.VitalSource(source)
	reading.DocumentPath = documentPath.String

	if systolic.Valid && diastolic.Valid {
		reading.BloodPressure = &types.BloodPressure{
			Systolic:  int(systolic.Int64),
			Diastolic: int(diastolic.Int64),
		}
	}

	if reportName.Valid || hospitalName.Valid || doctorName.Valid || extractedAt.Valid {
		reading.Metadata = &types.ReadingMetadata{
			ReportName:   reportName.String,
			HospitalName: hospitalName.String,
			DoctorName:   doctorName.String,
			ExtractedAt:  extractedAt.Time,
		}
	}

	return reading, nil
}

func scanAlert(row rowScanner) (*types.Alert, error) {
	alert := &types.Alert{}

	var alertType, severity string

	err := row.Scan(
		&alert.ID,
		&alert.UserID,
		&alert.ReadingID,
		&alertType,
		&severity,
		&alert.Message,
		&alert.Resolved,
		&alert.ResolvedAt,
		&alert.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	alert.AlertType = types.AlertType(alertType)
	alert.Severity = types.AlertSeverity(severity)

	return alert, nil
}

func (r *Repository) queryReadings(query string, args ...interface{}) ([]*types.VitalsReading, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query health readings")
		return nil, fmt.Errorf("failed to query health readings: %w", err)
	}
	defer rows.Close()

	var readings []*types.VitalsReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan health reading: %w", err)
		}
		readings = append(readings, reading)
	}

	return readings, rows.Err()
}

func (r *Repository) queryAlerts(query string, args ...interface{}) ([]*types.Alert, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query alerts")
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []*types.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
