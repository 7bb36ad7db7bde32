package types

import "time"

// VitalSource identifies how a reading was acquired
type VitalSource string

const (
	SourceManual    VitalSource = "manual"
	SourceDocument  VitalSource = "document"
	SourceSimulator VitalSource = "simulator"
)

// BloodPressure holds a systolic/diastolic pair in mmHg
type BloodPressure struct {
	Systolic  int `json:"systolic" db:"bp_systolic"`
	Diastolic int `json:"diastolic" db:"bp_diastolic"`
}

// ReadingMetadata holds free-text details extracted from an uploaded document
type ReadingMetadata struct {
	ReportName   string    `json:"report_name,omitempty"`
	HospitalName string    `json:"hospital_name,omitempty"`
	DoctorName   string    `json:"doctor_name,omitempty"`
	ExtractedAt  time.Time `json:"extracted_at,omitempty"`
}

// VitalsReading represents one persisted set of physiological measurements.
// Readings are immutable once created; every vital field is optional but at
// least one must be present for manual entries.
type VitalsReading struct {
	ID            string           `json:"id" db:"id"`
	UserID        string           `json:"user_id" db:"user_id"`
	HeartRate     *float64         `json:"heart_rate,omitempty" db:"heart_rate"`
	BloodPressure *BloodPressure   `json:"blood_pressure,omitempty"`
	OxygenLevel   *float64         `json:"oxygen_level,omitempty" db:"oxygen_level"`
	Temperature   *float64         `json:"temperature,omitempty" db:"temperature"`
	GlucoseLevel  *float64         `json:"glucose_level,omitempty" db:"glucose_level"`
	Source        VitalSource      `json:"source" db:"source"`
	DocumentPath  string           `json:"document_path,omitempty" db:"document_path"`
	Metadata      *ReadingMetadata `json:"metadata,omitempty"`
	IsEmergency   bool             `json:"is_emergency" db:"is_emergency"`
	RecordedAt    time.Time        `json:"recorded_at" db:"recorded_at"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
}

// HasVitals reports whether at least one vital field is present
func (r *VitalsReading) HasVitals() bool {
	return r.HeartRate != nil || r.BloodPressure != nil || r.OxygenLevel != nil ||
		r.Temperature != nil || r.GlucoseLevel != nil
}

// VitalsInput is the client-supplied subset of a reading
type VitalsInput struct {
	HeartRate     *float64       `json:"heart_rate,omitempty"`
	BloodPressure *BloodPressure `json:"blood_pressure,omitempty"`
	OxygenLevel   *float64       `json:"oxygen_level,omitempty"`
	Temperature   *float64       `json:"temperature,omitempty"`
	GlucoseLevel  *float64       `json:"glucose_level,omitempty"`
}

// HasVitals reports whether at least one vital field is present
func (v *VitalsInput) HasVitals() bool {
	return v.HeartRate != nil || v.BloodPressure != nil || v.OxygenLevel != nil ||
		v.Temperature != nil || v.GlucoseLevel != nil
}

// AlertType identifies which clinical threshold a reading crossed
type AlertType string

const (
	AlertHighHeartRate    AlertType = "high_heart_rate"
	AlertLowOxygen        AlertType = "low_oxygen"
	AlertHighGlucose      AlertType = "high_glucose"
	AlertHighBP           AlertType = "high_bp"
	AlertTemperatureSpike AlertType = "temperature_spike"
)

// AlertSeverity is the severity tier of an alert. Critical outranks high.
type AlertSeverity string

const (
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a derived record created when a vital crosses a threshold.
// Mutated only by resolution, which is a one-way transition.
type Alert struct {
	ID         string        `json:"id" db:"id"`
	UserID     string        `json:"user_id" db:"user_id"`
	ReadingID  *string       `json:"reading_id,omitempty" db:"reading_id"`
	AlertType  AlertType     `json:"alert_type" db:"alert_type"`
	Severity   AlertSeverity `json:"severity" db:"severity"`
	Message    string        `json:"message" db:"message"`
	Resolved   bool          `json:"resolved" db:"resolved"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// ReadingFilters narrows reading list queries
type ReadingFilters struct {
	Source VitalSource `json:"source,omitempty"`
	Limit  int         `json:"limit,omitempty"`
}

// AlertFilters narrows alert list queries
type AlertFilters struct {
	Severity AlertSeverity `json:"severity,omitempty"`
	Resolved *bool         `json:"resolved,omitempty"`
	Limit    int           `json:"limit,omitempty"`
}

// SimScenario names a synthetic-data profile for the simulator
type SimScenario string

const (
	ScenarioNormal     SimScenario = "normal"
	ScenarioEmergency  SimScenario = "emergency"
	ScenarioOxygenDrop SimScenario = "oxygen_drop"
)

// ValidScenario reports whether s names a known simulator scenario
func ValidScenario(s SimScenario) bool {
	switch s {
	case ScenarioNormal, ScenarioEmergency, ScenarioOxygenDrop:
		return true
	}
	return false
}

// IngestResult pairs a persisted reading with the alerts it triggered
type IngestResult struct {
	Reading       *VitalsReading `json:"reading"`
	Alerts        []*Alert       `json:"alerts"`
	AlertCount    int            `json:"alert_count"`
	ExtractedText string         `json:"extracted_text,omitempty"`
}
