package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseVitalsText_FullReport(t *testing.T) {
	raw := `Report Name: Quarterly Labs
Hospital: Mercy West
Doctor: Jane Adams
Heart Rate: 88
SpO2: 97.5
Temperature: 36.8
Glucose: 102
BP reading 118/76 taken at rest`

	now := time.Now()
	vitals, metadata := ParseVitalsText(raw, now)

	assert.NotNil(t, vitals.HeartRate)
	assert.Equal(t, 88.0, *vitals.HeartRate)
	assert.NotNil(t, vitals.OxygenLevel)
	assert.Equal(t, 97.5, *vitals.OxygenLevel)
	assert.NotNil(t, vitals.Temperature)
	assert.Equal(t, 36.8, *vitals.Temperature)
	assert.NotNil(t, vitals.GlucoseLevel)
	assert.Equal(t, 102.0, *vitals.GlucoseLevel)
	assert.NotNil(t, vitals.BloodPressure)
	assert.Equal(t, 118, vitals.BloodPressure.Systolic)
	assert.Equal(t, 76, vitals.BloodPressure.Diastolic)

	assert.Equal(t, "Quarterly Labs", metadata.ReportName)
	assert.Equal(t, "Mercy West", metadata.HospitalName)
	assert.Equal(t, "Jane Adams", metadata.DoctorName)
	assert.Equal(t, now, metadata.ExtractedAt)
}

func TestParseVitalsText_PartialReport(t *testing.T) {
	vitals, metadata := ParseVitalsText("oxygen: 94", time.Now())

	assert.NotNil(t, vitals.OxygenLevel)
	assert.Equal(t, 94.0, *vitals.OxygenLevel)
	assert.Nil(t, vitals.HeartRate)
	assert.Nil(t, vitals.BloodPressure)
	assert.Empty(t, metadata.ReportName)
}

func TestParseVitalsText_NothingExtractable(t *testing.T) {
	vitals, _ := ParseVitalsText("the quick brown fox", time.Now())

	assert.False(t, vitals.HasVitals())
}

func TestPlainTextExtractor_PassThrough(t *testing.T) {
	text, err := NewPlainTextExtractor().ExtractText([]byte("heart rate: 70"))

	assert.NoError(t, err)
	assert.Equal(t, "heart rate: 70", text)
}
