package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

func readingWith(mutate func(r *types.VitalsReading)) *types.VitalsReading {
	r := &types.VitalsReading{
		ID:     "reading-1",
		UserID: "user-1",
		Source: types.SourceManual,
	}
	mutate(r)
	return r
}

func TestEvaluate_NoVitals_NoAlerts(t *testing.T) {
	reading := readingWith(func(r *types.VitalsReading) {})

	alerts := Evaluate(reading)

	assert.Empty(t, alerts)
}

func TestEvaluate_HeartRateBoundaries(t *testing.T) {
	tests := []struct {
		name         string
		heartRate    float64
		wantAlert    bool
		wantSeverity types.AlertSeverity
	}{
		{"at high threshold emits nothing", 120, false, ""},
		{"just above high threshold emits high", 121, true, types.SeverityHigh},
		{"at critical threshold stays high", 150, true, types.SeverityHigh},
		{"just above critical threshold emits critical", 151, true, types.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := readingWith(func(r *types.VitalsReading) {
				r.HeartRate = floatPtr(tt.heartRate)
			})

			alerts := Evaluate(reading)

			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			assert.Len(t, alerts, 1)
			assert.Equal(t, types.AlertHighHeartRate, alerts[0].AlertType)
			assert.Equal(t, tt.wantSeverity, alerts[0].Severity)
		})
	}
}

func TestEvaluate_CriticalHeartRate(t *testing.T) {
	reading := readingWith(func(r *types.VitalsReading) {
		r.HeartRate = floatPtr(160)
	})

	alerts := Evaluate(reading)

	assert.Len(t, alerts, 1)
	assert.Equal(t, types.AlertHighHeartRate, alerts[0].AlertType)
	assert.Equal(t, types.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "Critical heart rate: 160 bpm", alerts[0].Message)
}

func TestEvaluate_OxygenLevels(t *testing.T) {
	tests := []struct {
		name         string
		oxygen       float64
		wantAlert    bool
		wantSeverity types.AlertSeverity
	}{
		{"normal oxygen emits nothing", 96, false, ""},
		{"at low threshold emits nothing", 90, false, ""},
		{"below low threshold emits high", 87, true, types.SeverityHigh},
		{"at critical threshold stays high", 85, true, types.SeverityHigh},
		{"below critical threshold emits critical", 84, true, types.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := readingWith(func(r *types.VitalsReading) {
				r.OxygenLevel = floatPtr(tt.oxygen)
			})

			alerts := Evaluate(reading)

			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			assert.Len(t, alerts, 1)
			assert.Equal(t, types.AlertLowOxygen, alerts[0].AlertType)
			assert.Equal(t, tt.wantSeverity, alerts[0].Severity)
		})
	}
}

func TestEvaluate_GlucoseLevels(t *testing.T) {
	reading := readingWith(func(r *types.VitalsReading) {
		r.GlucoseLevel = floatPtr(250)
	})

	alerts := Evaluate(reading)

	assert.Len(t, alerts, 1)
	assert.Equal(t, types.AlertHighGlucose, alerts[0].AlertType)
	assert.Equal(t, types.SeverityHigh, alerts[0].Severity)

	critical := readingWith(func(r *types.VitalsReading) {
		r.GlucoseLevel = floatPtr(450)
	})

	alerts = Evaluate(critical)

	assert.Len(t, alerts, 1)
	assert.Equal(t, types.SeverityCritical, alerts[0].Severity)
}

func TestEvaluate_BloodPressure(t *testing.T) {
	tests := []struct {
		name         string
		systolic     int
		diastolic    int
		wantAlert    bool
		wantSeverity types.AlertSeverity
	}{
		{"normal pressure emits nothing", 120, 80, false, ""},
		{"high systolic emits high", 145, 80, true, types.SeverityHigh},
		{"high diastolic emits high", 120, 95, true, types.SeverityHigh},
		{"hypertensive crisis emits critical only", 185, 125, true, types.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading := readingWith(func(r *types.VitalsReading) {
				r.BloodPressure = &types.BloodPressure{Systolic: tt.systolic, Diastolic: tt.diastolic}
			})

			alerts := Evaluate(reading)

			if !tt.wantAlert {
				assert.Empty(t, alerts)
				return
			}
			assert.Len(t, alerts, 1)
			assert.Equal(t, types.AlertHighBP, alerts[0].AlertType)
			assert.Equal(t, tt.wantSeverity, alerts[0].Severity)
		})
	}
}

func TestEvaluate_TemperatureInclusiveBoundaries(t *testing.T) {
	fever := readingWith(func(r *types.VitalsReading) {
		r.Temperature = floatPtr(38.5)
	})

	alerts := Evaluate(fever)

	assert.Len(t, alerts, 1)
	assert.Equal(t, types.AlertTemperatureSpike, alerts[0].AlertType)
	assert.Equal(t, types.SeverityHigh, alerts[0].Severity)

	critical := readingWith(func(r *types.VitalsReading) {
		r.Temperature = floatPtr(40.0)
	})

	alerts = Evaluate(critical)

	assert.Len(t, alerts, 1)
	assert.Equal(t, types.SeverityCritical, alerts[0].Severity)
}

func TestEvaluate_AtMostOneAlertPerVital(t *testing.T) {
	// Every vital crosses both tiers; expect one critical alert per vital
	reading := readingWith(func(r *types.VitalsReading) {
		r.HeartRate = floatPtr(190)
		r.OxygenLevel = floatPtr(80)
		r.GlucoseLevel = floatPtr(450)
		r.BloodPressure = &types.BloodPressure{Systolic: 200, Diastolic: 125}
		r.Temperature = floatPtr(41)
	})

	alerts := Evaluate(reading)

	assert.Len(t, alerts, 5)

	seen := map[types.AlertType]int{}
	for _, alert := range alerts {
		seen[alert.AlertType]++
		assert.Equal(t, types.SeverityCritical, alert.Severity)
		assert.Equal(t, "user-1", alert.UserID)
		assert.NotNil(t, alert.ReadingID)
		assert.Equal(t, "reading-1", *alert.ReadingID)
	}
	for alertType, count := range seen {
		assert.Equal(t, 1, count, "duplicate alert for %s", alertType)
	}
}

func TestEvaluate_MixedSeverities(t *testing.T) {
	reading := readingWith(func(r *types.VitalsReading) {
		r.HeartRate = floatPtr(130)  // high tier only
		r.OxygenLevel = floatPtr(80) // critical tier
	})

	alerts := Evaluate(reading)

	assert.Len(t, alerts, 2)

	bySeverity := map[types.AlertType]types.AlertSeverity{}
	for _, alert := range alerts {
		bySeverity[alert.AlertType] = alert.Severity
	}
	assert.Equal(t, types.SeverityHigh, bySeverity[types.AlertHighHeartRate])
	assert.Equal(t, types.SeverityCritical, bySeverity[types.AlertLowOxygen])
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	reading := readingWith(func(r *types.VitalsReading) {
		r.HeartRate = floatPtr(160)
		r.Temperature = floatPtr(39)
	})

	first := Evaluate(reading)
	second := Evaluate(reading)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].AlertType, second[i].AlertType)
		assert.Equal(t, first[i].Severity, second[i].Severity)
		assert.Equal(t, first[i].Message, second[i].Message)
	}
}
