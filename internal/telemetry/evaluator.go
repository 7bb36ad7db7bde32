package telemetry

import (
	"fmt"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Clinical thresholds. Global constants, not per-patient.
const (
	heartRateHigh     = 120.0
	heartRateCritical = 150.0

	oxygenLow      = 90.0
	oxygenCritical = 85.0

	glucoseHigh     = 200.0
	glucoseCritical = 400.0

	systolicHigh      = 140
	diastolicHigh     = 90
	systolicCritical  = 180
	diastolicCritical = 120

	temperatureHigh     = 38.5
	temperatureCritical = 40.0
)

// alertTier is one severity rung of a vital's threshold ladder
type alertTier struct {
	severity types.AlertSeverity
	match    func(r *types.VitalsReading) bool
	message  func(r *types.VitalsReading) string
}

// vitalRule is the ordered threshold ladder for one vital dimension.
// Tiers are checked top-down (critical first) and the first match wins,
// so a reading never produces both a critical and a high alert for the
// same vital.
type vitalRule struct {
	alertType types.AlertType
	present   func(r *types.VitalsReading) bool
	tiers     []alertTier
}

var vitalRules = []vitalRule{
	{
		alertType: types.AlertHighHeartRate,
		present:   func(r *types.VitalsReading) bool { return r.HeartRate != nil },
		tiers: []alertTier{
			{
				severity: types.SeverityCritical,
				match:    func(r *types.VitalsReading) bool { return *r.HeartRate > heartRateCritical },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Critical heart rate: %g bpm", *r.HeartRate)
				},
			},
			{
				severity: types.SeverityHigh,
				match:    func(r *types.VitalsReading) bool { return *r.HeartRate > heartRateHigh },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("High heart rate: %g bpm", *r.HeartRate)
				},
			},
		},
	},
	{
		alertType: types.AlertLowOxygen,
		present:   func(r *types.VitalsReading) bool { return r.OxygenLevel != nil },
		tiers: []alertTier{
			{
				severity: types.SeverityCritical,
				match:    func(r *types.VitalsReading) bool { return *r.OxygenLevel < oxygenCritical },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Low oxygen level: %g%%", *r.OxygenLevel)
				},
			},
			{
				severity: types.SeverityHigh,
				match:    func(r *types.VitalsReading) bool { return *r.OxygenLevel < oxygenLow },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Low oxygen level: %g%%", *r.OxygenLevel)
				},
			},
		},
	},
	{
		alertType: types.AlertHighGlucose,
		present:   func(r *types.VitalsReading) bool { return r.GlucoseLevel != nil },
		tiers: []alertTier{
			{
				severity: types.SeverityCritical,
				match:    func(r *types.VitalsReading) bool { return *r.GlucoseLevel > glucoseCritical },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Critical glucose level: %g mg/dL", *r.GlucoseLevel)
				},
			},
			{
				severity: types.SeverityHigh,
				match:    func(r *types.VitalsReading) bool { return *r.GlucoseLevel > glucoseHigh },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("High glucose level: %g mg/dL", *r.GlucoseLevel)
				},
			},
		},
	},
	{
		alertType: types.AlertHighBP,
		present:   func(r *types.VitalsReading) bool { return r.BloodPressure != nil },
		tiers: []alertTier{
			{
				severity: types.SeverityCritical,
				match: func(r *types.VitalsReading) bool {
					return r.BloodPressure.Systolic > systolicCritical || r.BloodPressure.Diastolic > diastolicCritical
				},
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Hypertensive crisis: %d/%d mmHg", r.BloodPressure.Systolic, r.BloodPressure.Diastolic)
				},
			},
			{
				severity: types.SeverityHigh,
				match: func(r *types.VitalsReading) bool {
					return r.BloodPressure.Systolic > systolicHigh || r.BloodPressure.Diastolic > diastolicHigh
				},
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("High blood pressure: %d/%d mmHg", r.BloodPressure.Systolic, r.BloodPressure.Diastolic)
				},
			},
		},
	},
	{
		alertType: types.AlertTemperatureSpike,
		present:   func(r *types.VitalsReading) bool { return r.Temperature != nil },
		tiers: []alertTier{
			{
				severity: types.SeverityCritical,
				match:    func(r *types.VitalsReading) bool { return *r.Temperature >= temperatureCritical },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("Critical temperature: %g°C", *r.Temperature)
				},
			},
			{
				severity: types.SeverityHigh,
				match:    func(r *types.VitalsReading) bool { return *r.Temperature >= temperatureHigh },
				message: func(r *types.VitalsReading) string {
					return fmt.Sprintf("High temperature (fever): %g°C", *r.Temperature)
				},
			},
		},
	},
}

// Evaluate compares a reading against the clinical thresholds and returns
// alert drafts for every vital that crossed one. Pure, deterministic, no I/O.
// At most one alert is emitted per vital dimension. The caller is responsible
// for persisting the drafts.
func Evaluate(reading *types.VitalsReading) []*types.Alert {
	var alerts []*types.Alert

	for _, rule := range vitalRules {
		if !rule.present(reading) {
			continue
		}
		for _, tier := range rule.tiers {
			if tier.match(reading) {
				readingID := reading.ID
				alerts = append(alerts, &types.Alert{
					UserID:    reading.UserID,
					ReadingID: &readingID,
					AlertType: rule.alertType,
					Severity:  tier.severity,
					Message:   tier.message(reading),
				})
				break
			}
		}
	}

	return alerts
}
