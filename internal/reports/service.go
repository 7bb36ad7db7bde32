package reports

import (
	"math"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

const recentAlertCount = 5

// Risk level thresholds on emergency reading counts within the window
const (
	highRiskEmergencies   = 5
	mediumRiskEmergencies = 2
)

// Service builds windowed statistical rollups over a user's readings and
// alerts. Reports are computed on demand and never persisted.
type Service struct {
	repo   interfaces.TelemetryRepository
	logger *logger.Logger
}

// NewService creates the report service
func NewService(repo interfaces.TelemetryRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// GenerateReport aggregates the user's readings and alerts over the window
// implied by reportType.
func (s *Service) GenerateReport(userID string, reportType types.ReportType, now time.Time) (*types.HealthReport, error) {
	if userID == "" {
		return nil, types.NewValidationError("user ID is required", nil)
	}

	start, end, err := reportWindow(reportType, now)
	if err != nil {
		return nil, err
	}

	readings, err := s.repo.ListReadingsBetween(userID, start, end)
	if err != nil {
		return nil, err
	}

	alerts, err := s.repo.ListAlertsBetween(userID, start, end)
	if err != nil {
		return nil, err
	}

	report := &types.HealthReport{
		ReportType:      reportType,
		Period:          types.ReportPeriod{Start: start, End: end},
		UserID:          userID,
		TotalRecords:    len(readings),
		SourceBreakdown: sourceBreakdown(readings),
		Vitals: map[string]*types.VitalStats{
			"heart_rate":    buildStats(readings, func(r *types.VitalsReading) *float64 { return r.HeartRate }),
			"oxygen_level":  buildStats(readings, func(r *types.VitalsReading) *float64 { return r.OxygenLevel }),
			"temperature":   buildStats(readings, func(r *types.VitalsReading) *float64 { return r.Temperature }),
			"glucose_level": buildStats(readings, func(r *types.VitalsReading) *float64 { return r.GlucoseLevel }),
		},
		Alerts:        summarizeAlerts(alerts),
		RiskDetection: detectRisk(readings),
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id":     userID,
		"report_type": reportType,
		"records":     report.TotalRecords,
		"risk_level":  report.RiskDetection.RiskLevel,
	}).Info("Health report generated")

	return report, nil
}

// reportWindow returns the inclusive aggregation window ending today. Daily
// covers today, weekly the trailing 7 days, monthly the trailing calendar
// month.
func reportWindow(reportType types.ReportType, now time.Time) (start, end time.Time, err error) {
	end = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch reportType {
	case types.ReportDaily:
		start = end
	case types.ReportWeekly:
		start = end.AddDate(0, 0, -7)
	case types.ReportMonthly:
		start = end.AddDate(0, -1, 0)
	default:
		return time.Time{}, time.Time{}, types.NewValidationError("report type must be daily, weekly or monthly", nil)
	}

	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, now.Location())
	return start, end, nil
}

// buildStats computes min/avg/max over one vital, skipping readings where it
// is absent. Returns nil when no reading carries the vital.
func buildStats(readings []*types.VitalsReading, extract func(*types.VitalsReading) *float64) *types.VitalStats {
	var values []float64
	for _, reading := range readings {
		if v := extract(reading); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}

	stats := &types.VitalStats{
		Min:   values[0],
		Max:   values[0],
		Count: len(values),
	}
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Avg = roundTo2(sum / float64(len(values)))
	return stats
}

func sourceBreakdown(readings []*types.VitalsReading) map[string]int {
	breakdown := make(map[string]int)
	for _, reading := range readings {
		breakdown[string(reading.Source)]++
	}
	return breakdown
}

func summarizeAlerts(alerts []*types.Alert) types.AlertSummary {
	summary := types.AlertSummary{
		Total:     len(alerts),
		Breakdown: make(map[string]int),
	}
	for _, alert := range alerts {
		summary.Breakdown[string(alert.Severity)]++
		if alert.Resolved {
			summary.Resolved++
		} else {
			summary.Unresolved++
		}
	}

	// Alerts arrive oldest-first; Recent lists the newest ones first.
	count := len(alerts)
	if count > recentAlertCount {
		count = recentAlertCount
	}
	recent := make([]*types.Alert, 0, count)
	for i := len(alerts) - 1; i >= len(alerts)-count; i-- {
		recent = append(recent, alerts[i])
	}
	summary.Recent = recent
	return summary
}

func detectRisk(readings []*types.VitalsReading) types.RiskDetection {
	emergencies := 0
	for _, reading := range readings {
		if reading.IsEmergency {
			emergencies++
		}
	}

	risk := types.RiskDetection{EmergencyReadings: emergencies}
	switch {
	case emergencies > highRiskEmergencies:
		risk.RiskLevel = "high"
		risk.Recommendation = "Immediate medical consultation recommended."
	case emergencies > mediumRiskEmergencies:
		risk.RiskLevel = "medium"
		risk.Recommendation = "Schedule a check-up soon."
	default:
		risk.RiskLevel = "low"
		risk.Recommendation = "Readings are within normal range."
	}
	return risk
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
