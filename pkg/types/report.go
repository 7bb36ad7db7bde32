package types

import "time"

// ReportType selects the aggregation window for a health report
type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

// VitalStats is a min/avg/max rollup over one vital dimension
type VitalStats struct {
	Avg   float64 `json:"avg"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// ReportPeriod is the inclusive window a report covers
type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AlertSummary aggregates alert activity within a report window
type AlertSummary struct {
	Total      int            `json:"total"`
	Resolved   int            `json:"resolved"`
	Unresolved int            `json:"unresolved"`
	Breakdown  map[string]int `json:"breakdown"`
	Recent     []*Alert       `json:"recent"`
}

// RiskDetection flags emergency activity within a report window
type RiskDetection struct {
	EmergencyReadings int    `json:"emergency_readings"`
	RiskLevel         string `json:"risk_level"`
	Recommendation    string `json:"recommendation"`
}

// HealthReport is a windowed statistical rollup over a user's vitals and alerts
type HealthReport struct {
	ReportType      ReportType             `json:"report_type"`
	Period          ReportPeriod           `json:"period"`
	UserID          string                 `json:"user_id"`
	TotalRecords    int                    `json:"total_records"`
	SourceBreakdown map[string]int         `json:"source_breakdown"`
	Vitals          map[string]*VitalStats `json:"vitals"`
	Alerts          AlertSummary           `json:"alerts"`
	RiskDetection   RiskDetection          `json:"risk_detection"`
}
