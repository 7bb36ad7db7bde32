package telemetry

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Extraction patterns for lab-report style documents
var (
	heartRatePattern   = regexp.MustCompile(`(?i)heart\s*rate[:\s]+(\d+(\.\d+)?)`)
	oxygenPattern      = regexp.MustCompile(`(?i)(?:spo2|oxygen)[:\s]+(\d+(\.\d+)?)`)
	glucosePattern     = regexp.MustCompile(`(?i)glucose[:\s]+(\d+(\.\d+)?)`)
	temperaturePattern = regexp.MustCompile(`(?i)temp(?:erature)?[:\s]+(\d+(\.\d+)?)`)
	bloodPressurePattern = regexp.MustCompile(`(\d{2,3})\s*/\s*(\d{2,3})`)

	reportNamePattern = regexp.MustCompile(`(?i)report(?:\s+name)?[:\s]+([^\n]+)`)
	hospitalPattern   = regexp.MustCompile(`(?i)hospital[:\s]+([^\n]+)`)
	doctorPattern     = regexp.MustCompile(`(?i)(?:dr\.?|doctor)[:\s]+([^\n]+)`)
)

// ParseVitalsText extracts whatever vitals and metadata can be found in the
// raw text of an uploaded document. Every field is optional; a document that
// yields no vitals at all is still accepted upstream.
func ParseVitalsText(raw string, extractedAt time.Time) (*types.VitalsInput, *types.ReadingMetadata) {
	vitals := &types.VitalsInput{
		HeartRate:    matchFloat(heartRatePattern, raw),
		OxygenLevel:  matchFloat(oxygenPattern, raw),
		GlucoseLevel: matchFloat(glucosePattern, raw),
		Temperature:  matchFloat(temperaturePattern, raw),
	}

	if m := bloodPressurePattern.FindStringSubmatch(raw); m != nil {
		systolic, err1 := strconv.Atoi(m[1])
		diastolic, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			vitals.BloodPressure = &types.BloodPressure{
				Systolic:  systolic,
				Diastolic: diastolic,
			}
		}
	}

	metadata := &types.ReadingMetadata{
		ReportName:   matchLine(reportNamePattern, raw),
		HospitalName: matchLine(hospitalPattern, raw),
		DoctorName:   matchLine(doctorPattern, raw),
		ExtractedAt:  extractedAt,
	}

	return vitals, metadata
}

func matchFloat(pattern *regexp.Regexp, raw string) *float64 {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

func matchLine(pattern *regexp.Regexp, raw string) string {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// PlainTextExtractor treats uploaded document bytes as plain text. It stands
// in for a heavier document parser behind the TextExtractor interface.
type PlainTextExtractor struct{}

// NewPlainTextExtractor creates a plain-text document extractor
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{}
}

// ExtractText returns the document content as a string
func (e *PlainTextExtractor) ExtractText(data []byte) (string, error) {
	return string(data), nil
}
