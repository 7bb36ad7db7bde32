package telemetry

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/monitoring"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Scenario roulette weights for the continuous simulator
const (
	emergencyWeight  = 0.15
	oxygenDropWeight = 0.10
)

func randFloat(min, max float64) float64 {
	v := rand.Float64()*(max-min) + min
	return math.Round(v*10) / 10
}

func randInt(min, max int) int {
	return rand.Intn(max-min+1) + min
}

func floatPtr(v float64) *float64 { return &v }

// generateNormalVitals produces a reading inside healthy ranges
func generateNormalVitals() *types.VitalsInput {
	return &types.VitalsInput{
		HeartRate:     floatPtr(float64(randInt(60, 100))),
		BloodPressure: &types.BloodPressure{Systolic: randInt(110, 130), Diastolic: randInt(70, 85)},
		OxygenLevel:   floatPtr(randFloat(96, 100)),
		Temperature:   floatPtr(randFloat(36.1, 37.2)),
		GlucoseLevel:  floatPtr(float64(randInt(80, 140))),
	}
}

// generateEmergencyVitals produces a multi-vital spike
func generateEmergencyVitals() *types.VitalsInput {
	return &types.VitalsInput{
		HeartRate:     floatPtr(float64(randInt(150, 200))),
		BloodPressure: &types.BloodPressure{Systolic: randInt(180, 220), Diastolic: randInt(110, 130)},
		OxygenLevel:   floatPtr(randFloat(92, 95)),
		Temperature:   floatPtr(randFloat(39.5, 41.0)),
		GlucoseLevel:  floatPtr(float64(randInt(350, 500))),
	}
}

// generateOxygenDropVitals produces a desaturation event with otherwise
// near-normal vitals
func generateOxygenDropVitals() *types.VitalsInput {
	return &types.VitalsInput{
		HeartRate:     floatPtr(float64(randInt(90, 130))),
		BloodPressure: &types.BloodPressure{Systolic: randInt(100, 130), Diastolic: randInt(65, 85)},
		OxygenLevel:   floatPtr(randFloat(78, 88)),
		Temperature:   floatPtr(randFloat(36.5, 37.8)),
		GlucoseLevel:  floatPtr(float64(randInt(80, 160))),
	}
}

// generateVitals maps a scenario to its generator. Unknown scenarios fall
// back to normal ranges.
func generateVitals(scenario types.SimScenario) *types.VitalsInput {
	switch scenario {
	case types.ScenarioEmergency:
		return generateEmergencyVitals()
	case types.ScenarioOxygenDrop:
		return generateOxygenDropVitals()
	default:
		return generateNormalVitals()
	}
}

// scenarioIsEmergency reports whether a scenario marks its readings as
// emergency events
func scenarioIsEmergency(scenario types.SimScenario) bool {
	return scenario == types.ScenarioEmergency || scenario == types.ScenarioOxygenDrop
}

// rollScenario draws a scenario using the fixed roulette weights:
// 15% emergency, 10% oxygen_drop, 75% normal.
func rollScenario(roll float64) types.SimScenario {
	switch {
	case roll < emergencyWeight:
		return types.ScenarioEmergency
	case roll < emergencyWeight+oxygenDropWeight:
		return types.ScenarioOxygenDrop
	default:
		return types.ScenarioNormal
	}
}

// Simulator is the continuous background load generator. Every tick it draws
// a scenario per known user and pushes one simulated reading through the
// regular ingestion pipeline.
type Simulator struct {
	service  interfaces.TelemetryService
	users    interfaces.UserDirectory
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
	interval time.Duration
}

// NewSimulator creates the continuous vitals simulator
func NewSimulator(service interfaces.TelemetryService, users interfaces.UserDirectory, log *logger.Logger, metrics *monitoring.MetricsCollector, interval time.Duration) *Simulator {
	return &Simulator{
		service:  service,
		users:    users,
		logger:   log,
		metrics:  metrics,
		interval: interval,
	}
}

// Run executes the simulator loop until the context is cancelled. Ticks are
// serialized; a slow tick delays the next one rather than overlapping it.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.WithComponent("simulator").WithField("interval", s.interval.String()).Info("Continuous simulator started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.WithComponent("simulator").Info("Continuous simulator stopped")
			return
		case <-ticker.C:
			s.RunTick(ctx)
		}
	}
}

// RunTick performs one simulation pass over all known users
func (s *Simulator) RunTick(ctx context.Context) {
	start := time.Now()

	userIDs, err := s.users.ListUserIDs()
	if err != nil {
		s.logger.WithComponent("simulator").WithError(err).Error("Failed to list users")
		return
	}

	if len(userIDs) == 0 {
		s.logger.WithComponent("simulator").Debug("No users found, skipping tick")
		return
	}

	failures := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}

		scenario := rollScenario(rand.Float64())
		result, err := s.service.RecordSimulated(userID, scenario)
		if err != nil {
			failures++
			s.logger.WithComponent("simulator").WithField("user_id", userID).WithError(err).Error("Simulated ingestion failed")
			continue
		}

		s.logger.WithFields(map[string]interface{}{
			"component": "simulator",
			"user_id":   userID,
			"scenario":  string(scenario),
			"alerts":    result.AlertCount,
		}).Debug("Simulated reading created")
	}

	if s.metrics != nil {
		s.metrics.RecordBackgroundTick("simulator", time.Since(start))
	}
	s.logger.BackgroundTick("simulator", time.Since(start).Milliseconds(), len(userIDs)-failures, failures)
}
