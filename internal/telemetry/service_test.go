package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// MockTelemetryRepository is a mock implementation of TelemetryRepository
type MockTelemetryRepository struct {
	mock.Mock
}

func (m *MockTelemetryRepository) CreateReading(reading *types.VitalsReading) error {
	args := m.Called(reading)
	return args.Error(0)
}

func (m *MockTelemetryRepository) GetReadingByID(id string) (*types.VitalsReading, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.VitalsReading), args.Error(1)
}

func (m *MockTelemetryRepository) ListReadings(userID string, filters *types.ReadingFilters) ([]*types.VitalsReading, error) {
	args := m.Called(userID, filters)
	return args.Get(0).([]*types.VitalsReading), args.Error(1)
}

func (m *MockTelemetryRepository) ListReadingsBetween(userID string, from, to time.Time) ([]*types.VitalsReading, error) {
	args := m.Called(userID, from, to)
	return args.Get(0).([]*types.VitalsReading), args.Error(1)
}

func (m *MockTelemetryRepository) CreateAlerts(alerts []*types.Alert) error {
	args := m.Called(alerts)
	return args.Error(0)
}

func (m *MockTelemetryRepository) ListAlerts(userID string, filters *types.AlertFilters) ([]*types.Alert, error) {
	args := m.Called(userID, filters)
	return args.Get(0).([]*types.Alert), args.Error(1)
}

func (m *MockTelemetryRepository) ListAlertsBetween(userID string, from, to time.Time) ([]*types.Alert, error) {
	args := m.Called(userID, from, to)
	return args.Get(0).([]*types.Alert), args.Error(1)
}

func (m *MockTelemetryRepository) ResolveAlert(id string, resolvedAt time.Time) (*types.Alert, error) {
	args := m.Called(id, resolvedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Alert), args.Error(1)
}

func setupTestService() (*Service, *MockTelemetryRepository) {
	mockRepo := &MockTelemetryRepository{}
	service := NewService(mockRepo, NewPlainTextExtractor(), logger.New("debug"), nil)
	return service, mockRepo
}

func TestRecordManual_Success(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil)

	result, err := service.RecordManual("user-1", &types.VitalsInput{
		HeartRate: floatPtr(160),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.AlertCount)
	assert.Equal(t, types.AlertHighHeartRate, result.Alerts[0].AlertType)
	assert.Equal(t, types.SeverityCritical, result.Alerts[0].Severity)
	assert.Equal(t, types.SourceManual, result.Reading.Source)
	assert.NotEmpty(t, result.Reading.ID)
	mockRepo.AssertExpectations(t)
}

func TestRecordManual_NormalVitals_NoAlerts(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)

	result, err := service.RecordManual("user-1", &types.VitalsInput{
		HeartRate:   floatPtr(72),
		OxygenLevel: floatPtr(98),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.AlertCount)
	mockRepo.AssertNotCalled(t, "CreateAlerts", mock.Anything)
}

func TestRecordManual_RequiresAtLeastOneVital(t *testing.T) {
	service, mockRepo := setupTestService()

	_, err := service.RecordManual("user-1", &types.VitalsInput{})

	assert.Error(t, err)
	assert.True(t, types.IsValidation(err))
	mockRepo.AssertNotCalled(t, "CreateReading", mock.Anything)
}

func TestRecordManual_RequiresUserID(t *testing.T) {
	service, _ := setupTestService()

	_, err := service.RecordManual("", &types.VitalsInput{HeartRate: floatPtr(70)})

	assert.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestRecordFromDocument_ExtractsVitals(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil)

	document := []byte("Report: Annual Checkup\nHospital: City General\nDr. Smith\nHeart Rate: 130\nSpO2: 97\n140/95\nGlucose: 110\n")

	result, err := service.RecordFromDocument("user-1", document, "report.txt")

	assert.NoError(t, err)
	assert.Equal(t, types.SourceDocument, result.Reading.Source)
	assert.Equal(t, "report.txt", result.Reading.DocumentPath)
	assert.NotNil(t, result.Reading.HeartRate)
	assert.Equal(t, 130.0, *result.Reading.HeartRate)
	assert.NotNil(t, result.Reading.BloodPressure)
	assert.Equal(t, 140, result.Reading.BloodPressure.Systolic)
	assert.Equal(t, 95, result.Reading.BloodPressure.Diastolic)
	assert.NotEmpty(t, result.ExtractedText)

	// 130 bpm and 140/95 both cross the high tier
	assert.Equal(t, 2, result.AlertCount)
}

func TestRecordFromDocument_ZeroVitalsStillAccepted(t *testing.T) {
	// Unlike manual entry, a document with no extractable vitals is persisted
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)

	result, err := service.RecordFromDocument("user-1", []byte("illegible scan, nothing usable"), "scan.txt")

	assert.NoError(t, err)
	assert.Equal(t, 0, result.AlertCount)
	assert.False(t, result.Reading.HasVitals())
	mockRepo.AssertCalled(t, "CreateReading", mock.AnythingOfType("*types.VitalsReading"))
}

func TestRecordFromDocument_EmptyDocumentRejected(t *testing.T) {
	service, _ := setupTestService()

	_, err := service.RecordFromDocument("user-1", nil, "empty.txt")

	assert.Error(t, err)
	assert.True(t, types.IsValidation(err))
}

func TestRecordSimulated_InvalidScenario(t *testing.T) {
	service, mockRepo := setupTestService()

	_, err := service.RecordSimulated("user-1", "meltdown")

	assert.Error(t, err)
	assert.True(t, types.IsValidation(err))
	mockRepo.AssertNotCalled(t, "CreateReading", mock.Anything)
}

func TestRecordSimulated_EmergencyMarksReading(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil)

	result, err := service.RecordSimulated("user-1", types.ScenarioEmergency)

	assert.NoError(t, err)
	assert.True(t, result.Reading.IsEmergency)
	assert.Equal(t, types.SourceSimulator, result.Reading.Source)
	assert.Equal(t, "Simulated - emergency", result.Reading.Metadata.ReportName)
	// Emergency ranges always cross at least the heart rate threshold
	assert.Greater(t, result.AlertCount, 0)
}

func TestRecordSimulated_NormalNotEmergency(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil).Maybe()

	result, err := service.RecordSimulated("user-1", types.ScenarioNormal)

	assert.NoError(t, err)
	assert.False(t, result.Reading.IsEmergency)
}

func TestRecordBulkSimulated_EnforcesCap(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil).Maybe()

	results, err := service.RecordBulkSimulated("user-1", 25, types.ScenarioNormal)

	assert.NoError(t, err)
	assert.Len(t, results, 20)
	mockRepo.AssertNumberOfCalls(t, "CreateReading", 20)
}

func TestRecordBulkSimulated_DefaultCount(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("CreateReading", mock.AnythingOfType("*types.VitalsReading")).Return(nil)
	mockRepo.On("CreateAlerts", mock.AnythingOfType("[]*types.Alert")).Return(nil).Maybe()

	results, err := service.RecordBulkSimulated("user-1", 0, types.ScenarioNormal)

	assert.NoError(t, err)
	assert.Len(t, results, 5)
}

func TestResolveAlert_Success(t *testing.T) {
	service, mockRepo := setupTestService()

	resolvedAt := time.Now()
	mockRepo.On("ResolveAlert", "alert-1", mock.AnythingOfType("time.Time")).Return(&types.Alert{
		ID:         "alert-1",
		UserID:     "user-1",
		AlertType:  types.AlertHighHeartRate,
		Severity:   types.SeverityHigh,
		Resolved:   true,
		ResolvedAt: &resolvedAt,
	}, nil)

	alert, err := service.ResolveAlert("alert-1")

	assert.NoError(t, err)
	assert.True(t, alert.Resolved)
	assert.NotNil(t, alert.ResolvedAt)
}

func TestResolveAlert_NotFound(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("ResolveAlert", "missing", mock.AnythingOfType("time.Time")).
		Return(nil, types.NewNotFoundError("alert not found: missing"))

	_, err := service.ResolveAlert("missing")

	assert.Error(t, err)
	assert.True(t, types.IsNotFound(err))
}

func TestListAlerts_DefaultsLimit(t *testing.T) {
	service, mockRepo := setupTestService()

	mockRepo.On("ListAlerts", "user-1", mock.MatchedBy(func(f *types.AlertFilters) bool {
		return f.Limit == 50
	})).Return([]*types.Alert{}, nil)

	_, err := service.ListAlerts("user-1", nil)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
