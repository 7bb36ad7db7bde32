package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// MockAppointmentRepository is a mock implementation of AppointmentRepository
type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) CreateAppointment(apt *types.Appointment) error {
	args := m.Called(apt)
	return args.Error(0)
}

func (m *MockAppointmentRepository) GetAppointmentByID(id string) (*types.Appointment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) UpdateAppointment(id string, updates *types.AppointmentUpdates) error {
	args := m.Called(id, updates)
	return args.Error(0)
}

func (m *MockAppointmentRepository) ListAppointments(filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	args := m.Called(filters)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func (m *MockAppointmentRepository) GetConflictingAppointments(doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error) {
	args := m.Called(doctorID, slot)
	return args.Get(0).([]*types.Appointment), args.Error(1)
}

func setupAppointmentService() (*Service, *MockAppointmentRepository) {
	mockRepo := &MockAppointmentRepository{}
	service := NewService(mockRepo, logger.New("debug"))
	return service, mockRepo
}

func futureAppointment() *types.Appointment {
	start := time.Now().Add(24 * time.Hour)
	return &types.Appointment{
		PatientID: "patient-1",
		DoctorID:  "doctor-1",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Type:      "consultation",
	}
}

func TestCreateAppointment_Success(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	mockRepo.On("GetConflictingAppointments", "doctor-1", mock.AnythingOfType("*types.TimeSlot")).
		Return([]*types.Appointment{}, nil)
	mockRepo.On("CreateAppointment", mock.AnythingOfType("*types.Appointment")).Return(nil)

	created, err := service.CreateAppointment(futureAppointment())

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, string(types.AppointmentScheduled), created.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreateAppointment_ConflictRejected(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	mockRepo.On("GetConflictingAppointments", "doctor-1", mock.AnythingOfType("*types.TimeSlot")).
		Return([]*types.Appointment{{ID: "apt-existing"}}, nil)

	_, err := service.CreateAppointment(futureAppointment())

	assert.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.ErrCodeConflict, appErr.Code)
	mockRepo.AssertNotCalled(t, "CreateAppointment", mock.Anything)
}

func TestCreateAppointment_ValidationFailures(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	tests := []struct {
		name   string
		mutate func(apt *types.Appointment)
	}{
		{"missing patient", func(apt *types.Appointment) { apt.PatientID = "" }},
		{"missing doctor", func(apt *types.Appointment) { apt.DoctorID = "" }},
		{"missing type", func(apt *types.Appointment) { apt.Type = "" }},
		{"end before start", func(apt *types.Appointment) { apt.EndTime = apt.StartTime.Add(-time.Hour) }},
		{"end equals start", func(apt *types.Appointment) { apt.EndTime = apt.StartTime }},
		{"in the past", func(apt *types.Appointment) {
			apt.StartTime = time.Now().Add(-2 * time.Hour)
			apt.EndTime = time.Now().Add(-time.Hour)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apt := futureAppointment()
			tt.mutate(apt)

			_, err := service.CreateAppointment(apt)

			assert.Error(t, err)
			assert.True(t, types.IsValidation(err))
		})
	}

	mockRepo.AssertNotCalled(t, "GetConflictingAppointments", mock.Anything, mock.Anything)
}

func TestUpdateAppointment_RescheduleChecksConflicts(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	existing := futureAppointment()
	existing.ID = "apt-1"

	newStart := existing.StartTime.Add(2 * time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	mockRepo.On("GetAppointmentByID", "apt-1").Return(existing, nil)
	mockRepo.On("GetConflictingAppointments", "doctor-1", mock.MatchedBy(func(slot *types.TimeSlot) bool {
		return slot.StartTime.Equal(newStart) && slot.EndTime.Equal(newEnd)
	})).Return([]*types.Appointment{{ID: "apt-other"}}, nil)

	err := service.UpdateAppointment("apt-1", &types.AppointmentUpdates{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateAppointment", mock.Anything, mock.Anything)
}

func TestUpdateAppointment_SelfConflictIgnored(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	existing := futureAppointment()
	existing.ID = "apt-1"

	newStart := existing.StartTime.Add(time.Hour)
	newEnd := newStart.Add(30 * time.Minute)

	mockRepo.On("GetAppointmentByID", "apt-1").Return(existing, nil)
	mockRepo.On("GetConflictingAppointments", "doctor-1", mock.AnythingOfType("*types.TimeSlot")).
		Return([]*types.Appointment{{ID: "apt-1"}}, nil)
	mockRepo.On("UpdateAppointment", "apt-1", mock.AnythingOfType("*types.AppointmentUpdates")).Return(nil)

	err := service.UpdateAppointment("apt-1", &types.AppointmentUpdates{
		StartTime: &newStart,
		EndTime:   &newEnd,
	})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdateAppointment_NotesOnlySkipsConflictCheck(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	existing := futureAppointment()
	existing.ID = "apt-1"
	notes := "bring previous reports"

	mockRepo.On("GetAppointmentByID", "apt-1").Return(existing, nil)
	mockRepo.On("UpdateAppointment", "apt-1", mock.AnythingOfType("*types.AppointmentUpdates")).Return(nil)

	err := service.UpdateAppointment("apt-1", &types.AppointmentUpdates{Notes: &notes})

	require.NoError(t, err)
	mockRepo.AssertNotCalled(t, "GetConflictingAppointments", mock.Anything, mock.Anything)
}

func TestCancelAppointment(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	existing := futureAppointment()
	existing.ID = "apt-1"
	existing.Status = string(types.AppointmentScheduled)

	mockRepo.On("GetAppointmentByID", "apt-1").Return(existing, nil)
	mockRepo.On("UpdateAppointment", "apt-1", mock.MatchedBy(func(u *types.AppointmentUpdates) bool {
		return u.Status != nil && *u.Status == types.AppointmentCancelled
	})).Return(nil)

	err := service.CancelAppointment("apt-1")

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCancelAppointment_AlreadyCancelled(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	existing := futureAppointment()
	existing.ID = "apt-1"
	existing.Status = string(types.AppointmentCancelled)

	mockRepo.On("GetAppointmentByID", "apt-1").Return(existing, nil)

	err := service.CancelAppointment("apt-1")

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "UpdateAppointment", mock.Anything, mock.Anything)
}

func TestCheckAvailability(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	slot := &types.TimeSlot{
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
	}

	mockRepo.On("GetConflictingAppointments", "doctor-1", slot).
		Return([]*types.Appointment{}, nil).Once()

	available, err := service.CheckAvailability("doctor-1", slot)
	require.NoError(t, err)
	assert.True(t, available)

	mockRepo.On("GetConflictingAppointments", "doctor-1", slot).
		Return([]*types.Appointment{{ID: "apt-1"}}, nil).Once()

	available, err = service.CheckAvailability("doctor-1", slot)
	require.NoError(t, err)
	assert.False(t, available)
}

func TestCheckAvailability_InvalidSlot(t *testing.T) {
	service, _ := setupAppointmentService()

	now := time.Now()
	_, err := service.CheckAvailability("doctor-1", &types.TimeSlot{StartTime: now, EndTime: now})
	assert.Error(t, err)

	_, err = service.CheckAvailability("", &types.TimeSlot{StartTime: now, EndTime: now.Add(time.Hour)})
	assert.Error(t, err)
}

func TestListAppointments_DefaultLimit(t *testing.T) {
	service, mockRepo := setupAppointmentService()

	mockRepo.On("ListAppointments", mock.MatchedBy(func(f *types.AppointmentFilters) bool {
		return f.Limit == 50
	})).Return([]*types.Appointment{}, nil)

	_, err := service.ListAppointments(&types.AppointmentFilters{})

	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
