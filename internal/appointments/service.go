package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

const defaultListLimit = 50

// Service implements appointment scheduling with conflict detection
type Service struct {
	repo   interfaces.AppointmentRepository
	logger *logger.Logger
}

// NewService creates the appointment service
func NewService(repo interfaces.AppointmentRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// CreateAppointment validates, checks the doctor's calendar for overlap, and
// persists a new appointment.
func (s *Service) CreateAppointment(apt *types.Appointment) (*types.Appointment, error) {
	if err := s.validateAppointment(apt); err != nil {
		return nil, err
	}

	conflicts, err := s.repo.GetConflictingAppointments(apt.DoctorID, &types.TimeSlot{
		StartTime: apt.StartTime,
		EndTime:   apt.EndTime,
	})
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, types.NewConflictError("doctor already has an appointment in this time slot")
	}

	apt.ID = uuid.New().String()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	if apt.Status == "" {
		apt.Status = string(types.AppointmentScheduled)
	}

	if err := s.repo.CreateAppointment(apt); err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"appointment_id": apt.ID,
		"doctor_id":      apt.DoctorID,
		"start_time":     apt.StartTime,
	}).Info("Appointment created")

	return apt, nil
}

// GetAppointment retrieves one appointment by ID
func (s *Service) GetAppointment(id string) (*types.Appointment, error) {
	return s.repo.GetAppointmentByID(id)
}

// UpdateAppointment applies partial updates, re-checking for conflicts when
// the time slot moves.
func (s *Service) UpdateAppointment(id string, updates *types.AppointmentUpdates) error {
	existing, err := s.repo.GetAppointmentByID(id)
	if err != nil {
		return err
	}

	if updates.StartTime != nil || updates.EndTime != nil {
		startTime := existing.StartTime
		endTime := existing.EndTime
		if updates.StartTime != nil {
			startTime = *updates.StartTime
		}
		if updates.EndTime != nil {
			endTime = *updates.EndTime
		}
		if !endTime.After(startTime) {
			return types.NewValidationError("end time must be after start time", nil)
		}

		conflicts, err := s.repo.GetConflictingAppointments(existing.DoctorID, &types.TimeSlot{
			StartTime: startTime,
			EndTime:   endTime,
		})
		if err != nil {
			return err
		}
		for _, conflict := range conflicts {
			if conflict.ID != id {
				return types.NewConflictError("doctor already has an appointment in this time slot")
			}
		}
	}

	return s.repo.UpdateAppointment(id, updates)
}

// CancelAppointment marks an appointment as cancelled
func (s *Service) CancelAppointment(id string) error {
	existing, err := s.repo.GetAppointmentByID(id)
	if err != nil {
		return err
	}
	if existing.Status == string(types.AppointmentCancelled) {
		return types.NewConflictError("appointment is already cancelled")
	}

	status := types.AppointmentCancelled
	if err := s.repo.UpdateAppointment(id, &types.AppointmentUpdates{Status: &status}); err != nil {
		return err
	}

	s.logger.WithField("appointment_id", id).Info("Appointment cancelled")
	return nil
}

// ListAppointments returns appointments matching the filters
func (s *Service) ListAppointments(filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	if filters == nil {
		filters = &types.AppointmentFilters{}
	}
	if filters.Limit <= 0 {
		filters.Limit = defaultListLimit
	}
	return s.repo.ListAppointments(filters)
}

// CheckAvailability reports whether a doctor has no overlapping appointment
// in the slot.
func (s *Service) CheckAvailability(doctorID string, slot *types.TimeSlot) (bool, error) {
	if doctorID == "" {
		return false, types.NewValidationError("doctor ID is required", nil)
	}
	if slot == nil || !slot.EndTime.After(slot.StartTime) {
		return false, types.NewValidationError("time slot end must be after start", nil)
	}

	conflicts, err := s.repo.GetConflictingAppointments(doctorID, slot)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

func (s *Service) validateAppointment(apt *types.Appointment) error {
	if apt.PatientID == "" {
		return types.NewValidationError("patient ID is required", nil)
	}
	if apt.DoctorID == "" {
		return types.NewValidationError("doctor ID is required", nil)
	}
	if apt.StartTime.IsZero() || apt.EndTime.IsZero() {
		return types.NewValidationError("start time and end time are required", nil)
	}
	if !apt.EndTime.After(apt.StartTime) {
		return types.NewValidationError("end time must be after start time", nil)
	}
	if apt.StartTime.Before(time.Now()) {
		return types.NewValidationError("cannot schedule an appointment in the past", nil)
	}
	if apt.Type == "" {
		return types.NewValidationError("appointment type is required", nil)
	}
	return nil
}
