package interfaces

import "github.com/LEULEX-404/Health-Tracker/pkg/types"

// AppointmentService defines appointment management operations
type AppointmentService interface {
	CreateAppointment(apt *types.Appointment) (*types.Appointment, error)
	GetAppointment(id string) (*types.Appointment, error)
	UpdateAppointment(id string, updates *types.AppointmentUpdates) error
	CancelAppointment(id string) error
	ListAppointments(filters *types.AppointmentFilters) ([]*types.Appointment, error)
	CheckAvailability(doctorID string, slot *types.TimeSlot) (bool, error)
}

// AppointmentRepository defines persistence for appointments
type AppointmentRepository interface {
	CreateAppointment(apt *types.Appointment) error
	GetAppointmentByID(id string) (*types.Appointment, error)
	UpdateAppointment(id string, updates *types.AppointmentUpdates) error
	ListAppointments(filters *types.AppointmentFilters) ([]*types.Appointment, error)
	GetConflictingAppointments(doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error)
}
