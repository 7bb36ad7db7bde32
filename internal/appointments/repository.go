package appointments

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/LEULEX-404/Health-Tracker/pkg/database"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

const appointmentSelectColumns = `
	id, patient_id, doctor_id, start_time, end_time, type, status, notes, location, created_at, updated_at`

// Repository persists appointments in PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates the appointment repository
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreateAppointment inserts a new appointment
func (r *Repository) CreateAppointment(apt *types.Appointment) error {
	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, start_time, end_time, type, status, notes, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		apt.ID, apt.PatientID, apt.DoctorID, apt.StartTime, apt.EndTime,
		apt.Type, apt.Status, nullableString(apt.Notes), nullableString(apt.Location),
		apt.CreatedAt, apt.UpdatedAt)
	if err != nil {
		return types.NewStorageError("failed to create appointment", err)
	}
	return nil
}

// GetAppointmentByID returns a single appointment
func (r *Repository) GetAppointmentByID(id string) (*types.Appointment, error) {
	query := `SELECT` + appointmentSelectColumns + ` FROM appointments WHERE id = $1`

	apt, err := scanAppointment(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.NewNotFoundError("appointment not found")
		}
		return nil, types.NewStorageError("failed to get appointment", err)
	}
	return apt, nil
}

// UpdateAppointment applies non-nil fields from updates
func (r *Repository) UpdateAppointment(id string, updates *types.AppointmentUpdates) error {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argIndex := 1

	if updates.StartTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("start_time = $%d", argIndex))
		args = append(args, *updates.StartTime)
		argIndex++
	}
	if updates.EndTime != nil {
		setClauses = append(setClauses, fmt.Sprintf("end_time = $%d", argIndex))
		args = append(args, *updates.EndTime)
		argIndex++
	}
	if updates.Status != nil {
		setClauses = append(setClauses, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*updates.Status))
		argIndex++
	}
	if updates.Notes != nil {
		setClauses = append(setClauses, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *updates.Notes)
		argIndex++
	}
	if updates.Location != nil {
		setClauses = append(setClauses, fmt.Sprintf("location = $%d", argIndex))
		args = append(args, *updates.Location)
		argIndex++
	}

	query := fmt.Sprintf("UPDATE appointments SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argIndex)
	args = append(args, id)

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return types.NewStorageError("failed to update appointment", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return types.NewStorageError("failed to read update result", err)
	}
	if rows == 0 {
		return types.NewNotFoundError("appointment not found")
	}
	return nil
}

// ListAppointments returns appointments matching the filters, soonest first
func (r *Repository) ListAppointments(filters *types.AppointmentFilters) ([]*types.Appointment, error) {
	query := `SELECT` + appointmentSelectColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argIndex := 1

	if filters.PatientID != "" {
		query += fmt.Sprintf(" AND patient_id = $%d", argIndex)
		args = append(args, filters.PatientID)
		argIndex++
	}
	if filters.DoctorID != "" {
		query += fmt.Sprintf(" AND doctor_id = $%d", argIndex)
		args = append(args, filters.DoctorID)
		argIndex++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, string(filters.Status))
		argIndex++
	}
	if !filters.FromDate.IsZero() {
		query += fmt.Sprintf(" AND start_time >= $%d", argIndex)
		args = append(args, filters.FromDate)
		argIndex++
	}
	if !filters.ToDate.IsZero() {
		query += fmt.Sprintf(" AND start_time <= $%d", argIndex)
		args = append(args, filters.ToDate)
		argIndex++
	}

	query += fmt.Sprintf(" ORDER BY start_time ASC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, filters.Limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, types.NewStorageError("failed to list appointments", err)
	}
	defer rows.Close()

	var appointments []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, types.NewStorageError("failed to scan appointment", err)
		}
		appointments = append(appointments, apt)
	}
	return appointments, rows.Err()
}

// GetConflictingAppointments returns non-cancelled appointments for the
// doctor that overlap the slot.
func (r *Repository) GetConflictingAppointments(doctorID string, slot *types.TimeSlot) ([]*types.Appointment, error) {
	query := `SELECT` + appointmentSelectColumns + `
		FROM appointments
		WHERE doctor_id = $1
		  AND status NOT IN ('cancelled', 'no_show')
		  AND start_time < $3
		  AND end_time > $2`

	rows, err := r.db.Query(query, doctorID, slot.StartTime, slot.EndTime)
	if err != nil {
		return nil, types.NewStorageError("failed to check appointment conflicts", err)
	}
	defer rows.Close()

	var conflicts []*types.Appointment
	for rows.Next() {
		apt, err := scanAppointment(rows)
		if err != nil {
			return nil, types.NewStorageError("failed to scan appointment", err)
		}
		conflicts = append(conflicts, apt)
	}
	return conflicts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*types.Appointment, error) {
	var apt types.Appointment
	var notes, location sql.NullString

	err := row.Scan(
		&apt.ID, &apt.PatientID, &apt.DoctorID, &apt.StartTime, &apt.EndTime,
		&apt.Type, &apt.Status, &notes, &location, &apt.CreatedAt, &apt.UpdatedAt)
	if err != nil {
		return nil, err
	}

	apt.Notes = notes.String
	apt.Location = location.String
	return &apt, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
