package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Handlers exposes appointment scheduling over HTTP
type Handlers struct {
	service interfaces.AppointmentService
	logger  *logger.Logger
}

// NewHandlers creates HTTP handlers for the appointment service
func NewHandlers(service interfaces.AppointmentService, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures HTTP routes for appointments
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", h.createAppointmentHandler).Methods("POST")
	router.HandleFunc("/appointments", h.listAppointmentsHandler).Methods("GET")
	router.HandleFunc("/appointments/availability", h.checkAvailabilityHandler).Methods("GET")
	router.HandleFunc("/appointments/{id}", h.getAppointmentHandler).Methods("GET")
	router.HandleFunc("/appointments/{id}", h.updateAppointmentHandler).Methods("PUT")
	router.HandleFunc("/appointments/{id}/cancel", h.cancelAppointmentHandler).Methods("PUT")

	h.logger.Info("Appointment routes configured")
}

// createAppointmentHandler handles appointment creation
func (h *Handlers) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var apt types.Appointment
	if err := json.NewDecoder(r.Body).Decode(&apt); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	created, err := h.service.CreateAppointment(&apt)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// getAppointmentHandler returns a single appointment
func (h *Handlers) getAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	apt, err := h.service.GetAppointment(mux.Vars(r)["id"])
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, apt)
}

// updateAppointmentHandler applies partial updates to an appointment
func (h *Handlers) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var updates types.AppointmentUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.UpdateAppointment(id, &updates); err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	apt, err := h.service.GetAppointment(id)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, apt)
}

// cancelAppointmentHandler cancels an appointment
func (h *Handlers) cancelAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelAppointment(mux.Vars(r)["id"]); err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Appointment cancelled successfully"})
}

// listAppointmentsHandler returns appointments matching the query filters
func (h *Handlers) listAppointmentsHandler(w http.ResponseWriter, r *http.Request) {
	filters := &types.AppointmentFilters{
		PatientID: r.URL.Query().Get("patient_id"),
		DoctorID:  r.URL.Query().Get("doctor_id"),
		Status:    types.AppointmentStatus(r.URL.Query().Get("status")),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.FromDate = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.ToDate = t
		}
	}
	filters.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filters.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))

	appointments, err := h.service.ListAppointments(filters)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"count":        len(appointments),
	})
}

// checkAvailabilityHandler reports whether a doctor is free in a slot
func (h *Handlers) checkAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	doctorID := r.URL.Query().Get("doctor_id")

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start_time"))
	if err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid start_time, expected RFC3339", err))
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end_time"))
	if err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid end_time, expected RFC3339", err))
		return
	}

	available, err := h.service.CheckAvailability(doctorID, &types.TimeSlot{StartTime: start, EndTime: end})
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"doctor_id": doctorID,
		"available": available,
	})
}

// writeJSONResponse writes a JSON response
func (h *Handlers) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": statusCode < 400,
		"data":    data,
	}); err != nil {
		h.logger.WithError(err).Error("Failed to encode JSON response")
	}
}

// writeErrorResponse maps service errors to HTTP status codes
func (h *Handlers) writeErrorResponse(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "internal server error"

	var appErr *types.AppError
	if errors.As(err, &appErr) {
		statusCode = appErr.HTTPStatus()
		code = appErr.Code
		message = appErr.Message
	}

	if statusCode >= 500 {
		h.logger.WithError(err).Error("Request failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if encodeErr := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	}); encodeErr != nil {
		h.logger.WithError(encodeErr).Error("Failed to encode error response")
	}
}
