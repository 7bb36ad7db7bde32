package telemetry

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/pkg/auth"
	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Max accepted upload size, 10 MB
const maxDocumentSize = 10 << 20

// Handlers exposes the telemetry service over HTTP
type Handlers struct {
	service interfaces.TelemetryService
	logger  *logger.Logger
}

// NewHandlers creates HTTP handlers for the telemetry service
func NewHandlers(service interfaces.TelemetryService, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures HTTP routes for vitals and alerts
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health-data", h.recordManualHandler).Methods("POST")
	router.HandleFunc("/health-data", h.listReadingsHandler).Methods("GET")
	router.HandleFunc("/health-data/upload", h.uploadDocumentHandler).Methods("POST")
	router.HandleFunc("/health-data/simulator", h.runSimulatorHandler).Methods("POST")
	router.HandleFunc("/health-data/simulator/bulk", h.bulkSimulateHandler).Methods("POST")
	router.HandleFunc("/health-data/{id}", h.getReadingHandler).Methods("GET")

	router.HandleFunc("/alerts", h.listAlertsHandler).Methods("GET")
	router.HandleFunc("/alerts/{id}/resolve", h.resolveAlertHandler).Methods("PUT")

	h.logger.Info("Telemetry routes configured")
}

// recordManualHandler handles manual vitals entry
func (h *Handlers) recordManualHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var vitals types.VitalsInput
	if err := json.NewDecoder(r.Body).Decode(&vitals); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	result, err := h.service.RecordManual(userID, &vitals)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, result)
}

// uploadDocumentHandler handles document-based vitals ingestion. The
// document travels as a multipart form field named "document".
func (h *Handlers) uploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid multipart form", err))
		return
	}

	file, header, err := r.FormFile("document")
	if err != nil {
		h.writeErrorResponse(w, types.NewValidationError("document file is required", err))
		return
	}
	defer file.Close()

	document, err := io.ReadAll(io.LimitReader(file, maxDocumentSize))
	if err != nil {
		h.writeErrorResponse(w, types.NewInternalError("failed to read document", err))
		return
	}

	result, err := h.service.RecordFromDocument(userID, document, header.Filename)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, result)
}

// runSimulatorHandler creates one simulated reading
func (h *Handlers) runSimulatorHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string            `json:"user_id"`
		Scenario types.SimScenario `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	userID := h.resolveUserID(r, req.UserID)
	if req.Scenario == "" {
		req.Scenario = types.ScenarioNormal
	}

	result, err := h.service.RecordSimulated(userID, req.Scenario)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, result)
}

// bulkSimulateHandler creates up to 20 simulated readings in one call
func (h *Handlers) bulkSimulateHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string            `json:"user_id"`
		Count    int               `json:"count"`
		Scenario types.SimScenario `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	userID := h.resolveUserID(r, req.UserID)
	if req.Scenario == "" {
		req.Scenario = types.ScenarioNormal
	}

	results, err := h.service.RecordBulkSimulated(userID, req.Count, req.Scenario)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	alertsTriggered := 0
	readings := make([]*types.VitalsReading, 0, len(results))
	for _, result := range results {
		alertsTriggered += result.AlertCount
		readings = append(readings, result.Reading)
	}

	h.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"count":            len(results),
		"scenario":         req.Scenario,
		"alerts_triggered": alertsTriggered,
		"readings":         readings,
	})
}

// listReadingsHandler returns the caller's recent readings
func (h *Handlers) listReadingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	filters := &types.ReadingFilters{
		Source: types.VitalSource(r.URL.Query().Get("source")),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filters.Limit = limit
	}

	readings, err := h.service.ListReadings(userID, filters)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, readings)
}

// getReadingHandler returns a single reading by ID
func (h *Handlers) getReadingHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	reading, err := h.service.GetReading(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, reading)
}

// listAlertsHandler returns the caller's alert history
func (h *Handlers) listAlertsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	filters := &types.AlertFilters{
		Severity: types.AlertSeverity(r.URL.Query().Get("severity")),
	}
	if resolved := r.URL.Query().Get("resolved"); resolved != "" {
		value := resolved == "true"
		filters.Resolved = &value
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		filters.Limit = limit
	}

	alerts, err := h.service.ListAlerts(userID, filters)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, alerts)
}

// resolveAlertHandler marks an alert as resolved
func (h *Handlers) resolveAlertHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	alert, err := h.service.ResolveAlert(vars["id"])
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, alert)
}

// requireUserID extracts the authenticated user from the request context
func (h *Handlers) requireUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, types.NewValidationError("user identity missing from request", nil))
		return "", false
	}
	return claims.UserID, true
}

// resolveUserID prefers an explicitly supplied user ID (admin/demo flows)
// over the caller's own identity
func (h *Handlers) resolveUserID(r *http.Request, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if claims, ok := auth.FromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
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
