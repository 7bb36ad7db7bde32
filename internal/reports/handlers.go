package reports

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/pkg/auth"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Handlers exposes health reports over HTTP
type Handlers struct {
	service *Service
	logger  *logger.Logger
}

// NewHandlers creates HTTP handlers for the report service
func NewHandlers(service *Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures HTTP routes for reports
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/reports", h.generateReportHandler).Methods("GET")

	h.logger.Info("Report routes configured")
}

// generateReportHandler computes a report for the caller over the requested
// window. Defaults to weekly.
func (h *Handlers) generateReportHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		h.writeErrorResponse(w, types.NewValidationError("user identity missing from request", nil))
		return
	}

	reportType := types.ReportType(r.URL.Query().Get("type"))
	if reportType == "" {
		reportType = types.ReportWeekly
	}

	report, err := h.service.GenerateReport(claims.UserID, reportType, time.Now())
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, report)
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
