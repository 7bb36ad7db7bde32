package users

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Handlers exposes the user directory over HTTP
type Handlers struct {
	repo   *Repository
	logger *logger.Logger
}

// NewHandlers creates HTTP handlers for the user directory
func NewHandlers(repo *Repository, log *logger.Logger) *Handlers {
	return &Handlers{
		repo:   repo,
		logger: log,
	}
}

// RegisterRoutes configures HTTP routes for the user directory
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", h.listUsersHandler).Methods("GET")
	router.HandleFunc("/users/{id}", h.getUserHandler).Methods("GET")

	h.logger.Info("User routes configured")
}

func (h *Handlers) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers()
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

func (h *Handlers) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := h.repo.GetUser(mux.Vars(r)["id"])
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, user)
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
