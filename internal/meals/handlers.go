package meals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/LEULEX-404/Health-Tracker/pkg/auth"
	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Handlers exposes meal plans and reminders over HTTP
type Handlers struct {
	service interfaces.MealService
	logger  *logger.Logger
}

// NewHandlers creates HTTP handlers for the meals service
func NewHandlers(service interfaces.MealService, log *logger.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  log,
	}
}

// RegisterRoutes configures HTTP routes for meal plans and reminders
func (h *Handlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/meal-plans", h.createPlanHandler).Methods("POST")
	router.HandleFunc("/meal-plans", h.listPlansHandler).Methods("GET")
	router.HandleFunc("/meal-plans/{id}", h.getPlanHandler).Methods("GET")
	router.HandleFunc("/meal-plans/{id}", h.updatePlanHandler).Methods("PUT")
	router.HandleFunc("/meal-plans/{id}", h.deletePlanHandler).Methods("DELETE")

	router.HandleFunc("/meal-reminders", h.listRemindersHandler).Methods("GET")
	router.HandleFunc("/meal-reminders/generate", h.generateRemindersHandler).Methods("POST")
	router.HandleFunc("/meal-reminders/{id}/complete", h.completeReminderHandler).Methods("PUT")
	router.HandleFunc("/meal-reminders/{id}/skip", h.skipReminderHandler).Methods("PUT")
	router.HandleFunc("/meal-reminders/{id}/cancel", h.cancelReminderHandler).Methods("PUT")

	h.logger.Info("Meals routes configured")
}

// createPlanHandler handles meal plan creation
func (h *Handlers) createPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var plan types.MealPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	created, err := h.service.CreatePlan(userID, &plan)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, created)
}

// getPlanHandler returns a single meal plan
func (h *Handlers) getPlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	plan, err := h.service.GetPlan(mux.Vars(r)["id"], userID)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, plan)
}

// updatePlanHandler applies partial updates to a meal plan
func (h *Handlers) updatePlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var updates types.MealPlanUpdates
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeErrorResponse(w, types.NewValidationError("invalid request body", err))
		return
	}

	plan, err := h.service.UpdatePlan(mux.Vars(r)["id"], userID, &updates)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, plan)
}

// deletePlanHandler removes a meal plan
func (h *Handlers) deletePlanHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePlan(mux.Vars(r)["id"], userID); err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]string{"message": "Meal plan deleted successfully"})
}

// listPlansHandler returns a page of the caller's meal plans
func (h *Handlers) listPlansHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	filters := &types.MealPlanFilters{
		HealthCondition: r.URL.Query().Get("health_condition"),
		MealType:        types.MealType(r.URL.Query().Get("meal_type")),
	}
	if active := r.URL.Query().Get("is_active"); active != "" {
		value := active == "true"
		filters.IsActive = &value
	}
	filters.Page, filters.Limit = parsePageQuery(r)

	plans, pagination, err := h.service.ListPlans(userID, filters)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"plans":      plans,
		"pagination": pagination,
	})
}

// listRemindersHandler returns a page of the caller's reminders
func (h *Handlers) listRemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	filters := &types.ReminderFilters{
		Status: types.ReminderStatus(r.URL.Query().Get("status")),
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filters.From = t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filters.To = t
		}
	}
	filters.Page, filters.Limit = parsePageQuery(r)

	reminders, pagination, err := h.service.ListReminders(userID, filters)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"reminders":  reminders,
		"pagination": pagination,
	})
}

// generateRemindersHandler triggers schedule expansion on demand
func (h *Handlers) generateRemindersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	created, err := h.service.ExpandForUser(userID, time.Now())
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusCreated, map[string]interface{}{
		"created":   len(created),
		"reminders": created,
	})
}

// completeReminderHandler marks a reminder as completed
func (h *Handlers) completeReminderHandler(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.service.MarkCompleted)
}

// skipReminderHandler marks a reminder as skipped
func (h *Handlers) skipReminderHandler(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.service.MarkSkipped)
}

// cancelReminderHandler cancels a reminder
func (h *Handlers) cancelReminderHandler(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.service.CancelReminder)
}

func (h *Handlers) transitionHandler(w http.ResponseWriter, r *http.Request, transition func(id, userID string) (*types.MealReminder, error)) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	reminder, err := transition(mux.Vars(r)["id"], userID)
	if err != nil {
		h.writeErrorResponse(w, err)
		return
	}

	h.writeJSONResponse(w, http.StatusOK, reminder)
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

func parsePageQuery(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	return page, limit
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
