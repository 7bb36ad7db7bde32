package interfaces

import (
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// MealService defines the meal plan and reminder surface exposed to the
// HTTP layer and to the reminder dispatch loop.
type MealService interface {
	// Plans
	CreatePlan(userID string, plan *types.MealPlan) (*types.MealPlan, error)
	GetPlan(id, userID string) (*types.MealPlan, error)
	UpdatePlan(id, userID string, updates *types.MealPlanUpdates) (*types.MealPlan, error)
	DeletePlan(id, userID string) error
	ListPlans(userID string, filters *types.MealPlanFilters) ([]*types.MealPlan, *types.Pagination, error)

	// Reminders
	ExpandForUser(userID string, now time.Time) ([]*types.MealReminder, error)
	ListReminders(userID string, filters *types.ReminderFilters) ([]*types.MealReminder, *types.Pagination, error)
	MarkCompleted(id, userID string) (*types.MealReminder, error)
	MarkSkipped(id, userID string) (*types.MealReminder, error)
	CancelReminder(id, userID string) (*types.MealReminder, error)
}

// MealRepository defines persistence for meal plans and reminders
type MealRepository interface {
	// Plans
	CreatePlan(plan *types.MealPlan) error
	GetPlanByID(id, userID string) (*types.MealPlan, error)
	UpdatePlan(plan *types.MealPlan) error
	DeletePlan(id, userID string) error
	ListPlans(userID string, filters *types.MealPlanFilters) ([]*types.MealPlan, int, error)
	ListActivePlans(userID string, now time.Time) ([]*types.MealPlan, error)

	// Reminders
	CreateReminders(reminders []*types.MealReminder) error
	GetReminderByID(id, userID string) (*types.MealReminder, error)
	ListRemindersInWindow(userID string, from, to time.Time, statuses []types.ReminderStatus) ([]*types.MealReminder, error)
	ListDueReminders(userID string, now time.Time, limit int) ([]*types.MealReminder, error)
	ListReminders(userID string, filters *types.ReminderFilters) ([]*types.MealReminder, int, error)
	MarkReminderSent(id string, sentAt time.Time) error
	TransitionReminder(id, userID string, status types.ReminderStatus, at time.Time) (*types.MealReminder, error)
}
