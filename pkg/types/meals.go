package types

import "time"

// MealType represents meal type values
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ValidMealType reports whether t names a known meal type
func ValidMealType(t MealType) bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// HealthConditions lists the dietary conditions a plan may target
var HealthConditions = []string{
	"diabetes",
	"hypertension",
	"obesity",
	"heart_disease",
	"kidney_disease",
	"celiac",
	"lactose_intolerant",
	"high_cholesterol",
	"anemia",
	"osteoporosis",
	"other",
}

// MealItem is one food entry in a meal plan
type MealItem struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit,omitempty"`
	Calories      float64 `json:"calories,omitempty"`
	Protein       float64 `json:"protein,omitempty"`
	Carbohydrates float64 `json:"carbohydrates,omitempty"`
	Fat           float64 `json:"fat,omitempty"`
	Fiber         float64 `json:"fiber,omitempty"`
}

// MealPlan is a recurring dietary schedule. ScheduledDays uses weekday
// integers 0-6 (Sunday-Saturday); when non-empty, ScheduledTime (HH:MM)
// is required.
type MealPlan struct {
	ID                    string     `json:"id" db:"id"`
	UserID                string     `json:"user_id" db:"user_id"`
	DoctorID              *string    `json:"doctor_id,omitempty" db:"doctor_id"`
	PlanName              string     `json:"plan_name" db:"plan_name"`
	HealthConditions      []string   `json:"health_conditions" db:"health_conditions"`
	MealType              MealType   `json:"meal_type" db:"meal_type"`
	MealName              string     `json:"meal_name,omitempty" db:"meal_name"`
	Items                 []MealItem `json:"items"`
	TargetCalories        float64    `json:"target_calories,omitempty" db:"target_calories"`
	TargetProtein         float64    `json:"target_protein,omitempty" db:"target_protein"`
	TargetCarbohydrates   float64    `json:"target_carbohydrates,omitempty" db:"target_carbohydrates"`
	TargetFat             float64    `json:"target_fat,omitempty" db:"target_fat"`
	ScheduledDays         []int      `json:"scheduled_days" db:"scheduled_days"`
	ScheduledTime         string     `json:"scheduled_time,omitempty" db:"scheduled_time"`
	StartDate             time.Time  `json:"start_date" db:"start_date"`
	EndDate               *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive              bool       `json:"is_active" db:"is_active"`
	Notes                 string     `json:"notes,omitempty" db:"notes"`
	ReminderEnabled       bool       `json:"reminder_enabled" db:"reminder_enabled"`
	ReminderMinutesBefore int        `json:"reminder_minutes_before" db:"reminder_minutes_before"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`
}

// MealPlanUpdates represents partial updates to a meal plan
type MealPlanUpdates struct {
	PlanName              *string     `json:"plan_name,omitempty"`
	HealthConditions      *[]string   `json:"health_conditions,omitempty"`
	MealType              *MealType   `json:"meal_type,omitempty"`
	MealName              *string     `json:"meal_name,omitempty"`
	Items                 *[]MealItem `json:"items,omitempty"`
	TargetCalories        *float64    `json:"target_calories,omitempty"`
	TargetProtein         *float64    `json:"target_protein,omitempty"`
	TargetCarbohydrates   *float64    `json:"target_carbohydrates,omitempty"`
	TargetFat             *float64    `json:"target_fat,omitempty"`
	ScheduledDays         *[]int      `json:"scheduled_days,omitempty"`
	ScheduledTime         *string     `json:"scheduled_time,omitempty"`
	StartDate             *time.Time  `json:"start_date,omitempty"`
	EndDate               *time.Time  `json:"end_date,omitempty"`
	Notes                 *string     `json:"notes,omitempty"`
	ReminderEnabled       *bool       `json:"reminder_enabled,omitempty"`
	ReminderMinutesBefore *int        `json:"reminder_minutes_before,omitempty"`
	IsActive              *bool       `json:"is_active,omitempty"`
}

// MealPlanFilters narrows meal plan list queries
type MealPlanFilters struct {
	HealthCondition string   `json:"health_condition,omitempty"`
	MealType        MealType `json:"meal_type,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
	Page            int      `json:"page,omitempty"`
	Limit           int      `json:"limit,omitempty"`
}

// ReminderStatus represents reminder lifecycle states
type ReminderStatus string

const (
	ReminderPending   ReminderStatus = "pending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCompleted ReminderStatus = "completed"
	ReminderSkipped   ReminderStatus = "skipped"
	ReminderCancelled ReminderStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from s
func (s ReminderStatus) IsTerminal() bool {
	switch s {
	case ReminderCompleted, ReminderSkipped, ReminderCancelled:
		return true
	}
	return false
}

// MealReminder is one concrete, dated occurrence materialized from a meal
// plan's recurrence rule. At most one reminder exists per
// (meal plan, scheduled date).
type MealReminder struct {
	ID               string         `json:"id" db:"id"`
	UserID           string         `json:"user_id" db:"user_id"`
	MealPlanID       string         `json:"meal_plan_id" db:"meal_plan_id"`
	ScheduledDate    time.Time      `json:"scheduled_date" db:"scheduled_date"`
	ReminderTime     time.Time      `json:"reminder_time" db:"reminder_time"`
	MealType         MealType       `json:"meal_type" db:"meal_type"`
	MealName         string         `json:"meal_name,omitempty" db:"meal_name"`
	Status           ReminderStatus `json:"status" db:"status"`
	NotificationSent bool           `json:"notification_sent" db:"notification_sent"`
	SentAt           *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
}

// ReminderFilters narrows reminder list queries
type ReminderFilters struct {
	Status ReminderStatus `json:"status,omitempty"`
	From   time.Time      `json:"from,omitempty"`
	To     time.Time      `json:"to,omitempty"`
	Page   int            `json:"page,omitempty"`
	Limit  int            `json:"limit,omitempty"`
}

// MealReminderNotice is the payload handed to the notification sender
type MealReminderNotice struct {
	MealName      string     `json:"meal_name"`
	MealType      MealType   `json:"meal_type"`
	ScheduledTime time.Time  `json:"scheduled_time"`
	Items         []MealItem `json:"items,omitempty"`
}

// Pagination describes one page of a list response
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}
