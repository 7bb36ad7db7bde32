package meals

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/LEULEX-404/Health-Tracker/pkg/database"
	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Repository implements the MealRepository interface on PostgreSQL
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a new meals repository
func NewRepository(db *database.DB, log *logger.Logger) interfaces.MealRepository {
	return &Repository{
		db:     db,
		logger: log,
	}
}

// CreatePlan inserts a new meal plan
func (r *Repository) CreatePlan(plan *types.MealPlan) error {
	items, err := json.Marshal(plan.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal meal items: %w", err)
	}

	query := `
		INSERT INTO meal_plans (
			id, user_id, doctor_id, plan_name, health_conditions, meal_type, meal_name,
			items, target_calories, target_protein, target_carbohydrates, target_fat,
			scheduled_days, scheduled_time, start_date, end_date, is_active, notes,
			reminder_enabled, reminder_minutes_before, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err = r.db.Exec(query,
		plan.ID,
		plan.UserID,
		plan.DoctorID,
		plan.PlanName,
		pq.Array(plan.HealthConditions),
		string(plan.MealType),
		plan.MealName,
		items,
		plan.TargetCalories,
		plan.TargetProtein,
		plan.TargetCarbohydrates,
		plan.TargetFat,
		pq.Array(plan.ScheduledDays),
		plan.ScheduledTime,
		plan.StartDate,
		plan.EndDate,
		plan.IsActive,
		plan.Notes,
		plan.ReminderEnabled,
		plan.ReminderMinutesBefore,
		plan.CreatedAt,
		plan.UpdatedAt,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to create meal plan")
		return fmt.Errorf("failed to create meal plan: %w", err)
	}

	return nil
}

// GetPlanByID retrieves a meal plan scoped to its owner
func (r *Repository) GetPlanByID(id, userID string) (*types.MealPlan, error) {
	query := planSelectColumns + ` FROM meal_plans WHERE id = $1 AND user_id = $2`

	plan, err := scanPlan(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(fmt.Sprintf("meal plan not found: %s", id))
		}
		r.logger.WithError(err).Error("Failed to get meal plan")
		return nil, fmt.Errorf("failed to get meal plan: %w", err)
	}

	return plan, nil
}

// UpdatePlan writes the full updated plan row
func (r *Repository) UpdatePlan(plan *types.MealPlan) error {
	items, err := json.Marshal(plan.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal meal items: %w", err)
	}

	query := `
		UPDATE meal_plans SET
			plan_name = $1, health_conditions = $2, meal_type = $3, meal_name = $4,
			items = $5, target_calories = $6, target_protein = $7,
			target_carbohydrates = $8, target_fat = $9, scheduled_days = $10,
			scheduled_time = $11, start_date = $12, end_date = $13, is_active = $14,
			notes = $15, reminder_enabled = $16, reminder_minutes_before = $17,
			updated_at = $18
		WHERE id = $19 AND user_id = $20`

	result, err := r.db.Exec(query,
		plan.PlanName,
		pq.Array(plan.HealthConditions),
		string(plan.MealType),
		plan.MealName,
		items,
		plan.TargetCalories,
		plan.TargetProtein,
		plan.TargetCarbohydrates,
		plan.TargetFat,
		pq.Array(plan.ScheduledDays),
		plan.ScheduledTime,
		plan.StartDate,
		plan.EndDate,
		plan.IsActive,
		plan.Notes,
		plan.ReminderEnabled,
		plan.ReminderMinutesBefore,
		plan.UpdatedAt,
		plan.ID,
		plan.UserID,
	)

	if err != nil {
		r.logger.WithError(err).Error("Failed to update meal plan")
		return fmt.Errorf("failed to update meal plan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(fmt.Sprintf("meal plan not found: %s", plan.ID))
	}

	return nil
}

// DeletePlan removes a meal plan; reminders cascade
func (r *Repository) DeletePlan(id, userID string) error {
	result, err := r.db.Exec(`DELETE FROM meal_plans WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.WithError(err).Error("Failed to delete meal plan")
		return fmt.Errorf("failed to delete meal plan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewNotFoundError(fmt.Sprintf("meal plan not found: %s", id))
	}

	return nil
}

// ListPlans returns a page of the user's plans plus the total count
func (r *Repository) ListPlans(userID string, filters *types.MealPlanFilters) ([]*types.MealPlan, int, error) {
	where := " FROM meal_plans WHERE user_id = $1"
	args := []interface{}{userID}

	if filters.HealthCondition != "" {
		where += fmt.Sprintf(" AND $%d = ANY(health_conditions)", len(args)+1)
		args = append(args, filters.HealthCondition)
	}
	if filters.MealType != "" {
		where += fmt.Sprintf(" AND meal_type = $%d", len(args)+1)
		args = append(args, string(filters.MealType))
	}
	if filters.IsActive != nil {
		where += fmt.Sprintf(" AND is_active = $%d", len(args)+1)
		args = append(args, *filters.IsActive)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*)"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meal plans: %w", err)
	}

	query := planSelectColumns + where + " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	plans, err := r.queryPlans(query, args...)
	if err != nil {
		return nil, 0, err
	}

	return plans, total, nil
}

// ListActivePlans returns the user's plans that are live at the given time:
// active, reminders enabled, started, and not yet ended.
func (r *Repository) ListActivePlans(userID string, now time.Time) ([]*types.MealPlan, error) {
	query := planSelectColumns + `
		FROM meal_plans
		WHERE user_id = $1
		  AND is_active = TRUE
		  AND reminder_enabled = TRUE
		  AND start_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)`

	return r.queryPlans(query, userID, now)
}

// CreateReminders inserts a batch of reminder rows in one transaction.
// Conflicting (plan, date) occurrences are skipped, keeping expansion
// idempotent even when callers race.
func (r *Repository) CreateReminders(reminders []*types.MealReminder) error {
	if len(reminders) == 0 {
		return nil
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO meal_reminders (
			id, user_id, meal_plan_id, scheduled_date, reminder_time, meal_type,
			meal_name, status, notification_sent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (meal_plan_id, scheduled_date) DO NOTHING`

	for _, reminder := range reminders {
		_, err := tx.Exec(query,
			reminder.ID,
			reminder.UserID,
			reminder.MealPlanID,
			dateOnly(reminder.ScheduledDate),
			reminder.ReminderTime,
			string(reminder.MealType),
			reminder.MealName,
			string(reminder.Status),
			reminder.NotificationSent,
			reminder.CreatedAt,
		)
		if err != nil {
			r.logger.WithError(err).Error("Failed to create reminder")
			return fmt.Errorf("failed to create reminder: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reminders: %w", err)
	}

	return nil
}

// GetReminderByID retrieves a reminder scoped to its owner
func (r *Repository) GetReminderByID(id, userID string) (*types.MealReminder, error) {
	query := reminderSelectColumns + ` FROM meal_reminders WHERE id = $1 AND user_id = $2`

	reminder, err := scanReminder(r.db.QueryRow(query, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewNotFoundError(fmt.Sprintf("reminder not found: %s", id))
		}
		r.logger.WithError(err).Error("Failed to get reminder")
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}

	return reminder, nil
}

// ListRemindersInWindow returns reminders whose reminder time falls inside
// [from, to], optionally restricted to a status set
func (r *Repository) ListRemindersInWindow(userID string, from, to time.Time, statuses []types.ReminderStatus) ([]*types.MealReminder, error) {
	query := reminderSelectColumns + `
		FROM meal_reminders
		WHERE user_id = $1 AND reminder_time >= $2 AND reminder_time <= $3`
	args := []interface{}{userID, from, to}

	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, status := range statuses {
			names[i] = string(status)
		}
		query += fmt.Sprintf(" AND status = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(names))
	}

	query += " ORDER BY reminder_time ASC"

	return r.queryReminders(query, args...)
}

// ListDueReminders returns pending reminders whose reminder time has passed,
// oldest first
func (r *Repository) ListDueReminders(userID string, now time.Time, limit int) ([]*types.MealReminder, error) {
	query := reminderSelectColumns + `
		FROM meal_reminders
		WHERE user_id = $1 AND status = 'pending' AND reminder_time <= $2
		ORDER BY reminder_time ASC
		LIMIT $3`

	return r.queryReminders(query, userID, now, limit)
}

// ListReminders returns a page of the user's reminders plus the total count
func (r *Repository) ListReminders(userID string, filters *types.ReminderFilters) ([]*types.MealReminder, int, error) {
	where := " FROM meal_reminders WHERE user_id = $1"
	args := []interface{}{userID}

	if filters.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(filters.Status))
	}
	if !filters.From.IsZero() {
		where += fmt.Sprintf(" AND reminder_time >= $%d", len(args)+1)
		args = append(args, filters.From)
	}
	if !filters.To.IsZero() {
		where += fmt.Sprintf(" AND reminder_time <= $%d", len(args)+1)
		args = append(args, filters.To)
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*)"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reminders: %w", err)
	}

	query := reminderSelectColumns + where + " ORDER BY reminder_time DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filters.Limit, (filters.Page-1)*filters.Limit)

	reminders, err := r.queryReminders(query, args...)
	if err != nil {
		return nil, 0, err
	}

	return reminders, total, nil
}

// MarkReminderSent transitions a pending reminder to sent after a
// successful delivery
func (r *Repository) MarkReminderSent(id string, sentAt time.Time) error {
	query := `
		UPDATE meal_reminders
		SET status = 'sent', notification_sent = TRUE, sent_at = $1
		WHERE id = $2 AND status = 'pending'`

	result, err := r.db.Exec(query, sentAt, id)
	if err != nil {
		r.logger.WithError(err).Error("Failed to mark reminder sent")
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return types.NewConflictError(fmt.Sprintf("reminder %s is not pending", id))
	}

	return nil
}

// TransitionReminder moves a non-terminal reminder to the target status and
// returns the updated row. completed also stamps completed_at.
func (r *Repository) TransitionReminder(id, userID string, status types.ReminderStatus, at time.Time) (*types.MealReminder, error) {
	var completedAt *time.Time
	if status == types.ReminderCompleted {
		completedAt = &at
	}

	query := `
		UPDATE meal_reminders
		SET status = $1, completed_at = COALESCE($2, completed_at)
		WHERE id = $3 AND user_id = $4 AND status IN ('pending', 'sent')
		RETURNING id, user_id, meal_plan_id, scheduled_date, reminder_time, meal_type,
				  meal_name, status, notification_sent, sent_at, completed_at, created_at`

	reminder, err := scanReminder(r.db.QueryRow(query, string(status), completedAt, id, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, types.NewConflictError(fmt.Sprintf("reminder %s not found or already finalized", id))
		}
		r.logger.WithError(err).Error("Failed to transition reminder")
		return nil, fmt.Errorf("failed to transition reminder: %w", err)
	}

	return reminder, nil
}

const planSelectColumns = `
	SELECT id, user_id, doctor_id, plan_name, health_conditions, meal_type, meal_name,
		   items, target_calories, target_protein, target_carbohydrates, target_fat,
		   scheduled_days, scheduled_time, start_date, end_date, is_active, notes,
		   reminder_enabled, reminder_minutes_before, created_at, updated_at`

const reminderSelectColumns = `
	SELECT id, user_id, meal_plan_id, scheduled_date, reminder_time, meal_type,
		   meal_name, status, notification_sent, sent_at, completed_at, created_at`

// dateOnly renders a DATE column value so the stored calendar date never
// shifts with the session timezone.
func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlan(row rowScanner) (*types.MealPlan, error) {
	plan := &types.MealPlan{}

	var mealType string
	var mealName, scheduledTime, notes sql.NullString
	var items []byte
	var scheduledDays pq.Int64Array

	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.DoctorID,
		&plan.PlanName,
		pq.Array(&plan.HealthConditions),
		&mealType,
		&mealName,
		&items,
		&plan.TargetCalories,
		&plan.TargetProtein,
		&plan.TargetCarbohydrates,
		&plan.TargetFat,
		&scheduledDays,
		&scheduledTime,
		&plan.StartDate,
		&plan.EndDate,
		&plan.IsActive,
		&notes,
		&plan.ReminderEnabled,
		&plan.ReminderMinutesBefore,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	plan.MealType = types.MealType(mealType)
	plan.MealName = mealName.String
	plan.ScheduledTime = scheduledTime.String
	plan.Notes = notes.String

	plan.ScheduledDays = make([]int, len(scheduledDays))
	for i, day := range scheduledDays {
		plan.ScheduledDays[i] = int(day)
	}

	if len(items) > 0 {
		if err := json.Unmarshal(items, &plan.Items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal items: %w", err)
		}
	}

	return plan, nil
}

func scanReminder(row rowScanner) (*types.MealReminder, error) {
	reminder := &types.MealReminder{}

	var mealType, status string
	var mealName sql.NullString

	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.MealPlanID,
		&reminder.ScheduledDate,
		&reminder.ReminderTime,
		&mealType,
		&mealName,
		&status,
		&reminder.NotificationSent,
		&reminder.SentAt,
		&reminder.CompletedAt,
		&reminder.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	reminder.MealType = types.MealType(mealType)
	reminder.MealName = mealName.String
	reminder.Status = types.ReminderStatus(status)

	return reminder, nil
}

func (r *Repository) queryPlans(query string, args ...interface{}) ([]*types.MealPlan, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query meal plans")
		return nil, fmt.Errorf("failed to query meal plans: %w", err)
	}
	defer rows.Close()

	var plans []*types.MealPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal plan: %w", err)
		}
		plans = append(plans, plan)
	}

	return plans, rows.Err()
}

func (r *Repository) queryReminders(query string, args ...interface{}) ([]*types.MealReminder, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		r.logger.WithError(err).Error("Failed to query reminders")
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*types.MealReminder
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, reminder)
	}

	return reminders, rows.Err()
}
