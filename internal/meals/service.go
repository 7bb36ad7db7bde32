package meals

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Reminder lead time is clamped to this range, in minutes
const (
	minReminderLead = 0
	maxReminderLead = 120

	defaultReminderLead = 15
	defaultPageLimit    = 50
	maxPageLimit        = 100
)

// Service implements meal plan management and reminder expansion
type Service struct {
	repo   interfaces.MealRepository
	logger *logger.Logger
}

// NewService creates a new meals service
func NewService(repo interfaces.MealRepository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log,
	}
}

// CreatePlan validates and persists a new meal plan, then materializes its
// upcoming reminders.
func (s *Service) CreatePlan(userID string, plan *types.MealPlan) (*types.MealPlan, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}
	if plan.PlanName == "" {
		return nil, types.NewValidationError("planName is required", nil)
	}
	if !types.ValidMealType(plan.MealType) {
		return nil, types.NewValidationError("mealType must be breakfast, lunch, dinner or snack", nil)
	}
	if err := validateSchedule(plan.ScheduledDays, plan.ScheduledTime); err != nil {
		return nil, err
	}

	now := time.Now()
	plan.ID = uuid.New().String()
	plan.UserID = userID
	plan.HealthConditions = filterHealthConditions(plan.HealthConditions)
	plan.IsActive = true
	plan.CreatedAt = now
	plan.UpdatedAt = now

	if plan.StartDate.IsZero() {
		plan.StartDate = now
	}
	if plan.ReminderMinutesBefore == 0 {
		plan.ReminderMinutesBefore = defaultReminderLead
	}
	plan.ReminderMinutesBefore = clampReminderLead(plan.ReminderMinutesBefore)

	applyItemTotals(plan)

	if err := s.repo.CreatePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to create meal plan: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id":   plan.ID,
		"user_id":   userID,
		"meal_type": string(plan.MealType),
	}).Info("Meal plan created")

	if plan.ReminderEnabled && len(plan.ScheduledDays) > 0 && plan.ScheduledTime != "" {
		if _, err := s.ExpandForUser(userID, now); err != nil {
			s.logger.WithError(err).Warn("Failed to expand reminders after plan creation")
		}
	}

	return plan, nil
}

// GetPlan returns a single meal plan owned by the user
func (s *Service) GetPlan(id, userID string) (*types.MealPlan, error) {
	if id == "" || userID == "" {
		return nil, types.NewValidationError("plan id and userId are required", nil)
	}
	return s.repo.GetPlanByID(id, userID)
}

// UpdatePlan applies partial updates to a meal plan and re-expands its
// reminders when the schedule is still live.
func (s *Service) UpdatePlan(id, userID string, updates *types.MealPlanUpdates) (*types.MealPlan, error) {
	plan, err := s.repo.GetPlanByID(id, userID)
	if err != nil {
		return nil, err
	}

	if updates.PlanName != nil {
		plan.PlanName = *updates.PlanName
	}
	if updates.HealthConditions != nil {
		plan.HealthConditions = filterHealthConditions(*updates.HealthConditions)
	}
	if updates.MealType != nil {
		if !types.ValidMealType(*updates.MealType) {
			return nil, types.NewValidationError("mealType must be breakfast, lunch, dinner or snack", nil)
		}
		plan.MealType = *updates.MealType
	}
	if updates.MealName != nil {
		plan.MealName = *updates.MealName
	}
	if updates.Notes != nil {
		plan.Notes = *updates.Notes
	}
	if updates.TargetCalories != nil {
		plan.TargetCalories = *updates.TargetCalories
	}
	if updates.TargetProtein != nil {
		plan.TargetProtein = *updates.TargetProtein
	}
	if updates.TargetCarbohydrates != nil {
		plan.TargetCarbohydrates = *updates.TargetCarbohydrates
	}
	if updates.TargetFat != nil {
		plan.TargetFat = *updates.TargetFat
	}
	if updates.ScheduledDays != nil {
		plan.ScheduledDays = *updates.ScheduledDays
	}
	if updates.ScheduledTime != nil {
		plan.ScheduledTime = *updates.ScheduledTime
	}
	if updates.StartDate != nil {
		plan.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		plan.EndDate = updates.EndDate
	}
	if updates.ReminderEnabled != nil {
		plan.ReminderEnabled = *updates.ReminderEnabled
	}
	if updates.ReminderMinutesBefore != nil {
		plan.ReminderMinutesBefore = clampReminderLead(*updates.ReminderMinutesBefore)
	}
	if updates.IsActive != nil {
		plan.IsActive = *updates.IsActive
	}
	if updates.Items != nil {
		plan.Items = *updates.Items
		applyItemTotals(plan)
	}

	if err := validateSchedule(plan.ScheduledDays, plan.ScheduledTime); err != nil {
		return nil, err
	}

	plan.UpdatedAt = time.Now()

	if err := s.repo.UpdatePlan(plan); err != nil {
		return nil, fmt.Errorf("failed to update meal plan: %w", err)
	}

	if plan.ReminderEnabled && len(plan.ScheduledDays) > 0 && plan.ScheduledTime != "" {
		if _, err := s.ExpandForUser(userID, time.Now()); err != nil {
			s.logger.WithError(err).Warn("Failed to expand reminders after plan update")
		}
	}

	return plan, nil
}

// DeletePlan removes a meal plan and, via cascade, its reminders
func (s *Service) DeletePlan(id, userID string) error {
	if id == "" || userID == "" {
		return types.NewValidationError("plan id and userId are required", nil)
	}

	if err := s.repo.DeletePlan(id, userID); err != nil {
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"plan_id": id,
		"user_id": userID,
	}).Info("Meal plan deleted")

	return nil
}

// ListPlans returns a page of the user's meal plans
func (s *Service) ListPlans(userID string, filters *types.MealPlanFilters) ([]*types.MealPlan, *types.Pagination, error) {
	if userID == "" {
		return nil, nil, types.NewValidationError("userId is required", nil)
	}
	if filters == nil {
		filters = &types.MealPlanFilters{}
	}
	normalizePage(&filters.Page, &filters.Limit)

	plans, total, err := s.repo.ListPlans(userID, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list meal plans: %w", err)
	}

	return plans, paginationFor(total, filters.Page, filters.Limit), nil
}

// ExpandForUser materializes pending reminders for all of the user's active
// plans over the rolling window. Idempotent: occurrences that already exist
// for a (plan, date) pair are never recreated.
func (s *Service) ExpandForUser(userID string, now time.Time) ([]*types.MealReminder, error) {
	if userID == "" {
		return nil, types.NewValidationError("userId is required", nil)
	}

	plans, err := s.repo.ListActivePlans(userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	windowEnd := now.AddDate(0, 0, expansionWindowDays)

	var candidates []*types.MealReminder
	for _, plan := range plans {
		// Clamp the window to the plan's own lifetime
		start := now
		if plan.StartDate.After(start) {
			start = plan.StartDate
		}
		end := windowEnd
		if plan.EndDate != nil && plan.EndDate.Before(end) {
			end = *plan.EndDate
		}

		expanded, err := ExpandPlan(plan, start, end, now)
		if err != nil {
			s.logger.WithError(err).WithField("plan_id", plan.ID).Warn("Skipping plan with invalid schedule")
			continue
		}
		candidates = append(candidates, expanded...)
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	existing, err := s.repo.ListRemindersInWindow(userID, now, windowEnd,
		[]types.ReminderStatus{types.ReminderPending, types.ReminderSent})
	if err != nil {
		return nil, fmt.Errorf("failed to list existing reminders: %w", err)
	}

	fresh := dedupeAgainst(candidates, existing)
	if len(fresh) == 0 {
		return nil, nil
	}

	createdAt := time.Now()
	for _, reminder := range fresh {
		reminder.ID = uuid.New().String()
		reminder.CreatedAt = createdAt
	}

	if err := s.repo.CreateReminders(fresh); err != nil {
		return nil, fmt.Errorf("failed to create reminders: %w", err)
	}

	return fresh, nil
}

// ListReminders returns a page of the user's reminders
func (s *Service) ListReminders(userID string, filters *types.ReminderFilters) ([]*types.MealReminder, *types.Pagination, error) {
	if userID == "" {
		return nil, nil, types.NewValidationError("userId is required", nil)
	}
	if filters == nil {
		filters = &types.ReminderFilters{}
	}
	normalizePage(&filters.Page, &filters.Limit)

	reminders, total, err := s.repo.ListReminders(userID, filters)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list reminders: %w", err)
	}

	return reminders, paginationFor(total, filters.Page, filters.Limit), nil
}

// MarkCompleted transitions a reminder to completed
func (s *Service) MarkCompleted(id, userID string) (*types.MealReminder, error) {
	return s.transition(id, userID, types.ReminderCompleted)
}

// MarkSkipped transitions a reminder to skipped
func (s *Service) MarkSkipped(id, userID string) (*types.MealReminder, error) {
	return s.transition(id, userID, types.ReminderSkipped)
}

// CancelReminder transitions a reminder to cancelled
func (s *Service) CancelReminder(id, userID string) (*types.MealReminder, error) {
	return s.transition(id, userID, types.ReminderCancelled)
}

// transition enforces the reminder state machine: completed, skipped and
// cancelled are terminal, and completed/skipped are only reachable from
// pending or sent.
func (s *Service) transition(id, userID string, target types.ReminderStatus) (*types.MealReminder, error) {
	if id == "" || userID == "" {
		return nil, types.NewValidationError("reminder id and userId are required", nil)
	}

	reminder, err := s.repo.GetReminderByID(id, userID)
	if err != nil {
		return nil, err
	}

	if reminder.Status.IsTerminal() {
		return nil, types.NewConflictError(
			fmt.Sprintf("reminder is already %s and cannot change state", reminder.Status))
	}

	updated, err := s.repo.TransitionReminder(id, userID, target, time.Now())
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"reminder_id": id,
		"user_id":     userID,
		"status":      string(target),
	}).Info("Reminder state changed")

	return updated, nil
}

// validateSchedule checks the recurrence rule invariants
func validateSchedule(days []int, scheduledTime string) error {
	for _, day := range days {
		if day < 0 || day > 6 {
			return types.NewValidationError("scheduledDays values must be 0-6 (Sunday-Saturday)", nil)
		}
	}

	if len(days) > 0 && scheduledTime == "" {
		return types.NewValidationError("scheduledTime is required when scheduledDays are provided", nil)
	}

	if scheduledTime != "" {
		if _, _, err := parseClock(scheduledTime); err != nil {
			return types.NewValidationError(err.Error(), nil)
		}
	}

	return nil
}

// clampReminderLead bounds the reminder lead time to [0, 120] minutes
func clampReminderLead(minutes int) int {
	if minutes < minReminderLead {
		return minReminderLead
	}
	if minutes > maxReminderLead {
		return maxReminderLead
	}
	return minutes
}

// filterHealthConditions drops unknown condition names
func filterHealthConditions(conditions []string) []string {
	known := make(map[string]bool, len(types.HealthConditions))
	for _, condition := range types.HealthConditions {
		known[condition] = true
	}

	filtered := make([]string, 0, len(conditions))
	for _, condition := range conditions {
		if known[condition] {
			filtered = append(filtered, condition)
		}
	}
	return filtered
}

// applyItemTotals fills unset nutrition targets from the item totals
func applyItemTotals(plan *types.MealPlan) {
	var calories, protein, carbohydrates, fat float64
	for _, item := range plan.Items {
		calories += item.Calories
		protein += item.Protein
		carbohydrates += item.Carbohydrates
		fat += item.Fat
	}

	if plan.TargetCalories == 0 {
		plan.TargetCalories = calories
	}
	if plan.TargetProtein == 0 {
		plan.TargetProtein = protein
	}
	if plan.TargetCarbohydrates == 0 {
		plan.TargetCarbohydrates = carbohydrates
	}
	if plan.TargetFat == 0 {
		plan.TargetFat = fat
	}
}

func normalizePage(page, limit *int) {
	if *page < 1 {
		*page = 1
	}
	if *limit < 1 {
		*limit = defaultPageLimit
	}
	if *limit > maxPageLimit {
		*limit = maxPageLimit
	}
}

func paginationFor(total, page, limit int) *types.Pagination {
	totalPages := (total + limit - 1) / limit
	return &types.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
