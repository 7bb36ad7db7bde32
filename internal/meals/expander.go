package meals

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Rolling expansion window for reminder materialization
const expansionWindowDays = 7

// parseClock parses an HH:MM wall-clock string
func parseClock(value string) (hour, minute int, err error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}

	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}

	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hour, minute, nil
}

// dedupKey identifies a reminder occurrence. At most one reminder may exist
// per meal plan per calendar date.
func dedupKey(mealPlanID string, scheduledDate time.Time) string {
	return mealPlanID + "-" + scheduledDate.Format("2006-01-02")
}

// ExpandPlan materializes reminder rows for every scheduled weekday of the
// plan inside [windowStart, windowEnd]. Occurrences whose reminder time has
// already passed relative to now are never created. Pure, no I/O; the caller
// is responsible for deduplication against existing rows and persistence.
func ExpandPlan(plan *types.MealPlan, windowStart, windowEnd, now time.Time) ([]*types.MealReminder, error) {
	if !plan.ReminderEnabled || len(plan.ScheduledDays) == 0 || plan.ScheduledTime == "" {
		return nil, nil
	}

	hour, minute, err := parseClock(plan.ScheduledTime)
	if err != nil {
		return nil, err
	}

	scheduledDays := make(map[int]bool, len(plan.ScheduledDays))
	for _, day := range plan.ScheduledDays {
		scheduledDays[day] = true
	}

	var reminders []*types.MealReminder

	day := time.Date(windowStart.Year(), windowStart.Month(), windowStart.Day(), 0, 0, 0, 0, windowStart.Location())
	for !day.After(windowEnd) {
		if scheduledDays[int(day.Weekday())] {
			mealTime := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			reminderTime := mealTime.Add(-time.Duration(plan.ReminderMinutesBefore) * time.Minute)

			if !reminderTime.Before(now) {
				reminders = append(reminders, &types.MealReminder{
					UserID:        plan.UserID,
					MealPlanID:    plan.ID,
					ScheduledDate: day,
					ReminderTime:  reminderTime,
					MealType:      plan.MealType,
					MealName:      plan.MealName,
					Status:        types.ReminderPending,
				})
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return reminders, nil
}

// dedupeAgainst drops candidate reminders whose (plan, date) occurrence
// already exists
func dedupeAgainst(candidates []*types.MealReminder, existing []*types.MealReminder) []*types.MealReminder {
	existingKeys := make(map[string]bool, len(existing))
	for _, reminder := range existing {
		existingKeys[dedupKey(reminder.MealPlanID, reminder.ScheduledDate)] = true
	}

	fresh := make([]*types.MealReminder, 0, len(candidates))
	for _, candidate := range candidates {
		if !existingKeys[dedupKey(candidate.MealPlanID, candidate.ScheduledDate)] {
			fresh = append(fresh, candidate)
		}
	}

	return fresh
}
