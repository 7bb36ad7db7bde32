package interfaces

import "github.com/LEULEX-404/Health-Tracker/pkg/types"

// NotificationSender delivers outbound notifications. A failed send must
// surface as a returned error, never as a process-fatal condition: the
// dispatch loop retries on the next cycle.
type NotificationSender interface {
	SendMealReminder(email, firstName string, notice *types.MealReminderNotice) error
}
