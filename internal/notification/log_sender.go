package notification

import (
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// LogSender logs reminders instead of emailing them. Used when outbound
// email is disabled, typically in development.
type LogSender struct {
	logger *logger.Logger
}

// NewLogSender creates a log-only notification sender
func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

// SendMealReminder logs the reminder that would have been emailed
func (s *LogSender) SendMealReminder(email, firstName string, notice *types.MealReminderNotice) error {
	s.logger.WithFields(map[string]interface{}{
		"recipient":      email,
		"first_name":     firstName,
		"meal":           notice.MealName,
		"meal_type":      notice.MealType,
		"scheduled_time": notice.ScheduledTime,
	}).Info("Meal reminder (email disabled, logged only)")
	return nil
}
