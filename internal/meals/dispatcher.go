package meals

import (
	"context"
	"time"

	"github.com/LEULEX-404/Health-Tracker/pkg/interfaces"
	"github.com/LEULEX-404/Health-Tracker/pkg/logger"
	"github.com/LEULEX-404/Health-Tracker/pkg/monitoring"
	"github.com/LEULEX-404/Health-Tracker/pkg/types"
)

// Dispatcher is the background reminder loop. Every tick it expands meal
// schedules for all known users, fetches due pending reminders, and attempts
// delivery through the notification sender. A failed delivery leaves the
// reminder pending so the next tick retries it.
type Dispatcher struct {
	service   interfaces.MealService
	repo      interfaces.MealRepository
	users     interfaces.UserDirectory
	sender    interfaces.NotificationSender
	logger    *logger.Logger
	metrics   *monitoring.MetricsCollector
	interval  time.Duration
	batchSize int
}

// NewDispatcher creates the reminder dispatch loop
func NewDispatcher(service interfaces.MealService, repo interfaces.MealRepository, users interfaces.UserDirectory, sender interfaces.NotificationSender, log *logger.Logger, metrics *monitoring.MetricsCollector, interval time.Duration, batchSize int) *Dispatcher {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Dispatcher{
		service:   service,
		repo:      repo,
		users:     users,
		sender:    sender,
		logger:    log,
		metrics:   metrics,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run executes the dispatch loop until the context is cancelled. Ticks are
// serialized; a slow tick delays the next one rather than overlapping it.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.WithComponent("reminder_dispatcher").WithField("interval", d.interval.String()).Info("Reminder dispatcher started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.WithComponent("reminder_dispatcher").Info("Reminder dispatcher stopped")
			return
		case <-ticker.C:
			d.RunTick(ctx)
		}
	}
}

// RunTick performs one dispatch pass over all known users
func (d *Dispatcher) RunTick(ctx context.Context) {
	start := time.Now()

	userIDs, err := d.users.ListUserIDs()
	if err != nil {
		d.logger.WithComponent("reminder_dispatcher").WithError(err).Error("Failed to list users")
		return
	}

	sent, failed := 0, 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return
		}

		userSent, userFailed := d.processUser(userID)
		sent += userSent
		failed += userFailed
	}

	if d.metrics != nil {
		d.metrics.RecordBackgroundTick("reminder_dispatcher", time.Since(start))
	}
	d.logger.BackgroundTick("reminder_dispatcher", time.Since(start).Milliseconds(), sent, failed)
}

// processUser expands one user's schedules and delivers their due reminders.
// Each reminder fails or succeeds independently.
func (d *Dispatcher) processUser(userID string) (sent, failed int) {
	now := time.Now()

	if _, err := d.service.ExpandForUser(userID, now); err != nil {
		d.logger.WithComponent("reminder_dispatcher").WithField("user_id", userID).WithError(err).Error("Schedule expansion failed")
	}

	due, err := d.repo.ListDueReminders(userID, now, d.batchSize)
	if err != nil {
		d.logger.WithComponent("reminder_dispatcher").WithField("user_id", userID).WithError(err).Error("Failed to fetch due reminders")
		return 0, 0
	}

	for _, reminder := range due {
		if err := d.deliver(userID, reminder); err != nil {
			failed++
			if d.metrics != nil {
				d.metrics.RecordReminderDispatch("failed")
			}
			d.logger.WithFields(map[string]interface{}{
				"component":   "reminder_dispatcher",
				"user_id":     userID,
				"reminder_id": reminder.ID,
			}).WithError(err).Error("Reminder delivery failed, will retry next tick")
			continue
		}

		sent++
		if d.metrics != nil {
			d.metrics.RecordReminderDispatch("sent")
		}
	}

	return sent, failed
}

// deliver sends one reminder and marks it sent. The status transition only
// happens after a successful send.
func (d *Dispatcher) deliver(userID string, reminder *types.MealReminder) error {
	user, err := d.users.GetUser(userID)
	if err != nil {
		return err
	}

	notice := &types.MealReminderNotice{
		MealName:      reminder.MealName,
		MealType:      reminder.MealType,
		ScheduledTime: reminder.ScheduledDate,
	}
	if notice.MealName == "" {
		notice.MealName = string(reminder.MealType)
	}

	if plan, err := d.repo.GetPlanByID(reminder.MealPlanID, userID); err == nil {
		notice.Items = plan.Items
	}

	if err := d.sender.SendMealReminder(user.Email, user.FirstName, notice); err != nil {
		return err
	}

	return d.repo.MarkReminderSent(reminder.ID, time.Now())
}
