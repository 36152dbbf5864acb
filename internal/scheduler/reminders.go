package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/notify"
	"github.com/manav03panchal/habitd/internal/storage"
)

// ReminderPass computes the habits due for a reminder on a given day and
// dispatches one notification per due habit. Delivery failures are logged
// and isolated per habit; the pass always completes.
type ReminderPass struct {
	habitRepo  *storage.HabitRepo
	dispatcher *notify.Dispatcher
}

// NewReminderPass creates a reminder pass over the given repositories.
func NewReminderPass(habitRepo *storage.HabitRepo, dispatcher *notify.Dispatcher) *ReminderPass {
	return &ReminderPass{
		habitRepo:  habitRepo,
		dispatcher: dispatcher,
	}
}

// DueHabits returns the habits due for a reminder on the given day:
// private, effortful, and an exact periodicity multiple of days since
// creation. Order is unspecified.
func (p *ReminderPass) DueHabits(today time.Time) ([]*model.Habit, error) {
	eligible, err := p.habitRepo.ListReminderEligible()
	if err != nil {
		return nil, err
	}

	var due []*model.Habit
	for _, h := range eligible {
		if h.IsDueOn(today) {
			due = append(due, h)
		}
	}
	return due, nil
}

// Run executes one reminder pass for the given day. Each due habit is
// dispatched on its own goroutine; one failed or slow delivery never
// blocks the rest. Returns the per-habit results.
func (p *ReminderPass) Run(ctx context.Context, today time.Time) []notify.DispatchResult {
	due, err := p.DueHabits(today)
	if err != nil {
		logging.ErrorContext(ctx, "reminder pass failed to list habits",
			logging.KeyOperation, "reminder_pass",
			logging.KeyError, err)
		return nil
	}

	logging.InfoContext(ctx, "reminder pass started",
		logging.KeyOperation, "reminder_pass",
		logging.KeyCount, len(due))

	if len(due) == 0 {
		return nil
	}

	for _, h := range due {
		logging.Debug("habit due", logging.KeyHabitID, h.ShortID())
	}

	var wg sync.WaitGroup
	results := make([]notify.DispatchResult, len(due))

	for i, habit := range due {
		wg.Add(1)
		go func(idx int, h *model.Habit) {
			defer wg.Done()
			results[idx] = p.dispatcher.Dispatch(ctx, model.HabitReminder(h))
		}(i, habit)
	}

	wg.Wait()

	for _, result := range results {
		if result.Success {
			logging.Debug("reminder delivered",
				logging.KeyHabitID, result.HabitKey,
				logging.KeyUserID, result.UserKey,
				logging.KeyDuration, result.Duration.Milliseconds())
		} else {
			// Recorded and swallowed: the next daily pass retries
			// naturally while the due condition holds.
			logging.Warn("reminder delivery failed",
				logging.KeyHabitID, result.HabitKey,
				logging.KeyUserID, result.UserKey,
				logging.KeyError, result.Error)
		}
	}

	return results
}
