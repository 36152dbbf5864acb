// Package scheduler provides the cron-driven daily reminder pass.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/manav03panchal/habitd/internal/logging"
)

// DefaultCronSpec fires the daily pass at 09:00 local time.
const DefaultCronSpec = "0 0 9 * * *"

// Scheduler triggers the reminder pass once per day using cron.
// Overlapping passes from a double-fired trigger are not guarded against;
// deduplication, if needed, belongs to the delivery side.
type Scheduler struct {
	cron *cron.Cron
	pass *ReminderPass
	spec string
}

// NewScheduler creates a scheduler around the given reminder pass. An
// empty spec uses DefaultCronSpec.
func NewScheduler(pass *ReminderPass, spec string) *Scheduler {
	if spec == "" {
		spec = DefaultCronSpec
	}
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
		pass: pass,
		spec: spec,
	}
}

// Start registers the daily job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.pass.Run(context.Background(), time.Now())
	})
	if err != nil {
		return fmt.Errorf("failed to add reminder job: %w", err)
	}

	s.cron.Start()
	logging.Info("scheduler started", "cron", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	logging.Info("scheduler stopped")
}

// NextRun returns the next scheduled run time.
func (s *Scheduler) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}

	next := entries[0].Next
	for _, e := range entries[1:] {
		if e.Next.Before(next) {
			next = e.Next
		}
	}
	return next
}
