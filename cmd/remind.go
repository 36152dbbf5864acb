package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/scheduler"
)

// remindCmd runs one reminder pass immediately.
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run one reminder pass now",
	Long: `Compute the habits due today and deliver one reminder per due
habit. Useful for testing delivery and for external cron setups that
prefer invoking the pass themselves.

Examples:
  habitd remind
  habitd remind --date 2024-01-04
  habitd remind --test-user alice`,
	RunE: runRemind,
}

var (
	remindFlagDate     string
	remindFlagTestUser string
)

func init() {
	remindCmd.Flags().StringVar(&remindFlagDate, "date", "",
		"Run the pass as if today were this date (YYYY-MM-DD)")
	remindCmd.Flags().StringVar(&remindFlagTestUser, "test-user", "",
		"Send a test notification to this username instead of running the pass")
}

func runRemind(cmd *cobra.Command, args []string) error {
	if remindFlagTestUser != "" {
		return runTestNotification(cmd, remindFlagTestUser)
	}

	today := time.Now()
	if remindFlagDate != "" {
		parsed, err := time.Parse("2006-01-02", remindFlagDate)
		if err != nil {
			return err
		}
		today = parsed
	}

	pass := scheduler.NewReminderPass(ctx.HabitRepo, ctx.Dispatcher)
	results := pass.Run(context.Background(), today)

	sent := 0
	for _, r := range results {
		if r.Success {
			sent++
		}
	}
	cmd.Printf("due: %d, delivered: %d\n", len(results), sent)
	return nil
}

// runTestNotification verifies delivery configuration end to end for one
// user without touching any habits.
func runTestNotification(cmd *cobra.Command, username string) error {
	user, err := ctx.UserRepo.GetByUsername(username)
	if err != nil {
		return err
	}

	n := model.NewNotification(model.NotifyTest, user.Key, "", "habitd test notification")
	result := ctx.Dispatcher.Dispatch(context.Background(), n)
	if result.Error != nil {
		return result.Error
	}

	cmd.Printf("test notification delivered to %s\n", user.Username)
	return nil
}
