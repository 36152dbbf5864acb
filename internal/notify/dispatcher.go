package notify

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/storage"
)

// Dispatcher resolves a notification's recipient and delivers the message.
type Dispatcher struct {
	userRepo    *storage.UserRepo
	sender      Sender
	sendTimeout time.Duration
}

// NewDispatcher creates a notification dispatcher. A zero timeout falls
// back to 30 seconds.
func NewDispatcher(userRepo *storage.UserRepo, sender Sender, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = 30 * time.Second
	}
	return &Dispatcher{
		userRepo:    userRepo,
		sender:      sender,
		sendTimeout: sendTimeout,
	}
}

// DispatchResult contains the result of delivering one notification.
type DispatchResult struct {
	UserKey  string
	HabitKey string
	Success  bool
	Duration time.Duration
	Error    error
}

// Dispatch resolves the recipient's telegram chat ID and sends the
// notification. A missing user or chat ID is a delivery failure, reported
// in the result rather than raised.
func (d *Dispatcher) Dispatch(ctx context.Context, n *model.Notification) DispatchResult {
	result := DispatchResult{
		UserKey:  n.UserKey,
		HabitKey: n.HabitKey,
	}
	start := time.Now()

	user, err := d.userRepo.Get(n.UserKey)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	if !user.HasChatID() {
		result.Error = apperrors.ErrChatIDMissing
		result.Duration = time.Since(start)
		return result
	}

	// Bound the send so one slow delivery cannot stall the whole pass.
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := d.sender.Send(sendCtx, user.TelegramChatID, n.Message); err != nil {
		result.Error = fmt.Errorf("%w: %w", apperrors.ErrDeliveryFailed, err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}
