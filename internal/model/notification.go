package model

import (
	"time"
)

// NotificationType defines the type of notification.
type NotificationType string

// Notification types.
const (
	NotifyHabitReminder NotificationType = "habit_reminder"
	NotifyTest          NotificationType = "test"
)

// Notification represents a reminder intent to be delivered to a user.
type Notification struct {
	Type      NotificationType `json:"type"`
	UserKey   string           `json:"user_key"`
	HabitKey  string           `json:"habit_key"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
}

// NewNotification creates a new notification.
func NewNotification(t NotificationType, userKey, habitKey, message string) *Notification {
	return &Notification{
		Type:      t,
		UserKey:   userKey,
		HabitKey:  habitKey,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// HabitReminder builds the reminder intent for a due habit. The message
// names the action, time of day, and place.
func HabitReminder(h *Habit) *Notification {
	msg := "Reminder: time to do '" + h.Action + "' at " + h.Time + " in " + h.Place + "."
	return NewNotification(NotifyHabitReminder, h.OwnerKey, h.Key, msg)
}
