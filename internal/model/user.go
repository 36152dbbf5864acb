package model

import (
	"fmt"
	"time"
)

// User represents an account that owns habits and receives reminders.
type User struct {
	Key            string    `json:"key"`
	Username       string    `json:"username"`
	Email          string    `json:"email,omitempty"`
	PasswordHash   string    `json:"password_hash"`
	TelegramChatID string    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// SetKey sets the database key for this user.
func (u *User) SetKey(key string) {
	u.Key = key
}

// GetKey returns the database key for this user.
func (u *User) GetKey() string {
	return u.Key
}

// HasChatID returns true if the user can receive telegram reminders.
func (u *User) HasChatID() bool {
	return u.TelegramChatID != ""
}

// GenerateUserKey generates a database key for a user using UUID.
func GenerateUserKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixUser, uuid)
}

// GenerateUsernameKey generates the index key mapping a username to a
// user key. The username is unique across the system.
func GenerateUsernameKey(username string) string {
	return fmt.Sprintf("%s:%s", PrefixUsername, username)
}

// NewUser creates a new user with the given credentials.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
}
