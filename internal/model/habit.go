package model

import (
	"fmt"
	"time"
)

// Periodicity and execution time bounds for a habit.
const (
	MinPeriodicity   = 1
	MaxPeriodicity   = 7
	MinExecutionTime = 1
	MaxExecutionTime = 120
)

// TimeOfDayLayout is the layout for a habit's time-of-day field.
const TimeOfDayLayout = "15:04"

// Habit represents a recurring action a user tracks, with a schedule and
// optional reward linkage. A pleasant habit is a reward-type activity that
// other habits may reference as their linked reward.
type Habit struct {
	Key            string    `json:"key"`
	OwnerKey       string    `json:"owner_key"`
	Place          string    `json:"place"`
	Time           string    `json:"time"` // time of day, "HH:MM"
	Action         string    `json:"action"`
	IsPleasant     bool      `json:"is_pleasant"`
	LinkedHabitKey string    `json:"linked_habit,omitempty"`
	Periodicity    int       `json:"periodicity"` // repeat every N days
	Reward         string    `json:"reward,omitempty"`
	ExecutionTime  int       `json:"execution_time"` // seconds
	IsPublic       bool      `json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
}

// SetKey sets the database key for this habit.
func (h *Habit) SetKey(key string) {
	h.Key = key
}

// GetKey returns the database key for this habit.
func (h *Habit) GetKey() string {
	return h.Key
}

// HasLink returns true if the habit references another habit.
func (h *Habit) HasLink() bool {
	return h.LinkedHabitKey != ""
}

// HasReward returns true if the habit carries a self-reward.
func (h *Habit) HasReward() bool {
	return h.Reward != ""
}

// NeedsReminder returns true if the habit participates in reminder
// scheduling. Only private, effortful habits are reminded; public or
// pleasant habits never are.
func (h *Habit) NeedsReminder() bool {
	return !h.IsPublic && !h.IsPleasant
}

// IsDueOn returns true if the habit is due for a reminder on the given
// date: the number of whole days since its creation date is an exact
// multiple of its periodicity. A habit is due on its creation date.
func (h *Habit) IsDueOn(today time.Time) bool {
	if h.Periodicity < MinPeriodicity {
		return false
	}
	delta := daysBetween(h.CreatedAt, today)
	if delta < 0 {
		return false
	}
	return delta%h.Periodicity == 0
}

// daysBetween returns the number of calendar days from the date part of a
// to the date part of b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// TimeOfDay parses the habit's time field.
func (h *Habit) TimeOfDay() (time.Time, error) {
	return time.Parse(TimeOfDayLayout, h.Time)
}

// ShortID returns the first 6 characters of the UUID for display.
func (h *Habit) ShortID() string {
	// Key format: "habit:uuid"
	if len(h.Key) > 12 {
		return h.Key[6:12] // Skip "habit:" prefix
	}
	return h.Key
}

// String describes the habit as "<action> at <place> (<time>)".
func (h *Habit) String() string {
	return fmt.Sprintf("%s at %s (%s)", h.Action, h.Place, h.Time)
}

// GenerateHabitKey generates a database key for a habit using UUID.
func GenerateHabitKey(uuid string) string {
	return fmt.Sprintf("%s:%s", PrefixHabit, uuid)
}

// NewHabit creates a new habit owned by the given user.
func NewHabit(ownerKey, place, timeOfDay, action string) *Habit {
	return &Habit{
		OwnerKey:      ownerKey,
		Place:         place,
		Time:          timeOfDay,
		Action:        action,
		Periodicity:   MinPeriodicity,
		ExecutionTime: MinExecutionTime,
		CreatedAt:     time.Now(),
	}
}
