// Package validate implements the habit consistency rules.
//
// The rule set decides whether a habit, or a patched version of a stored
// habit, is well-formed: numeric bounds on periodicity and execution time,
// the mutual exclusion between rewards and linked habits, and the
// cross-entity constraints on the linked habit (must exist, must be
// pleasant, must belong to the same owner). Rules are evaluated in a fixed
// order and the first violation wins, so callers always see the same
// rejection for the same input.
package validate

import (
	"strings"
	"time"

	"github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
)

// Rule identifies a single habit consistency rule.
type Rule string

// Rule identifiers, in evaluation order.
const (
	RuleExecutionTimeTooLong         Rule = "ExecutionTimeTooLong"
	RuleExecutionTimeTooShort        Rule = "ExecutionTimeTooShort"
	RulePeriodicityOutOfRange        Rule = "PeriodicityOutOfRange"
	RulePleasantHabitHasRewardOrLink Rule = "PleasantHabitHasRewardOrLink"
	RuleRewardAndLinkBothSet         Rule = "RewardAndLinkBothSet"
	RuleReferenceNotFound            Rule = "ReferenceNotFound"
	RuleLinkedHabitSelfReference     Rule = "LinkedHabitSelfReference"
	RuleLinkedHabitNotPleasant       Rule = "LinkedHabitNotPleasant"
	RuleLinkedHabitWrongOwner        Rule = "LinkedHabitWrongOwner"
)

// ruleMessages maps each rule to its client-facing message.
var ruleMessages = map[Rule]string{
	RuleExecutionTimeTooLong:         "execution time cannot exceed 120 seconds",
	RuleExecutionTimeTooShort:        "execution time must be at least 1 second",
	RulePeriodicityOutOfRange:        "periodicity must be between 1 and 7 days",
	RulePleasantHabitHasRewardOrLink: "a pleasant habit cannot have a reward or a linked habit",
	RuleRewardAndLinkBothSet:         "specify either a reward or a linked habit, not both",
	RuleReferenceNotFound:            "linked habit does not exist",
	RuleLinkedHabitSelfReference:     "a habit cannot be linked to itself",
	RuleLinkedHabitNotPleasant:       "only a pleasant habit can be linked",
	RuleLinkedHabitWrongOwner:        "cannot reference another user's habit",
}

// Message returns the client-facing message for the rule.
func (r Rule) Message() string {
	if msg, ok := ruleMessages[r]; ok {
		return msg
	}
	return string(r)
}

// Rejection is the error returned when a habit violates a rule.
type Rejection struct {
	Rule Rule
}

func (e *Rejection) Error() string {
	return e.Rule.Message()
}

// Reject builds a Rejection for the given rule.
func Reject(rule Rule) error {
	return &Rejection{Rule: rule}
}

// AsRejection extracts a Rejection from an error chain.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

// LinkResolver resolves a linked habit reference. It returns
// errors.ErrHabitNotFound when the key does not exist.
type LinkResolver interface {
	Resolve(key string) (*model.Habit, error)
}

// ResolverFunc adapts a function to the LinkResolver interface.
type ResolverFunc func(key string) (*model.Habit, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(key string) (*model.Habit, error) {
	return f(key)
}

// Habit checks a fully-populated candidate against every consistency rule.
// Field-level checks (non-empty place and action, parseable time of day)
// run before the rule table. The returned error is a *Rejection for rule
// violations and a *errors.UserError for malformed fields; nil means the
// habit was accepted. The check has no side effects: the same candidate
// and resolver state always produce the same decision.
func Habit(h *model.Habit, resolver LinkResolver) error {
	if err := Fields(h); err != nil {
		return err
	}

	if h.ExecutionTime > model.MaxExecutionTime {
		return Reject(RuleExecutionTimeTooLong)
	}
	if h.ExecutionTime < model.MinExecutionTime {
		return Reject(RuleExecutionTimeTooShort)
	}
	if h.Periodicity < model.MinPeriodicity || h.Periodicity > model.MaxPeriodicity {
		return Reject(RulePeriodicityOutOfRange)
	}

	// A dangling reference surfaces before any of the reward/link rules.
	var linked *model.Habit
	if h.HasLink() {
		if h.LinkedHabitKey == h.Key && h.Key != "" {
			return Reject(RuleLinkedHabitSelfReference)
		}
		var err error
		linked, err = resolver.Resolve(h.LinkedHabitKey)
		if err != nil {
			if errors.Is(err, errors.ErrHabitNotFound) {
				return Reject(RuleReferenceNotFound)
			}
			return err
		}
	}

	if h.IsPleasant {
		if h.HasReward() || h.HasLink() {
			return Reject(RulePleasantHabitHasRewardOrLink)
		}
		return nil
	}

	if h.HasReward() && h.HasLink() {
		return Reject(RuleRewardAndLinkBothSet)
	}

	if linked != nil {
		if !linked.IsPleasant {
			return Reject(RuleLinkedHabitNotPleasant)
		}
		if linked.OwnerKey != h.OwnerKey {
			return Reject(RuleLinkedHabitWrongOwner)
		}
	}

	return nil
}

// Fields checks the free-text and time-of-day fields of a habit.
func Fields(h *model.Habit) error {
	if strings.TrimSpace(h.Place) == "" {
		return errors.NewUserErrorWithField("place", h.Place,
			"place cannot be empty",
			"Provide the location where the habit happens")
	}
	if strings.TrimSpace(h.Action) == "" {
		return errors.NewUserErrorWithField("action", h.Action,
			"action cannot be empty",
			"Provide the activity the habit tracks")
	}
	if _, err := time.Parse(model.TimeOfDayLayout, h.Time); err != nil {
		return errors.NewUserErrorWithField("time", h.Time,
			"invalid time of day",
			"Use 24-hour HH:MM format, e.g. '18:00'")
	}
	return nil
}

// Patch holds a partial habit update. Nil fields keep their stored
// values. Owner and creation date are immutable and have no patch fields.
type Patch struct {
	Place         *string `json:"place,omitempty"`
	Time          *string `json:"time,omitempty"`
	Action        *string `json:"action,omitempty"`
	IsPleasant    *bool   `json:"is_pleasant,omitempty"`
	LinkedHabit   *string `json:"linked_habit,omitempty"`
	Periodicity   *int    `json:"periodicity,omitempty"`
	Reward        *string `json:"reward,omitempty"`
	ExecutionTime *int    `json:"execution_time,omitempty"`
	IsPublic      *bool   `json:"is_public,omitempty"`
}

// Merge applies a patch onto a stored habit and returns the candidate for
// validation. The stored habit is not modified. An explicit empty string
// for linked_habit or reward clears the field.
func Merge(stored *model.Habit, p *Patch) *model.Habit {
	merged := *stored
	if p.Place != nil {
		merged.Place = *p.Place
	}
	if p.Time != nil {
		merged.Time = *p.Time
	}
	if p.Action != nil {
		merged.Action = *p.Action
	}
	if p.IsPleasant != nil {
		merged.IsPleasant = *p.IsPleasant
	}
	if p.LinkedHabit != nil {
		merged.LinkedHabitKey = *p.LinkedHabit
	}
	if p.Periodicity != nil {
		merged.Periodicity = *p.Periodicity
	}
	if p.Reward != nil {
		merged.Reward = *p.Reward
	}
	if p.ExecutionTime != nil {
		merged.ExecutionTime = *p.ExecutionTime
	}
	if p.IsPublic != nil {
		merged.IsPublic = *p.IsPublic
	}
	return &merged
}
