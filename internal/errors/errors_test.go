package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserErrorMessage(t *testing.T) {
	err := NewUserError("invalid input", "Fix the payload")
	assert.Equal(t, "invalid input", err.Error())

	withField := NewUserErrorWithField("page", "0", "page number out of range", "Pages start at 1")
	assert.Equal(t, "page number out of range: '0'", withField.Error())
	assert.Equal(t, "page", withField.Field)
}

func TestIsUserError(t *testing.T) {
	err := NewUserError("bad input", "")
	assert.True(t, IsUserError(err))
	assert.False(t, IsUserError(errors.New("plain")))

	// Detected through a wrap.
	assert.True(t, IsUserError(Wrap(err, "handling request")))

	ue, ok := AsUserError(Wrap(err, "handling request"))
	require.True(t, ok)
	assert.Equal(t, "bad input", ue.Message)
}

func TestSystemError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewSystemErrorWithOp("habit.create", "database write failed", cause)

	assert.Equal(t, "database write failed during habit.create", err.Error())
	assert.True(t, IsSystemError(err))
	assert.ErrorIs(t, err, cause)

	plain := NewSystemError("database write failed", cause)
	assert.Equal(t, "database write failed", plain.Error())
	assert.False(t, IsSystemError(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "context"))
	assert.NoError(t, Wrapf(nil, "context %d", 1))

	base := errors.New("boom")
	wrapped := Wrap(base, "saving habit")
	assert.Equal(t, "saving habit: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)

	formatted := Wrapf(base, "attempt %d", 3)
	assert.Equal(t, "attempt 3: boom", formatted.Error())
}

func TestRootCause(t *testing.T) {
	base := errors.New("connection refused")
	err := Wrap(NewSystemError("database unreachable", base), "listing habits")

	assert.Equal(t, base, RootCause(err))
	assert.Equal(t, base, RootCause(base))
	assert.Equal(t, base, Unwrap(Wrap(base, "outer")))
	assert.Nil(t, Unwrap(base))
}

func TestSentinels(t *testing.T) {
	assert.True(t, Is(Wrap(ErrHabitNotFound, "resolving link"), ErrHabitNotFound))
	assert.True(t, Is(Wrap(ErrDeliveryFailed, "telegram"), ErrDeliveryFailed))
	assert.False(t, Is(ErrHabitNotFound, ErrUserNotFound))
}
