package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/storage"
)

type stubSender struct {
	lastChatID  string
	lastMessage string
	err         error
	delay       time.Duration
}

func (s *stubSender) Send(ctx context.Context, chatID, message string) error {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}
	s.lastChatID = chatID
	s.lastMessage = message
	return s.err
}

func newDispatcherFixture(t *testing.T, sender Sender) (*Dispatcher, *storage.UserRepo) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := storage.NewUserRepo(db)
	return NewDispatcher(userRepo, sender, time.Second), userRepo
}

func TestDispatchSuccess(t *testing.T) {
	sender := &stubSender{}
	dispatcher, userRepo := newDispatcherFixture(t, sender)

	user := model.NewUser("alice", "", "hash")
	user.TelegramChatID = "12345"
	require.NoError(t, userRepo.Create(user))

	habit := model.NewHabit(user.Key, "Park", "07:30", "Run")
	result := dispatcher.Dispatch(context.Background(), model.HabitReminder(habit))

	assert.True(t, result.Success)
	assert.NoError(t, result.Error)
	assert.Equal(t, user.Key, result.UserKey)
	assert.Equal(t, habit.Key, result.HabitKey)
	assert.Equal(t, "12345", sender.lastChatID)
	assert.Equal(t, "Reminder: time to do 'Run' at 07:30 in Park.", sender.lastMessage)
}

func TestDispatchMissingChatID(t *testing.T) {
	sender := &stubSender{}
	dispatcher, userRepo := newDispatcherFixture(t, sender)

	user := model.NewUser("alice", "", "hash")
	require.NoError(t, userRepo.Create(user))

	habit := model.NewHabit(user.Key, "Park", "07:30", "Run")
	result := dispatcher.Dispatch(context.Background(), model.HabitReminder(habit))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, apperrors.ErrChatIDMissing)
	assert.Empty(t, sender.lastChatID)
}

func TestDispatchUnknownUser(t *testing.T) {
	sender := &stubSender{}
	dispatcher, _ := newDispatcherFixture(t, sender)

	habit := model.NewHabit("user:nobody", "Park", "07:30", "Run")
	result := dispatcher.Dispatch(context.Background(), model.HabitReminder(habit))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, apperrors.ErrUserNotFound)
}

func TestDispatchSenderFailure(t *testing.T) {
	sender := &stubSender{err: errors.New("bot api down")}
	dispatcher, userRepo := newDispatcherFixture(t, sender)

	user := model.NewUser("alice", "", "hash")
	user.TelegramChatID = "12345"
	require.NoError(t, userRepo.Create(user))

	habit := model.NewHabit(user.Key, "Park", "07:30", "Run")
	result := dispatcher.Dispatch(context.Background(), model.HabitReminder(habit))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, apperrors.ErrDeliveryFailed)
	assert.ErrorContains(t, result.Error, "bot api down")
}

func TestDispatchTestNotification(t *testing.T) {
	sender := &stubSender{}
	dispatcher, userRepo := newDispatcherFixture(t, sender)

	user := model.NewUser("alice", "", "hash")
	user.TelegramChatID = "12345"
	require.NoError(t, userRepo.Create(user))

	n := model.NewNotification(model.NotifyTest, user.Key, "", "habitd test notification")
	result := dispatcher.Dispatch(context.Background(), n)

	assert.True(t, result.Success)
	assert.Equal(t, "habitd test notification", sender.lastMessage)
}

func TestDispatchSendTimeout(t *testing.T) {
	sender := &stubSender{delay: 5 * time.Second}
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	userRepo := storage.NewUserRepo(db)
	user := model.NewUser("alice", "", "hash")
	user.TelegramChatID = "12345"
	require.NoError(t, userRepo.Create(user))

	dispatcher := NewDispatcher(userRepo, sender, 50*time.Millisecond)
	habit := model.NewHabit(user.Key, "Park", "07:30", "Run")
	result := dispatcher.Dispatch(context.Background(), model.HabitReminder(habit))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, context.DeadlineExceeded)
}

func TestHTTPClientPostSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second, 3, []time.Duration{0, time.Millisecond, time.Millisecond})
	result := client.Post(context.Background(), srv.URL, "application/json", []byte(`{}`))

	assert.NoError(t, result.Error)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, 1, result.Attempts)
}

func TestHTTPClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second, 3, []time.Duration{0, time.Millisecond, time.Millisecond, time.Millisecond})
	result := client.Post(context.Background(), srv.URL, "application/json", []byte(`{}`))

	assert.NoError(t, result.Error)
	assert.Equal(t, 3, result.Attempts)
}

func TestHTTPClientRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second, 3, []time.Duration{0, time.Millisecond, time.Millisecond})
	result := client.Post(context.Background(), srv.URL, "application/json", []byte(`{}`))

	assert.NoError(t, result.Error)
	assert.Equal(t, 2, result.Attempts)
}

func TestHTTPClientKeepsLastDelayPastTable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 4 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// More retries than delay table entries: later retries reuse the last
	// configured delay instead of firing immediately.
	client := NewHTTPClient(time.Second, 5, []time.Duration{0, 20 * time.Millisecond})
	start := time.Now()
	result := client.Post(context.Background(), srv.URL, "application/json", []byte(`{}`))

	assert.NoError(t, result.Error)
	assert.Equal(t, 4, result.Attempts)
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestHTTPClientClientErrorIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	client := NewHTTPClient(time.Second, 3, []time.Duration{0, time.Millisecond, time.Millisecond})
	result := client.Post(context.Background(), srv.URL, "application/json", []byte(`{}`))

	assert.Error(t, result.Error)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTelegramSenderRequiresToken(t *testing.T) {
	sender := NewTelegramSender("", nil)
	err := sender.Send(context.Background(), "12345", "hello")
	assert.Error(t, err)
}
