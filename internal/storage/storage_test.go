package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
)

// openTestDB opens an in-memory database for testing.
func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestHabit(owner string) *model.Habit {
	h := model.NewHabit(owner, "Gym", "18:00", "Workout")
	h.Periodicity = 3
	h.ExecutionTime = 45
	return h
}

func TestHabitRepoCreateAndGet(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	habit := newTestHabit("user:alice")
	require.NoError(t, repo.Create(habit))
	require.NotEmpty(t, habit.Key)
	assert.False(t, habit.CreatedAt.IsZero())

	got, err := repo.Get(habit.Key)
	require.NoError(t, err)
	assert.Equal(t, habit.Key, got.Key)
	assert.Equal(t, "Workout", got.Action)
	assert.Equal(t, "user:alice", got.OwnerKey)
}

func TestHabitRepoGetMissing(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	_, err := repo.Get("habit:nope")
	assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
}

func TestHabitRepoResolve(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	habit := newTestHabit("user:alice")
	require.NoError(t, repo.Create(habit))

	resolved, err := repo.Resolve(habit.Key)
	require.NoError(t, err)
	assert.Equal(t, habit.Key, resolved.Key)

	_, err = repo.Resolve("habit:gone")
	assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)
}

func TestHabitRepoUpdate(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	habit := newTestHabit("user:alice")
	require.NoError(t, repo.Create(habit))

	habit.Place = "Office"
	require.NoError(t, repo.Update(habit))

	got, err := repo.Get(habit.Key)
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Place)
}

func TestHabitRepoDelete(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	habit := newTestHabit("user:alice")
	require.NoError(t, repo.Create(habit))
	require.NoError(t, repo.Delete(habit.Key))

	_, err := repo.Get(habit.Key)
	assert.ErrorIs(t, err, apperrors.ErrHabitNotFound)

	assert.ErrorIs(t, repo.Delete(habit.Key), apperrors.ErrHabitNotFound)
}

func TestHabitRepoListFilters(t *testing.T) {
	repo := NewHabitRepo(openTestDB(t))

	private := newTestHabit("user:alice")
	require.NoError(t, repo.Create(private))

	public := newTestHabit("user:alice")
	public.IsPublic = true
	require.NoError(t, repo.Create(public))

	pleasant := newTestHabit("user:alice")
	pleasant.IsPleasant = true
	require.NoError(t, repo.Create(pleasant))

	foreign := newTestHabit("user:bob")
	require.NoError(t, repo.Create(foreign))

	owned, err := repo.ListByOwner("user:alice")
	require.NoError(t, err)
	assert.Len(t, owned, 3)

	publics, err := repo.ListPublic()
	require.NoError(t, err)
	require.Len(t, publics, 1)
	assert.Equal(t, public.Key, publics[0].Key)

	// Reminder eligibility: private and not pleasant, any owner.
	eligible, err := repo.ListReminderEligible()
	require.NoError(t, err)
	assert.Len(t, eligible, 2)
	for _, h := range eligible {
		assert.True(t, h.NeedsReminder())
	}
}

func TestUserRepoCreateAndLookup(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))

	user := model.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, repo.Create(user))
	require.NotEmpty(t, user.Key)

	byKey, err := repo.Get(user.Key)
	require.NoError(t, err)
	assert.Equal(t, "alice", byKey.Username)

	byName, err := repo.GetByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, user.Key, byName.Key)
}

func TestUserRepoUsernameUnique(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))

	require.NoError(t, repo.Create(model.NewUser("alice", "", "hash")))
	err := repo.Create(model.NewUser("alice", "", "otherhash"))
	assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
}

func TestUserRepoSetTelegramChatID(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))

	user := model.NewUser("alice", "", "hash")
	require.NoError(t, repo.Create(user))
	require.NoError(t, repo.SetTelegramChatID(user.Key, "12345"))

	got, err := repo.Get(user.Key)
	require.NoError(t, err)
	assert.Equal(t, "12345", got.TelegramChatID)
	assert.True(t, got.HasChatID())
}

func TestUserRepoGetMissing(t *testing.T) {
	repo := NewUserRepo(openTestDB(t))

	_, err := repo.Get("user:nope")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	_, err = repo.GetByUsername("nobody")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestPaginate(t *testing.T) {
	habits := make([]*model.Habit, 8)
	for i := range habits {
		habits[i] = &model.Habit{Key: model.GenerateHabitKey(string(rune('a' + i)))}
	}

	first, err := Paginate(habits, 1)
	require.NoError(t, err)
	assert.Equal(t, 8, first.Count)
	assert.Len(t, first.Results, PageSize)

	second, err := Paginate(habits, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, second.Count)
	assert.Len(t, second.Results, 3)

	// A page past the end does not exist.
	_, err = Paginate(habits, 3)
	assert.ErrorIs(t, err, apperrors.ErrPageNotFound)

	_, err = Paginate(habits, 0)
	assert.Error(t, err)
	assert.True(t, apperrors.IsUserError(err))
}

func TestPaginateEmpty(t *testing.T) {
	page, err := Paginate(nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)

	_, err = Paginate(nil, 2)
	assert.ErrorIs(t, err, apperrors.ErrPageNotFound)
}

func TestRepoStorageFailure(t *testing.T) {
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)

	habitRepo := NewHabitRepo(db)
	userRepo := NewUserRepo(db)

	habit := newTestHabit("user:alice")
	require.NoError(t, habitRepo.Create(habit))
	require.NoError(t, db.Close())

	_, err = habitRepo.Get(habit.Key)
	require.Error(t, err)
	assert.True(t, apperrors.IsSystemError(err))

	_, err = habitRepo.List()
	require.Error(t, err)
	assert.True(t, apperrors.IsSystemError(err))

	assert.True(t, apperrors.IsSystemError(habitRepo.Create(newTestHabit("user:bob"))))
	assert.True(t, apperrors.IsSystemError(userRepo.Create(model.NewUser("bob", "", "hash"))))
}
