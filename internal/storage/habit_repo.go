package storage

import (
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
)

// HabitRepo provides operations for Habit entities.
type HabitRepo struct {
	db *DB
}

// NewHabitRepo creates a new habit repository.
func NewHabitRepo(db *DB) *HabitRepo {
	return &HabitRepo{db: db}
}

// Create creates a new habit with a generated key. CreatedAt is set once
// here and never changes afterwards.
func (r *HabitRepo) Create(habit *model.Habit) error {
	if habit.Key == "" {
		habit.Key = model.GenerateHabitKey(uuid.New().String())
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	if err := r.db.Set(habit); err != nil {
		return apperrors.NewSystemErrorWithOp("habit.create", "database write failed", err)
	}
	return nil
}

// Get retrieves a habit by key.
func (r *HabitRepo) Get(key string) (*model.Habit, error) {
	habit := &model.Habit{}
	if err := r.db.Get(key, habit); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrHabitNotFound
		}
		return nil, apperrors.NewSystemErrorWithOp("habit.get", "database read failed", err)
	}
	return habit, nil
}

// Resolve implements validate.LinkResolver over stored habits.
func (r *HabitRepo) Resolve(key string) (*model.Habit, error) {
	return r.Get(key)
}

// Update stores the habit record. Key, OwnerKey and CreatedAt must already
// carry their stored values; the validator runs before this is called.
func (r *HabitRepo) Update(habit *model.Habit) error {
	if err := r.db.Set(habit); err != nil {
		return apperrors.NewSystemErrorWithOp("habit.update", "database write failed", err)
	}
	return nil
}

// Delete removes a habit by key. References from other habits are left in
// place and dangle: they resolve to a reference failure on the next
// validation of the referencing habit.
func (r *HabitRepo) Delete(key string) error {
	exists, err := r.db.Exists(key)
	if err != nil {
		return apperrors.NewSystemErrorWithOp("habit.delete", "database read failed", err)
	}
	if !exists {
		return apperrors.ErrHabitNotFound
	}
	if err := r.db.Delete(key); err != nil {
		return apperrors.NewSystemErrorWithOp("habit.delete", "database write failed", err)
	}
	return nil
}

// List retrieves all habits ordered by key.
func (r *HabitRepo) List() ([]*model.Habit, error) {
	habits, err := GetAllByPrefix(r.db, model.PrefixHabit+":", func() *model.Habit {
		return &model.Habit{}
	})
	if err != nil {
		return nil, apperrors.NewSystemErrorWithOp("habit.list", "database read failed", err)
	}
	sort.Slice(habits, func(i, j int) bool {
		return habits[i].Key < habits[j].Key
	})
	return habits, nil
}

// ListByOwner retrieves all habits owned by the given user.
func (r *HabitRepo) ListByOwner(ownerKey string) ([]*model.Habit, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var owned []*model.Habit
	for _, h := range all {
		if h.OwnerKey == ownerKey {
			owned = append(owned, h)
		}
	}
	return owned, nil
}

// ListPublic retrieves all public habits across all owners.
func (r *HabitRepo) ListPublic() ([]*model.Habit, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var public []*model.Habit
	for _, h := range all {
		if h.IsPublic {
			public = append(public, h)
		}
	}
	return public, nil
}

// ListReminderEligible retrieves the habits that participate in reminder
// scheduling: private and not pleasant.
func (r *HabitRepo) ListReminderEligible() ([]*model.Habit, error) {
	all, err := r.List()
	if err != nil {
		return nil, err
	}

	var eligible []*model.Habit
	for _, h := range all {
		if h.NeedsReminder() {
			eligible = append(eligible, h)
		}
	}
	return eligible, nil
}

// Exists checks if a habit exists.
func (r *HabitRepo) Exists(key string) (bool, error) {
	return r.db.Exists(key)
}
