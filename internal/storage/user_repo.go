package storage

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/model"
)

// UserRepo provides operations for User entities.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new user repository.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create creates a new user. Usernames are unique; a second user with the
// same username is rejected.
func (r *UserRepo) Create(user *model.User) error {
	indexKey := model.GenerateUsernameKey(user.Username)
	taken, err := r.db.Exists(indexKey)
	if err != nil {
		return apperrors.NewSystemErrorWithOp("user.create", "database read failed", err)
	}
	if taken {
		return apperrors.ErrUsernameTaken
	}

	if user.Key == "" {
		user.Key = model.GenerateUserKey(uuid.New().String())
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	if err := r.db.Set(user); err != nil {
		return apperrors.NewSystemErrorWithOp("user.create", "database write failed", err)
	}
	if err := r.db.SetBytes(indexKey, []byte(user.Key)); err != nil {
		return apperrors.NewSystemErrorWithOp("user.create", "database write failed", err)
	}
	return nil
}

// Get retrieves a user by key.
func (r *UserRepo) Get(key string) (*model.User, error) {
	user := &model.User{}
	if err := r.db.Get(key, user); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewSystemErrorWithOp("user.get", "database read failed", err)
	}
	return user, nil
}

// GetByUsername retrieves a user through the username index.
func (r *UserRepo) GetByUsername(username string) (*model.User, error) {
	key, err := r.db.GetBytes(model.GenerateUsernameKey(username))
	if err != nil {
		if IsErrKeyNotFound(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewSystemErrorWithOp("user.get", "database read failed", err)
	}
	return r.Get(string(key))
}

// Update stores the user record.
func (r *UserRepo) Update(user *model.User) error {
	if err := r.db.Set(user); err != nil {
		return apperrors.NewSystemErrorWithOp("user.update", "database write failed", err)
	}
	return nil
}

// SetTelegramChatID updates the user's notification address.
func (r *UserRepo) SetTelegramChatID(key, chatID string) error {
	user, err := r.Get(key)
	if err != nil {
		return err
	}
	user.TelegramChatID = chatID
	return r.Update(user)
}

// Exists checks if a user exists.
func (r *UserRepo) Exists(key string) (bool, error) {
	return r.db.Exists(key)
}
