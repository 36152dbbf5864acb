// Package runtime provides the application runtime context for habitd.
package runtime

import (
	"os"

	"github.com/manav03panchal/habitd/internal/config"
	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/notify"
	"github.com/manav03panchal/habitd/internal/storage"
)

// Context holds the application runtime context.
type Context struct {
	DB     *storage.DB
	Config *config.RuntimeConfig

	// Repositories
	HabitRepo *storage.HabitRepo
	UserRepo  *storage.UserRepo

	// Reminder delivery
	Dispatcher *notify.Dispatcher
}

// Options configures the runtime context.
type Options struct {
	DBPath   string
	InMemory bool
	Config   *config.RuntimeConfig
	Sender   notify.Sender
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:   storage.DefaultPath(),
		InMemory: false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("HABITD_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Load()
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to initialize storage")
	}

	habitRepo := storage.NewHabitRepo(db)
	userRepo := storage.NewUserRepo(db)

	sender := opts.Sender
	if sender == nil {
		client := notify.NewHTTPClient(cfg.Notify.SendTimeout, cfg.Notify.MaxRetries, cfg.Notify.RetryDelays)
		sender = notify.NewTelegramSender(cfg.Notify.TelegramToken, client)
	}
	dispatcher := notify.NewDispatcher(userRepo, sender, cfg.Notify.SendTimeout)

	return &Context{
		DB:         db,
		Config:     cfg,
		HabitRepo:  habitRepo,
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	}, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
