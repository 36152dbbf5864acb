// Package server exposes the habitd REST API.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/runtime"
)

// Server holds the API handlers and their dependencies.
type Server struct {
	ctx     *runtime.Context
	auth    *Auth
	health  *HealthChecker
	version string
}

// New creates a server over the given runtime context.
func New(ctx *runtime.Context, version string) *Server {
	s := &Server{
		ctx:     ctx,
		auth:    NewAuth(ctx.Config.Auth.JWTSecret, ctx.Config.Auth.TokenTTL),
		health:  NewHealthChecker(version),
		version: version,
	}
	s.health.AddCheck("storage", func() error {
		if ctx.DB.Badger().IsClosed() {
			return errors.New("database closed")
		}
		_, err := ctx.HabitRepo.Exists("habit:ping")
		return err
	})
	return s
}

// Routes builds the request multiplexer.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("POST /api/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/users/token", s.handleToken)
	mux.HandleFunc("POST /api/users/telegram", s.requireAuth(s.handleSetTelegram))

	mux.HandleFunc("GET /api/habits", s.requireAuth(s.handleListHabits))
	mux.HandleFunc("POST /api/habits", s.requireAuth(s.handleCreateHabit))
	mux.HandleFunc("GET /api/habits/{id}", s.requireAuth(s.handleGetHabit))
	mux.HandleFunc("PATCH /api/habits/{id}", s.requireAuth(s.handlePatchHabit))
	mux.HandleFunc("DELETE /api/habits/{id}", s.requireAuth(s.handleDeleteHabit))

	return mux
}

// HTTPServer wraps the routes in an http.Server with sane timeouts.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// handleHealth reports daemon health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.health.Check()
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	logging.Debug("health checked", logging.KeyStatus, status.Status)
	writeJSON(w, code, status)
}
