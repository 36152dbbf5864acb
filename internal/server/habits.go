package server

import (
	"net/http"
	"strconv"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/model"
	"github.com/manav03panchal/habitd/internal/storage"
	"github.com/manav03panchal/habitd/internal/validate"
)

// habitRequest is the payload for habit creation.
type habitRequest struct {
	Place         string `json:"place"`
	Time          string `json:"time"`
	Action        string `json:"action"`
	IsPleasant    bool   `json:"is_pleasant"`
	LinkedHabit   string `json:"linked_habit,omitempty"`
	Periodicity   int    `json:"periodicity"`
	Reward        string `json:"reward,omitempty"`
	ExecutionTime int    `json:"execution_time"`
	IsPublic      bool   `json:"is_public"`
}

// handleCreateHabit validates and stores a new habit owned by the caller.
func (s *Server) handleCreateHabit(w http.ResponseWriter, r *http.Request) {
	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	habit := model.NewHabit(userKeyFrom(r), req.Place, req.Time, req.Action)
	habit.IsPleasant = req.IsPleasant
	habit.LinkedHabitKey = req.LinkedHabit
	habit.Periodicity = req.Periodicity
	habit.Reward = req.Reward
	habit.ExecutionTime = req.ExecutionTime
	habit.IsPublic = req.IsPublic

	if err := validate.Habit(habit, s.ctx.HabitRepo); err != nil {
		writeError(w, err)
		return
	}

	if err := s.ctx.HabitRepo.Create(habit); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("habit created",
		logging.KeyHabitID, habit.Key,
		logging.KeyUserID, habit.OwnerKey)
	writeJSON(w, http.StatusCreated, habit)
}

// handleListHabits lists the caller's habits, or all public habits when
// ?public=true. Results are paginated with a fixed page size.
func (s *Server) handleListHabits(w http.ResponseWriter, r *http.Request) {
	var (
		habits []*model.Habit
		err    error
	)
	if r.URL.Query().Get("public") == "true" {
		habits, err = s.ctx.HabitRepo.ListPublic()
	} else {
		habits, err = s.ctx.HabitRepo.ListByOwner(userKeyFrom(r))
	}
	if err != nil {
		writeError(w, err)
		return
	}

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			writeError(w, apperrors.NewUserErrorWithField("page", v,
				"invalid page number", "Pages are numbered from 1"))
			return
		}
		page = n
	}

	result, err := storage.Paginate(habits, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// loadHabit fetches the habit from the path and checks read access:
// owners read their own habits, everyone reads public ones.
func (s *Server) loadHabit(r *http.Request) (*model.Habit, error) {
	habit, err := s.ctx.HabitRepo.Get(model.GenerateHabitKey(r.PathValue("id")))
	if err != nil {
		return nil, err
	}
	if habit.OwnerKey != userKeyFrom(r) && !habit.IsPublic {
		// Do not reveal the existence of private foreign habits.
		return nil, apperrors.ErrHabitNotFound
	}
	return habit, nil
}

// handleGetHabit returns a single habit.
func (s *Server) handleGetHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := s.loadHabit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, habit)
}

// handlePatchHabit applies a partial update to an owned habit. The patch
// merged with the stored record must satisfy every consistency rule;
// owner and creation date cannot change.
func (s *Server) handlePatchHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := s.loadHabit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if habit.OwnerKey != userKeyFrom(r) {
		writeError(w, apperrors.ErrPermissionDenied)
		return
	}

	var patch validate.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, err)
		return
	}

	merged := validate.Merge(habit, &patch)
	if err := validate.Habit(merged, s.ctx.HabitRepo); err != nil {
		writeError(w, err)
		return
	}

	if err := s.ctx.HabitRepo.Update(merged); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("habit updated", logging.KeyHabitID, merged.Key)
	writeJSON(w, http.StatusOK, merged)
}

// handleDeleteHabit removes an owned habit.
func (s *Server) handleDeleteHabit(w http.ResponseWriter, r *http.Request) {
	habit, err := s.loadHabit(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if habit.OwnerKey != userKeyFrom(r) {
		writeError(w, apperrors.ErrPermissionDenied)
		return
	}

	if err := s.ctx.HabitRepo.Delete(habit.Key); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("habit deleted", logging.KeyHabitID, habit.Key)
	w.WriteHeader(http.StatusNoContent)
}
