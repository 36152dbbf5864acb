package server

import (
	"net/http"
	"strings"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/model"
)

// registerRequest is the payload for user registration.
type registerRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	TelegramChatID string `json:"telegram_chat_id"`
}

// userResponse is the public view of a user.
type userResponse struct {
	Key            string `json:"key"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		Key:            u.Key,
		Username:       u.Username,
		Email:          u.Email,
		TelegramChatID: u.TelegramChatID,
	}
}

// handleRegister creates a new user account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.Username) == "" {
		writeError(w, apperrors.NewUserErrorWithField("username", req.Username,
			"username cannot be empty", "Provide a username"))
		return
	}
	if len(req.Password) < 8 {
		writeError(w, apperrors.NewUserErrorWithField("password", "",
			"password too short", "Passwords must be at least 8 characters"))
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := model.NewUser(req.Username, req.Email, hash)
	user.TelegramChatID = req.TelegramChatID

	if err := s.ctx.UserRepo.Create(user); err != nil {
		writeError(w, err)
		return
	}

	logging.Info("user registered", logging.KeyUserID, user.Key)
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// tokenRequest is the payload for token issuance.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse carries an issued API token.
type tokenResponse struct {
	Token string `json:"token"`
}

// handleToken authenticates a user and issues a token.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := s.ctx.UserRepo.GetByUsername(req.Username)
	if err != nil {
		// Same response for unknown user and wrong password.
		writeError(w, apperrors.ErrInvalidCredentials)
		return
	}
	if !CheckPassword(user.PasswordHash, req.Password) {
		writeError(w, apperrors.ErrInvalidCredentials)
		return
	}

	token, err := s.auth.Issue(user.Key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// telegramRequest is the payload for setting a notification address.
type telegramRequest struct {
	TelegramChatID string `json:"telegram_chat_id"`
}

// handleSetTelegram sets the caller's telegram chat ID.
func (s *Server) handleSetTelegram(w http.ResponseWriter, r *http.Request) {
	var req telegramRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if strings.TrimSpace(req.TelegramChatID) == "" {
		writeError(w, apperrors.NewUserErrorWithField("telegram_chat_id", "",
			"telegram_chat_id is required", "Provide the chat id to deliver reminders to"))
		return
	}

	userKey := userKeyFrom(r)
	if err := s.ctx.UserRepo.SetTelegramChatID(userKey, req.TelegramChatID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "telegram chat id updated"})
}
