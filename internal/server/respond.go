package server

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
	"github.com/manav03panchal/habitd/internal/logging"
	"github.com/manav03panchal/habitd/internal/validate"
)

// errorResponse is the JSON error payload. Rule carries the violated
// consistency rule identifier when the error is a validation rejection, so
// clients can correct exactly one field.
type errorResponse struct {
	Error      string `json:"error"`
	Rule       string `json:"rule,omitempty"`
	Field      string `json:"field,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logging.Error("failed to encode response", logging.KeyError, err)
		}
	}
}

// writeError maps an error to its HTTP status and JSON payload.
func writeError(w http.ResponseWriter, err error) {
	if rejection, ok := validate.AsRejection(err); ok {
		logging.Debug("habit rejected", logging.KeyRule, string(rejection.Rule))
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: rejection.Error(),
			Rule:  string(rejection.Rule),
		})
		return
	}

	if userErr, ok := apperrors.AsUserError(err); ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      userErr.Message,
			Field:      userErr.Field,
			Suggestion: userErr.Suggestion,
		})
		return
	}

	switch {
	case apperrors.Is(err, apperrors.ErrHabitNotFound),
		apperrors.Is(err, apperrors.ErrUserNotFound),
		apperrors.Is(err, apperrors.ErrPageNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case apperrors.Is(err, apperrors.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case apperrors.Is(err, apperrors.ErrInvalidCredentials),
		apperrors.Is(err, apperrors.ErrTokenInvalid):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		if apperrors.IsSystemError(err) {
			logging.Error("storage failure",
				logging.KeyError, err,
				"cause", apperrors.RootCause(err))
		} else {
			logging.Error("internal error", logging.KeyError, err)
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.NewUserError("invalid JSON body", "Check the request payload syntax and field names")
	}
	return nil
}
