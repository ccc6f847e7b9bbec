package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UserView is the public projection of a user.
type UserView struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

// AuthEnvelope wraps verify-otp and me responses.
type AuthEnvelope struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *UserView `json:"user,omitempty"`
}

type SchoolsEnvelope struct {
	Success bool            `json:"success"`
	Schools []domain.School `json:"schools"`
}

type CreatedEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

type UploadEnvelope struct {
	Success  bool   `json:"success"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

func toUserView(u *domain.User) *UserView {
	if u == nil {
		return nil
	}
	return &UserView{ID: u.ID, Email: u.Email}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Success: false, Message: msg})
}

// writeServiceError maps domain sentinels to status codes. Anything not
// recognised, including ErrUnavailable, is logged and reported as 500 with
// internalMsg so upstream details never reach the client.
func writeServiceError(w http.ResponseWriter, err error, internalMsg string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, domain.Reason(err))
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, domain.Reason(err))
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, domain.Reason(err))
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, domain.Reason(err))
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, domain.Reason(err))
	default:
		logger.Error(internalMsg, zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalMsg)
	}
}
