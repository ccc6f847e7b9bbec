package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/school-directory/internal/application/auth"
	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/transport/http/middleware"
)

// CookieOptions controls the session cookie written on sign-in.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// AuthHandler handles the passwordless sign-in endpoints.
type AuthHandler struct {
	svc    auth.Service
	cookie CookieOptions
}

func NewAuthHandler(svc auth.Service, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{svc: svc, cookie: cookie}
}

func (h *AuthHandler) SendOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.svc.SendOTP(r.Context(), req); err != nil {
		writeServiceError(w, err, "Failed to send OTP")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "OTP sent successfully"})
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.svc.VerifyOTP(r.Context(), req)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeError(w, http.StatusBadRequest, domain.Reason(err))
		return
	}
	if err != nil {
		writeServiceError(w, err, "Verification failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, AuthEnvelope{Success: true, Message: "Login successful", User: toUserView(res.User)})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := middleware.SessionToken(r, h.cookie.Name)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	u, err := h.svc.CurrentUser(r.Context(), token)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	if err != nil {
		writeServiceError(w, err, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, AuthEnvelope{Success: true, User: toUserView(u)})
}

// Logout drops the client's cookie. The stored session row is left to expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, middleware.ExpiredCookie(h.cookie.Name, h.cookie.Secure))
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Logged out"})
}
