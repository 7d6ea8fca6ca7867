package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/auth"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Service *auth.Service
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// Signup handles POST /api/auth/signup: create the account, then sign in
// with it immediately.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	if _, err := h.Service.SignUp(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailTaken):
			jsonError(w, http.StatusBadRequest, err.Error())
		default:
			jsonError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	token, identity, err := h.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "account created but sign-in failed")
		return
	}

	slog.Info("user signed up", "email", identity.Email)
	jsonResponse(w, http.StatusCreated, sessionResponse{Token: token, Email: identity.Email})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	token, identity, err := h.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
			jsonError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("user logged in", "email", identity.Email)
	jsonResponse(w, http.StatusOK, sessionResponse{Token: token, Email: identity.Email})
}

// Logout handles POST /api/auth/logout: revoke the presented token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.SignOut(r.Context(), GetToken(r.Context())); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to sign out")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "signed out"})
}
