package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/skycast/skycast-be/internal/services"
)

const minPasswordLength = 8

// AuthHandler handles signup and login requests.
type AuthHandler struct {
	service services.UserServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// CredentialsPayload defines the structure for signup and login requests.
type CredentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the body returned on successful signup or login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup handles new user registration and returns an access token.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := normalizeEmail(payload.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(payload.Password) < minPasswordLength {
		writeError(w, http.StatusBadRequest, "password must be at least 8 characters long")
		return
	}

	token, err := h.service.Signup(r.Context(), email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			writeError(w, http.StatusBadRequest, "email already registered")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Login handles user authentication and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload CredentialsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := normalizeEmail(payload.Email)
	token, err := h.service.Login(r.Context(), email, payload.Password)
	if err != nil {
		// One message for unknown email and wrong password alike.
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Warn().Str("email", email).Msg("Failed authentication attempt")
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		log.Error().Err(err).Str("email", email).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
