package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gurulost/FitnessForge/internal/adapters/http/presenter"
	"github.com/gurulost/FitnessForge/internal/core/ports"
)

const maxCredentialBytes = 1 << 12

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler expõe login e registro sobre o colaborador de autenticação.
type AuthHandler struct {
	auth ports.Authenticator
}

func NewAuthHandler(auth ports.Authenticator) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Register(r.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, ports.ErrUserExists):
		presenter.Message(w, r, "Username already exists", http.StatusConflict)
	case errors.Is(err, ports.ErrInvalidPassword):
		presenter.Message(w, r, "Password must be at most 72 bytes", http.StatusBadRequest)
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("registration failed")
		presenter.InternalError(w, r)
	default:
		presenter.JSON(w, r, user, http.StatusCreated)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	creds, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.auth.Login(r.Context(), creds.Username, creds.Password)
	switch {
	case errors.Is(err, ports.ErrInvalidCredentials):
		presenter.Message(w, r, "Invalid username or password", http.StatusUnauthorized)
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		presenter.InternalError(w, r)
	default:
		presenter.JSON(w, r, user, http.StatusOK)
	}
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var creds credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCredentialBytes)).Decode(&creds); err != nil {
		presenter.Message(w, r, "Invalid request body", http.StatusBadRequest)
		return credentialsRequest{}, false
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		presenter.Message(w, r, "Username and password are required", http.StatusBadRequest)
		return credentialsRequest{}, false
	}
	return creds, true
}
