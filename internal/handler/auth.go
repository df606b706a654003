package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alvaro-reta/solari-market/internal/service"
)

// AuthHandler exposes registration, login, and the current-user profile.
//
// DEPENDENCY CHAIN:
//   - authService → credential checks, uniqueness, token issuance
//
// The handler only decodes requests, calls the service, and encodes the
// result. All business rules live one layer down.
type AuthHandler struct {
	authService *service.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Server   string `json:"server"`
	Region   string `json:"region"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse is the shared shape of register and login responses.
type authResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// HandleRegister creates a new account and logs it in.
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username","email","password","server","region"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	res, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password, req.Server, req.Region)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, User: res.User})
}

// HandleLogin verifies credentials and issues a token.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	res, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, User: res.User})
}

// HandleMe returns the authenticated user's own profile.
//
// HTTP: GET /api/auth/me
//
// The auth middleware already resolved the token to a full user, so there
// is nothing left to look up.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
