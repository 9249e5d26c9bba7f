package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/edusphere/backend/internal/app"
	"github.com/edusphere/backend/internal/metrics"
	"github.com/edusphere/backend/internal/models"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token,omitempty"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// HandleLogin exchanges credentials for a session token. The failure
// response is identical for unknown email and wrong password.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	account, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, app.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("rejected").Inc()
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		logger.Error.Printf("Login failed: %v", err)
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		ID:    account.ID,
		Name:  account.Name,
		Role:  string(account.Role),
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// HandleRegister self-registers a student account. Staff accounts are
// only ever created by an admin.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, name and password are required")
		return
	}

	existing, err := h.service.Store.GetAccountByEmail(req.Email)
	if err != nil {
		logger.Error.Printf("Failed to check email: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "email is already registered")
		return
	}

	account := models.Account{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleStudent,
	}
	if err := app.SetPassword(&account, req.Password); err != nil {
		logger.Error.Printf("Failed to hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}
	if err := account.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.Store.CreateAccount(&account); err != nil {
		logger.Error.Printf("Failed to create account: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	metrics.MutationsTotal.WithLabelValues("accounts", "create").Inc()
	writeJSON(w, http.StatusCreated, account)
}

// HandleLogout ends the session behind the bearer token.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.BearerToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		logger.Error.Printf("Logout failed: %v", err)
		writeError(w, http.StatusInternalServerError, "store failure")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// HandleWhoAmI resolves the current session to its identity.
func (h *Handler) HandleWhoAmI(w http.ResponseWriter, r *http.Request) {
	token, err := h.service.BearerToken(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	session, err := h.service.Sessions.Get(r.Context(), token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		ID:   session.AccountID,
		Name: session.Name,
		Role: string(session.Role),
	})
}
