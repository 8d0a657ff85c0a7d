package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"songbird/internal/app/users"
	"songbird/internal/store"
)

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	token, err := s.users.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserExists):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
		default:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// handleLogin accepts form-encoded credentials. The "username" field carries
// the email; that quirk is part of the historical wire contract.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form payload"})
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := s.users.Login(r.Context(), email, password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, users.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
