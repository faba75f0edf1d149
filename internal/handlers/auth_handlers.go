package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"campus-portal/internal/auth"
	"campus-portal/internal/models"
	"campus-portal/pkg/logger"
)

type AuthHandlers struct {
	authService *auth.Service
}

func NewAuthHandlers(authService *auth.Service) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

func (h *AuthHandlers) StudentLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authService.LoginStudent)
}

func (h *AuthHandlers) FacultyLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authService.LoginFaculty)
}

func (h *AuthHandlers) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authService.LoginAdmin)
}

func (h *AuthHandlers) login(w http.ResponseWriter, r *http.Request, fn func(context.Context, *models.LoginRequest) (*models.LoginResponse, error)) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	response, err := fn(r.Context(), &req)
	if err != nil {
		logger.Error("Login error: %v", err)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respondData(w, http.StatusOK, response)
}
