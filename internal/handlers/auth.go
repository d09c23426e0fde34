package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	AdminKey string `json:"adminKey"`
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	StudentID      string `json:"studentId"`
	Password       string `json:"password"`
	SelectedMessID string `json:"selectedMessId"`
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var request loginRequest
	if !readJSON(w, r, &request) {
		return
	}

	session, err := handler.authService.Login(r.Context(), request.Email, request.Password, request.AdminKey)
	if err != nil {
		writeServiceError(w, "logging in", err)
		return
	}
	handler.startSession(w, session)
}

func (handler *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if !readJSON(w, r, &request) {
		return
	}
	if request.Name == "" || request.Email == "" || request.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	session, err := handler.authService.Register(r.Context(), services.Registration{
		Name:           request.Name,
		Email:          request.Email,
		StudentID:      request.StudentID,
		Password:       request.Password,
		SelectedMessID: request.SelectedMessID,
	})
	if err != nil {
		writeServiceError(w, "registering user", err)
		return
	}
	handler.startSession(w, session)
}

func (handler *AuthHandler) startSession(w http.ResponseWriter, session services.Session) {
	if err := handler.authService.SetSession(w, session); err != nil {
		slog.Error("setting session", "error", err)
		writeError(w, http.StatusInternalServerError, "session error")
		return
	}
	writeJSON(w, http.StatusOK, session.User)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.authService.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, middleware.GetSession(r.Context()).User)
}
