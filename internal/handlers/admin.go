package handlers

import (
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	messService *services.MessService
	userService *services.UserService
}

func NewAdminHandler(messService *services.MessService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{messService: messService, userService: userService}
}

type messRequest struct {
	Name        string   `json:"name"`
	Facilities  []string `json:"facilities"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"isActive"`
}

type adminKeyRequest struct {
	Key string `json:"key"`
}

type userUpdateRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	StudentID      *string `json:"studentId"`
	SelectedMessID *string `json:"selectedMessId"`
	MessName       *string `json:"messName"`
}

func (handler *AdminHandler) ListMesses(w http.ResponseWriter, r *http.Request) {
	messes, err := handler.messService.List(r.Context())
	if err != nil {
		writeServiceError(w, "listing messes", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(messes))
}

func (handler *AdminHandler) GetMess(w http.ResponseWriter, r *http.Request) {
	mess, err := handler.messService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "loading mess", err)
		return
	}
	writeJSON(w, http.StatusOK, mess)
}

func (handler *AdminHandler) CreateMess(w http.ResponseWriter, r *http.Request) {
	var request messRequest
	if !readJSON(w, r, &request) {
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "mess name is required")
		return
	}

	mess, err := handler.messService.Create(r.Context(), request.Name, request.Facilities, request.Description)
	if err != nil {
		writeServiceError(w, "creating mess", err)
		return
	}
	writeJSON(w, http.StatusCreated, mess)
}

func (handler *AdminHandler) UpdateMess(w http.ResponseWriter, r *http.Request) {
	var request messRequest
	if !readJSON(w, r, &request) {
		return
	}

	mess, err := handler.messService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "loading mess", err)
		return
	}
	if request.Name != "" {
		mess.Name = request.Name
	}
	if request.Facilities != nil {
		mess.Facilities = request.Facilities
	}
	if request.Description != "" {
		mess.Description = request.Description
	}
	if request.IsActive != nil {
		mess.IsActive = *request.IsActive
	}

	if err := handler.messService.Update(r.Context(), mess); err != nil {
		writeServiceError(w, "updating mess", err)
		return
	}
	writeJSON(w, http.StatusOK, mess)
}

func (handler *AdminHandler) DeleteMess(w http.ResponseWriter, r *http.Request) {
	if err := handler.messService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "deleting mess", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AdminHandler) ListKeys(w http.ResponseWriter, r *http.Request) {
	keys, err := handler.messService.ListKeys(r.Context())
	if err != nil {
		writeServiceError(w, "listing admin keys", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(keys))
}

func (handler *AdminHandler) ValidateKey(w http.ResponseWriter, r *http.Request) {
	var request adminKeyRequest
	if !readJSON(w, r, &request) {
		return
	}

	key, err := handler.messService.ValidateKey(r.Context(), request.Key)
	if err != nil {
		writeServiceError(w, "validating admin key", err)
		return
	}
	writeJSON(w, http.StatusOK, key)
}

func (handler *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := handler.userService.List(r.Context())
	if err != nil {
		writeServiceError(w, "listing users", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(users))
}

// Members lists the users of the admin's mess. Super admins pick the mess
// with the messId query parameter.
func (handler *AdminHandler) Members(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	messID := session.MessID()
	if session.IsSuperAdmin() {
		messID = r.URL.Query().Get("messId")
	}

	members, err := handler.userService.MessMembers(r.Context(), messID)
	if err != nil {
		writeServiceError(w, "listing mess members", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(members))
}

func (handler *AdminHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := handler.userService.RemoveFromMess(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "removing mess member", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateUser applies a partial profile update. Students may only update
// themselves.
func (handler *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session := middleware.GetSession(r.Context())
	if session.User.Role == models.RoleStudent && session.User.ID != id {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var request userUpdateRequest
	if !readJSON(w, r, &request) {
		return
	}

	err := handler.userService.Update(r.Context(), id, services.UserUpdate{
		Name:           request.Name,
		Email:          request.Email,
		StudentID:      request.StudentID,
		SelectedMessID: request.SelectedMessID,
		MessName:       request.MessName,
	})
	if err != nil {
		writeServiceError(w, "updating user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := handler.userService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "deleting user", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
