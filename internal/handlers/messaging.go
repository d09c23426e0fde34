package handlers

import (
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
)

type MessagingHandler struct {
	messagingService    *services.MessagingService
	notificationService *services.NotificationService
	committeeService    *services.CommitteeService
	adminRequestService *services.AdminRequestService
}

func NewMessagingHandler(
	messagingService *services.MessagingService,
	notificationService *services.NotificationService,
	committeeService *services.CommitteeService,
	adminRequestService *services.AdminRequestService,
) *MessagingHandler {
	return &MessagingHandler{
		messagingService:    messagingService,
		notificationService: notificationService,
		committeeService:    committeeService,
		adminRequestService: adminRequestService,
	}
}

type sendMessageRequest struct {
	ReceiverID string `json:"receiverId"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
}

type notificationRequest struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Priority models.Priority `json:"priority"`
}

type committeeRequest struct {
	Name       string   `json:"name"`
	Facilities []string `json:"facilities"`
	IsActive   *bool    `json:"isActive"`
}

type committeeKeyRequest struct {
	Key string `json:"key"`
}

type adminApplicationRequest struct {
	MessName        string `json:"messName"`
	AdminName       string `json:"adminName"`
	AdminEmail      string `json:"adminEmail"`
	BusinessDetails string `json:"businessDetails"`
}

func (handler *MessagingHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var request sendMessageRequest
	if !readJSON(w, r, &request) {
		return
	}

	sender := middleware.GetSession(r.Context()).User.ID
	message, err := handler.messagingService.Send(r.Context(), sender, request.ReceiverID, request.Content, request.Subject)
	if err != nil {
		writeServiceError(w, "sending message", err)
		return
	}
	writeJSON(w, http.StatusCreated, message)
}

func (handler *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := handler.messagingService.ForUser(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "listing messages", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(messages))
}

func (handler *MessagingHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := handler.messagingService.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "marking message read", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MessagingHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := handler.messagingService.UnreadCount(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "counting unread messages", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (handler *MessagingHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := handler.notificationService.List(r.Context())
	if err != nil {
		writeServiceError(w, "listing notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(notifications))
}

func (handler *MessagingHandler) PinnedNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := handler.notificationService.Pinned(r.Context())
	if err != nil {
		writeServiceError(w, "listing pinned notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (handler *MessagingHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var request notificationRequest
	if !readJSON(w, r, &request) {
		return
	}
	if request.Title == "" {
		writeError(w, http.StatusBadRequest, "notification title is required")
		return
	}

	notification, err := handler.notificationService.Create(r.Context(), request.Title, request.Content, request.Priority)
	if err != nil {
		writeServiceError(w, "creating notification", err)
		return
	}
	writeJSON(w, http.StatusCreated, notification)
}

func (handler *MessagingHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := handler.notificationService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "deleting notification", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MessagingHandler) ListCommittees(w http.ResponseWriter, r *http.Request) {
	committees, err := handler.committeeService.List(r.Context())
	if err != nil {
		writeServiceError(w, "listing committees", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(committees))
}

func (handler *MessagingHandler) CreateCommittee(w http.ResponseWriter, r *http.Request) {
	var request committeeRequest
	if !readJSON(w, r, &request) {
		return
	}
	if request.Name == "" {
		writeError(w, http.StatusBadRequest, "committee name is required")
		return
	}

	committee, err := handler.committeeService.Create(r.Context(), request.Name, request.Facilities)
	if err != nil {
		writeServiceError(w, "creating committee", err)
		return
	}
	writeJSON(w, http.StatusCreated, committee)
}

func (handler *MessagingHandler) UpdateCommittee(w http.ResponseWriter, r *http.Request) {
	var request committeeRequest
	if !readJSON(w, r, &request) {
		return
	}

	update := services.CommitteeUpdate{Facilities: request.Facilities, IsActive: request.IsActive}
	if request.Name != "" {
		update.Name = &request.Name
	}

	if err := handler.committeeService.Update(r.Context(), chi.URLParam(r, "id"), update); err != nil {
		writeServiceError(w, "updating committee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MessagingHandler) DeleteCommittee(w http.ResponseWriter, r *http.Request) {
	if err := handler.committeeService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "deleting committee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MessagingHandler) VerifyCommitteeKey(w http.ResponseWriter, r *http.Request) {
	var request committeeKeyRequest
	if !readJSON(w, r, &request) {
		return
	}

	valid, err := handler.committeeService.VerifyKey(r.Context(), chi.URLParam(r, "id"), request.Key)
	if err != nil {
		writeServiceError(w, "verifying committee key", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

func (handler *MessagingHandler) ListAdminRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := handler.adminRequestService.List(r.Context())
	if err != nil {
		writeServiceError(w, "listing admin requests", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(requests))
}

func (handler *MessagingHandler) CreateAdminRequest(w http.ResponseWriter, r *http.Request) {
	var request adminApplicationRequest
	if !readJSON(w, r, &request) {
		return
	}

	created, err := handler.adminRequestService.Create(r.Context(),
		request.MessName, request.AdminName, request.AdminEmail, request.BusinessDetails)
	if err != nil {
		writeServiceError(w, "creating admin request", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (handler *MessagingHandler) ApproveAdminRequest(w http.ResponseWriter, r *http.Request) {
	request, err := handler.adminRequestService.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "approving admin request", err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (handler *MessagingHandler) RejectAdminRequest(w http.ResponseWriter, r *http.Request) {
	request, err := handler.adminRequestService.Reject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "rejecting admin request", err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
