package handlers

import (
	"net/http"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
)

type BillHandler struct {
	billingService *services.BillingService
}

func NewBillHandler(billingService *services.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

type generateBillsRequest struct {
	Month string `json:"month"`
}

type billStatusRequest struct {
	Status models.BillStatus `json:"status"`
}

type billNotificationRequest struct {
	BillIDs []string `json:"billIds"`
}

func (handler *BillHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var request generateBillsRequest
	if !readJSON(w, r, &request) {
		return
	}

	bills, err := handler.billingService.GenerateBillsForMonth(r.Context(), request.Month)
	if err != nil {
		writeServiceError(w, "generating bills", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(bills))
}

// List returns every bill for super admins and the bills of the admin's own
// mess otherwise.
func (handler *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var (
		bills []models.Bill
		err   error
	)
	if messID := session.MessID(); session.IsAdmin() && messID != "" {
		bills, err = handler.billingService.BillsForMess(r.Context(), messID)
	} else {
		bills, err = handler.billingService.ListBills(r.Context())
	}
	if err != nil {
		writeServiceError(w, "listing bills", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(bills))
}

func (handler *BillHandler) Mine(w http.ResponseWriter, r *http.Request) {
	bills, err := handler.billingService.BillsForStudent(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "listing student bills", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(bills))
}

func (handler *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	bill, err := handler.billingService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "loading bill", err)
		return
	}

	session := middleware.GetSession(r.Context())
	if session.IsStudent() && bill.StudentID != session.User.ID {
		writeError(w, http.StatusNotFound, services.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

func (handler *BillHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var request billStatusRequest
	if !readJSON(w, r, &request) {
		return
	}

	if err := handler.billingService.UpdateBillStatus(r.Context(), chi.URLParam(r, "id"), request.Status); err != nil {
		writeServiceError(w, "updating bill status", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *BillHandler) RecordDownload(w http.ResponseWriter, r *http.Request) {
	if err := handler.billingService.RecordDownload(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "recording bill download", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *BillHandler) Notify(w http.ResponseWriter, r *http.Request) {
	var request billNotificationRequest
	if !readJSON(w, r, &request) {
		return
	}
	sent := handler.billingService.SendBillNotifications(r.Context(), request.BillIDs)
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}

func (handler *BillHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	messID := r.URL.Query().Get("messId")
	if session := middleware.GetSession(r.Context()); session.IsAdmin() && session.MessID() != "" {
		messID = session.MessID()
	}

	summary, err := handler.billingService.DailySummary(r.Context(), date, messID)
	if err != nil {
		writeServiceError(w, "summarising day", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
