package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
)

type MealHandler struct {
	mealService *services.MealService
}

func NewMealHandler(mealService *services.MealService) *MealHandler {
	return &MealHandler{mealService: mealService}
}

type recordMealRequest struct {
	MenuItemID string `json:"menuItemId"`
}

func (handler *MealHandler) Record(w http.ResponseWriter, r *http.Request) {
	var request recordMealRequest
	if !readJSON(w, r, &request) {
		return
	}

	session := middleware.GetSession(r.Context())
	record, err := handler.mealService.RecordMeal(r.Context(), session.User.ID, request.MenuItemID)
	if err != nil {
		writeServiceError(w, "recording meal", err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (handler *MealHandler) Today(w http.ResponseWriter, r *http.Request) {
	records, err := handler.mealService.TodaysMeals(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "loading today's meals", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(records))
}

// Records lists the caller's own records. Admins see every record.
func (handler *MealHandler) Records(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())

	var (
		records []models.MealRecord
		err     error
	)
	if session.IsAdmin() || session.IsSuperAdmin() {
		records, err = handler.mealService.AllRecords(r.Context())
	} else {
		records, err = handler.mealService.UserRecords(r.Context(), session.User.ID)
	}
	if err != nil {
		writeServiceError(w, "loading meal records", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(records))
}

func (handler *MealHandler) Daily(w http.ResponseWriter, r *http.Request) {
	days, err := handler.mealService.DailyConsumption(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "aggregating daily consumption", err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (handler *MealHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	bills, err := handler.mealService.MonthlyBills(r.Context(), middleware.GetSession(r.Context()).User.ID)
	if err != nil {
		writeServiceError(w, "aggregating monthly bills", err)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

func (handler *MealHandler) DownloadBill(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	filename, content, err := handler.mealService.DownloadBill(r.Context(), session, chi.URLParam(r, "month"))
	if err != nil {
		writeServiceError(w, "rendering bill", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write([]byte(content))
}

func (handler *MealHandler) History(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	records, err := handler.mealService.UserRecords(r.Context(), session.User.ID)
	if err != nil {
		writeServiceError(w, "loading meal history", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=meal-history.ics")
	w.Write([]byte(services.MealCalendar(records, session.User.Name, time.Now())))
}
