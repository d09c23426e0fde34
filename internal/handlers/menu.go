package handlers

import (
	"context"
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
)

type MenuHandler struct {
	menuService *services.MenuService
}

func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (handler *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []models.MenuItem
		err   error
	)
	if messID := r.URL.Query().Get("messId"); messID != "" {
		items, err = handler.menuService.ListForMess(r.Context(), messID)
	} else {
		items, err = handler.menuService.List(r.Context(), models.MealType(r.URL.Query().Get("category")))
	}
	if err != nil {
		writeServiceError(w, "listing menu", err)
		return
	}
	writeJSON(w, http.StatusOK, orEmpty(items))
}

func (handler *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := handler.menuService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "loading menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// Save handles both create and replace. Items created by a mess admin belong
// to that admin's mess unless the body names one.
func (handler *MenuHandler) Save(w http.ResponseWriter, r *http.Request) {
	var item models.MenuItem
	if !readJSON(w, r, &item) {
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		item.ID = id
	}

	session := middleware.GetSession(r.Context())
	if item.MessID == "" && session.IsAdmin() {
		item.MessID = session.MessID()
	}

	saved, err := handler.menuService.Save(r.Context(), item)
	if err != nil {
		writeServiceError(w, "saving menu item", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (handler *MenuHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := handler.menuService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, "deleting menu item", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *MenuHandler) Like(w http.ResponseWriter, r *http.Request) {
	handler.rate(w, r, handler.menuService.Like)
}

func (handler *MenuHandler) Dislike(w http.ResponseWriter, r *http.Request) {
	handler.rate(w, r, handler.menuService.Dislike)
}

func (handler *MenuHandler) rate(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, menuItemID, userID string) error) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetSession(r.Context()).User.ID
	if err := apply(r.Context(), id, userID); err != nil {
		writeServiceError(w, "rating menu item", err)
		return
	}

	rating, err := handler.menuService.UserRating(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, "loading rating", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Rating{"rating": rating})
}

func (handler *MenuHandler) Rating(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetSession(r.Context()).User.ID
	rating, err := handler.menuService.UserRating(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, "loading rating", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.Rating{"rating": rating})
}

func (handler *MenuHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	ranking, err := handler.menuService.FeedbackRanking(r.Context(), models.MealType(r.URL.Query().Get("category")))
	if err != nil {
		writeServiceError(w, "ranking feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}
