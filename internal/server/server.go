package server

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/config"
	"github.com/Uditkumarpal/messy-meal-manager/internal/handlers"
	"github.com/Uditkumarpal/messy-meal-manager/internal/middleware"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, cfg config.Config, authService *services.AuthService, hub *services.RealtimeHub) *Server {
	userRepo := repository.NewUserRepository(database)
	messRepo := repository.NewMessRepository(database)
	menuRepo := repository.NewMenuItemRepository(database)
	mealRepo := repository.NewMealRecordRepository(database)
	messageRepo := repository.NewMessageRepository(database)
	notificationRepo := repository.NewNotificationRepository(database)
	committeeRepo := repository.NewCommitteeRepository(database)

	userService := services.NewUserService(userRepo)
	messService := services.NewMessService(database)
	menuService := services.NewMenuService(database)
	mealService := services.NewMealService(menuRepo, mealRepo, messRepo)
	billingService := services.NewBillingService(database)
	messagingService := services.NewMessagingService(messageRepo)
	notificationService := services.NewNotificationService(notificationRepo, hub)
	committeeService := services.NewCommitteeService(committeeRepo)
	adminRequestService := services.NewAdminRequestService(database)

	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	mealHandler := handlers.NewMealHandler(mealService)
	billHandler := handlers.NewBillHandler(billingService)
	adminHandler := handlers.NewAdminHandler(messService, userService)
	messagingHandler := handlers.NewMessagingHandler(messagingService, notificationService, committeeService, adminRequestService)
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Post("/auth/login", authHandler.Login)
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/logout", authHandler.Logout)

	router.Get("/messes", adminHandler.ListMesses)
	router.Get("/messes/{id}", adminHandler.GetMess)
	router.Post("/admin-keys/validate", adminHandler.ValidateKey)
	router.Post("/admin-requests", messagingHandler.CreateAdminRequest)
	router.Get("/committees", messagingHandler.ListCommittees)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService))

		r.Get("/auth/me", authHandler.Me)
		r.Patch("/users/{id}", adminHandler.UpdateUser)

		r.Get("/menu", menuHandler.List)
		r.Get("/menu/feedback", menuHandler.Feedback)
		r.Get("/menu/{id}", menuHandler.Get)
		r.Get("/menu/{id}/rating", menuHandler.Rating)
		r.Post("/menu/{id}/like", menuHandler.Like)
		r.Post("/menu/{id}/dislike", menuHandler.Dislike)

		r.Post("/meals/records", mealHandler.Record)
		r.Get("/meals/records", mealHandler.Records)
		r.Get("/meals/today", mealHandler.Today)
		r.Get("/meals/daily", mealHandler.Daily)
		r.Get("/meals/monthly", mealHandler.Monthly)
		r.Get("/meals/history.ics", mealHandler.History)

		r.Get("/bills/monthly/{month}/download", mealHandler.DownloadBill)
		r.Get("/bills/mine", billHandler.Mine)
		r.Get("/bills/{id}", billHandler.Get)
		r.Post("/bills/{id}/download", billHandler.RecordDownload)

		r.Get("/messages", messagingHandler.ListMessages)
		r.Post("/messages", messagingHandler.SendMessage)
		r.Get("/messages/unread", messagingHandler.UnreadCount)
		r.Post("/messages/{id}/read", messagingHandler.MarkRead)

		r.Get("/notifications", messagingHandler.ListNotifications)
		r.Get("/notifications/pinned", messagingHandler.PinnedNotifications)
		r.Get("/ws/notifications", realtimeHandler.Notifications)

		r.Post("/committees/{id}/verify", messagingHandler.VerifyCommitteeKey)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin, models.RoleSuperAdmin))

			r.Post("/menu", menuHandler.Save)
			r.Put("/menu/{id}", menuHandler.Save)
			r.Delete("/menu/{id}", menuHandler.Delete)

			r.Get("/bills", billHandler.List)
			r.Post("/bills/generate", billHandler.Generate)
			r.Post("/bills/notify", billHandler.Notify)
			r.Get("/bills/summary", billHandler.DailySummary)
			r.Put("/bills/{id}/status", billHandler.UpdateStatus)

			r.Get("/users", adminHandler.ListUsers)
			r.Get("/users/members", adminHandler.Members)
			r.Post("/users/{id}/remove", adminHandler.RemoveMember)

			r.Post("/notifications", messagingHandler.CreateNotification)
			r.Delete("/notifications/{id}", messagingHandler.DeleteNotification)

			r.Post("/committees", messagingHandler.CreateCommittee)
			r.Put("/committees/{id}", messagingHandler.UpdateCommittee)
			r.Delete("/committees/{id}", messagingHandler.DeleteCommittee)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSuperAdmin))

			r.Post("/messes", adminHandler.CreateMess)
			r.Put("/messes/{id}", adminHandler.UpdateMess)
			r.Delete("/messes/{id}", adminHandler.DeleteMess)
			r.Get("/admin-keys", adminHandler.ListKeys)

			r.Delete("/users/{id}", adminHandler.DeleteUser)

			r.Get("/admin-requests", messagingHandler.ListAdminRequests)
			r.Post("/admin-requests/{id}/approve", messagingHandler.ApproveAdminRequest)
			r.Post("/admin-requests/{id}/reject", messagingHandler.RejectAdminRequest)
		})
	})

	server := &Server{
		router: router,
		config: cfg,
	}

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              ":" + server.config.Port,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		slog.Info("starting server", "address", httpServer.Addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
