package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Uditkumarpal/messy-meal-manager/internal/database"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

var (
	ErrRequestAlreadyDecided = errors.New("admin request has already been decided")
	ErrInvalidAdminRequest   = errors.New("admin request needs a mess name, admin name and email")
)

var defaultMessFacilities = []string{"Breakfast", "Lunch", "Dinner"}

type AdminRequestService struct {
	database    *sql.DB
	requestRepo repository.AdminRequestRepository
}

func NewAdminRequestService(db *sql.DB) *AdminRequestService {
	return &AdminRequestService{database: db, requestRepo: repository.NewAdminRequestRepository(db)}
}

func (service *AdminRequestService) List(ctx context.Context) ([]models.AdminRequest, error) {
	return service.requestRepo.FindAll(ctx)
}

func (service *AdminRequestService) Create(ctx context.Context, messName, adminName, adminEmail, businessDetails string) (models.AdminRequest, error) {
	if strings.TrimSpace(messName) == "" || strings.TrimSpace(adminName) == "" || strings.TrimSpace(adminEmail) == "" {
		return models.AdminRequest{}, ErrInvalidAdminRequest
	}
	return service.requestRepo.Create(ctx, models.AdminRequest{
		MessName:        strings.TrimSpace(messName),
		AdminName:       strings.TrimSpace(adminName),
		AdminEmail:      strings.TrimSpace(adminEmail),
		BusinessDetails: businessDetails,
		PaymentStatus:   models.PaymentStatusPending,
		RequestStatus:   models.RequestStatusPending,
	})
}

func pendingRequest(ctx context.Context, requestRepo repository.AdminRequestRepository, id string) (models.AdminRequest, error) {
	request, err := requestRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdminRequest{}, ErrNotFound
	}
	if err != nil {
		return models.AdminRequest{}, err
	}
	if request.RequestStatus != models.RequestStatusPending {
		return models.AdminRequest{}, ErrRequestAlreadyDecided
	}
	return request, nil
}

// Approve provisions the requested mess and hands its admin key to the
// request. The mess, its key and the decision commit together.
func (service *AdminRequestService) Approve(ctx context.Context, id string) (models.AdminRequest, error) {
	var (
		request models.AdminRequest
		mess    models.Mess
	)
	err := database.WithTransaction(ctx, service.database, func(transaction *sql.Tx) error {
		requestRepo := repository.NewAdminRequestRepository(transaction)

		var err error
		request, err = pendingRequest(ctx, requestRepo, id)
		if err != nil {
			return err
		}

		mess, err = createMess(ctx, transaction, request.MessName, defaultMessFacilities, "Managed by "+request.AdminName)
		if err != nil {
			return fmt.Errorf("creating mess for request: %w", err)
		}

		request.RequestStatus = models.RequestStatusApproved
		request.PaymentStatus = models.PaymentStatusPaid
		request.AdminKey = mess.AdminKey
		return requestRepo.Update(ctx, request)
	})
	if err != nil {
		return models.AdminRequest{}, err
	}

	slog.Info("approved admin request", "request", request.ID, "mess", mess.ID)
	return request, nil
}

func (service *AdminRequestService) Reject(ctx context.Context, id string) (models.AdminRequest, error) {
	request, err := pendingRequest(ctx, service.requestRepo, id)
	if err != nil {
		return models.AdminRequest{}, err
	}
	request.RequestStatus = models.RequestStatusRejected
	if err := service.requestRepo.Update(ctx, request); err != nil {
		return models.AdminRequest{}, err
	}
	return request, nil
}
