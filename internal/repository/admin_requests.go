package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type AdminRequestRepository interface {
	FindByID(ctx context.Context, id string) (models.AdminRequest, error)
	FindAll(ctx context.Context) ([]models.AdminRequest, error)
	Create(ctx context.Context, request models.AdminRequest) (models.AdminRequest, error)
	Update(ctx context.Context, request models.AdminRequest) error
}

type SQLiteAdminRequestRepository struct {
	database Querier
}

func NewAdminRequestRepository(database Querier) *SQLiteAdminRequestRepository {
	return &SQLiteAdminRequestRepository{database: database}
}

const adminRequestColumns = `id, mess_name, admin_name, admin_email, business_details,
	payment_status, request_status, admin_key, created_at`

func scanAdminRequest(row rowScanner) (models.AdminRequest, error) {
	var request models.AdminRequest
	err := row.Scan(
		&request.ID, &request.MessName, &request.AdminName, &request.AdminEmail, &request.BusinessDetails,
		&request.PaymentStatus, &request.RequestStatus, &request.AdminKey, &request.CreatedAt,
	)
	return request, err
}

func (repository *SQLiteAdminRequestRepository) FindByID(ctx context.Context, id string) (models.AdminRequest, error) {
	request, err := scanAdminRequest(repository.database.QueryRowContext(ctx,
		"SELECT "+adminRequestColumns+" FROM admin_requests WHERE id = ?", id,
	))
	if err != nil {
		return models.AdminRequest{}, fmt.Errorf("finding admin request by id: %w", err)
	}
	return request, nil
}

func (repository *SQLiteAdminRequestRepository) FindAll(ctx context.Context) ([]models.AdminRequest, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+adminRequestColumns+" FROM admin_requests ORDER BY created_at DESC, rowid DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("finding admin requests: %w", err)
	}
	defer rows.Close()

	var requests []models.AdminRequest
	for rows.Next() {
		request, err := scanAdminRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning admin request: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, rows.Err()
}

func (repository *SQLiteAdminRequestRepository) Create(ctx context.Context, request models.AdminRequest) (models.AdminRequest, error) {
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	if request.PaymentStatus == "" {
		request.PaymentStatus = models.PaymentStatusPending
	}
	if request.RequestStatus == "" {
		request.RequestStatus = models.RequestStatusPending
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO admin_requests ("+adminRequestColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		request.ID, request.MessName, request.AdminName, request.AdminEmail, request.BusinessDetails,
		request.PaymentStatus, request.RequestStatus, request.AdminKey, request.CreatedAt,
	)
	if err != nil {
		return models.AdminRequest{}, fmt.Errorf("creating admin request: %w", err)
	}
	return request, nil
}

func (repository *SQLiteAdminRequestRepository) Update(ctx context.Context, request models.AdminRequest) error {
	_, err := repository.database.ExecContext(ctx,
		`UPDATE admin_requests SET mess_name = ?, admin_name = ?, admin_email = ?, business_details = ?,
			payment_status = ?, request_status = ?, admin_key = ?
		WHERE id = ?`,
		request.MessName, request.AdminName, request.AdminEmail, request.BusinessDetails,
		request.PaymentStatus, request.RequestStatus, request.AdminKey, request.ID,
	)
	if err != nil {
		return fmt.Errorf("updating admin request: %w", err)
	}
	return nil
}
