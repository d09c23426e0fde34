package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/database"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

const (
	adminKeyPrefix = "ADMIN_"
	adminKeyLength = 9
	base36Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

var ErrInvalidAdminKey = errors.New("admin key is not active")

type MessService struct {
	database     *sql.DB
	messRepo     repository.MessRepository
	adminKeyRepo repository.AdminKeyRepository
}

func NewMessService(db *sql.DB) *MessService {
	return &MessService{
		database:     db,
		messRepo:     repository.NewMessRepository(db),
		adminKeyRepo: repository.NewAdminKeyRepository(db),
	}
}

// GenerateAdminKey returns ADMIN_ followed by nine random base36 characters.
func GenerateAdminKey() (string, error) {
	var builder strings.Builder
	builder.WriteString(adminKeyPrefix)
	limit := big.NewInt(int64(len(base36Alphabet)))
	for i := 0; i < adminKeyLength; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generating admin key: %w", err)
		}
		builder.WriteByte(base36Alphabet[n.Int64()])
	}
	return builder.String(), nil
}

func (service *MessService) List(ctx context.Context) ([]models.Mess, error) {
	return service.messRepo.FindAll(ctx)
}

func (service *MessService) Get(ctx context.Context, id string) (models.Mess, error) {
	mess, err := service.messRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Mess{}, ErrNotFound
	}
	return mess, err
}

// Create stores a new active mess together with its admin key.
func (service *MessService) Create(ctx context.Context, name string, facilities []string, description string) (models.Mess, error) {
	var mess models.Mess
	err := database.WithTransaction(ctx, service.database, func(transaction *sql.Tx) error {
		var err error
		mess, err = createMess(ctx, transaction, name, facilities, description)
		return err
	})
	if err != nil {
		return models.Mess{}, err
	}

	slog.Info("created mess", "id", mess.ID, "name", mess.Name)
	return mess, nil
}

// createMess writes the mess and its admin key through database, which is
// expected to be a transaction so neither row outlives a failure of the other.
func createMess(ctx context.Context, database repository.Querier, name string, facilities []string, description string) (models.Mess, error) {
	key, err := GenerateAdminKey()
	if err != nil {
		return models.Mess{}, err
	}

	now := time.Now()
	mess, err := repository.NewMessRepository(database).Create(ctx, models.Mess{
		Name:        strings.TrimSpace(name),
		AdminKey:    key,
		Facilities:  facilities,
		IsActive:    true,
		CreatedAt:   now,
		Description: description,
	})
	if err != nil {
		return models.Mess{}, err
	}

	if _, err := repository.NewAdminKeyRepository(database).Create(ctx, models.AdminKey{
		Key:       key,
		MessID:    mess.ID,
		MessName:  mess.Name,
		CreatedAt: now,
		IsActive:  true,
	}); err != nil {
		return models.Mess{}, err
	}
	return mess, nil
}

// Update replaces the stored mess. Unknown ids are ignored.
func (service *MessService) Update(ctx context.Context, mess models.Mess) error {
	if _, err := service.messRepo.FindByID(ctx, mess.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	return service.messRepo.Update(ctx, mess)
}

// Delete removes the mess and its admin keys. Menu items and bills that point
// at the mess are left in place.
func (service *MessService) Delete(ctx context.Context, id string) error {
	if err := service.messRepo.Delete(ctx, id); err != nil {
		return err
	}
	return service.adminKeyRepo.DeleteByMessID(ctx, id)
}

func (service *MessService) ListKeys(ctx context.Context) ([]models.AdminKey, error) {
	return service.adminKeyRepo.FindAll(ctx)
}

func (service *MessService) ValidateKey(ctx context.Context, key string) (models.AdminKey, error) {
	adminKey, err := service.adminKeyRepo.FindActiveByKey(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.AdminKey{}, ErrInvalidAdminKey
	}
	return adminKey, err
}
