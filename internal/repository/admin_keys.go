package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type AdminKeyRepository interface {
	FindAll(ctx context.Context) ([]models.AdminKey, error)
	FindActiveByKey(ctx context.Context, key string) (models.AdminKey, error)
	Create(ctx context.Context, adminKey models.AdminKey) (models.AdminKey, error)
	SetActive(ctx context.Context, id string, active bool) error
	DeleteByMessID(ctx context.Context, messID string) error
}

type SQLiteAdminKeyRepository struct {
	database Querier
}

func NewAdminKeyRepository(database Querier) *SQLiteAdminKeyRepository {
	return &SQLiteAdminKeyRepository{database: database}
}

func (repository *SQLiteAdminKeyRepository) FindAll(ctx context.Context) ([]models.AdminKey, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT id, key, mess_id, mess_name, is_active, created_at FROM admin_keys ORDER BY created_at, rowid",
	)
	if err != nil {
		return nil, fmt.Errorf("finding admin keys: %w", err)
	}
	defer rows.Close()

	var keys []models.AdminKey
	for rows.Next() {
		var adminKey models.AdminKey
		if err := rows.Scan(&adminKey.ID, &adminKey.Key, &adminKey.MessID, &adminKey.MessName, &adminKey.IsActive, &adminKey.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning admin key: %w", err)
		}
		keys = append(keys, adminKey)
	}
	return keys, rows.Err()
}

func (repository *SQLiteAdminKeyRepository) FindActiveByKey(ctx context.Context, key string) (models.AdminKey, error) {
	var adminKey models.AdminKey
	err := repository.database.QueryRowContext(ctx,
		`SELECT id, key, mess_id, mess_name, is_active, created_at
		FROM admin_keys WHERE key = ? AND is_active = 1 ORDER BY rowid LIMIT 1`, key,
	).Scan(&adminKey.ID, &adminKey.Key, &adminKey.MessID, &adminKey.MessName, &adminKey.IsActive, &adminKey.CreatedAt)
	if err != nil {
		return models.AdminKey{}, fmt.Errorf("finding active admin key: %w", err)
	}
	return adminKey, nil
}

func (repository *SQLiteAdminKeyRepository) Create(ctx context.Context, adminKey models.AdminKey) (models.AdminKey, error) {
	if adminKey.ID == "" {
		adminKey.ID = uuid.New().String()
	}
	if adminKey.CreatedAt.IsZero() {
		adminKey.CreatedAt = time.Now()
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO admin_keys (id, key, mess_id, mess_name, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		adminKey.ID, adminKey.Key, adminKey.MessID, adminKey.MessName, adminKey.IsActive, adminKey.CreatedAt,
	)
	if err != nil {
		return models.AdminKey{}, fmt.Errorf("creating admin key: %w", err)
	}
	return adminKey, nil
}

func (repository *SQLiteAdminKeyRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := repository.database.ExecContext(ctx,
		"UPDATE admin_keys SET is_active = ? WHERE id = ?", active, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin key: %w", err)
	}
	return nil
}

func (repository *SQLiteAdminKeyRepository) DeleteByMessID(ctx context.Context, messID string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM admin_keys WHERE mess_id = ?", messID)
	if err != nil {
		return fmt.Errorf("deleting admin keys for mess: %w", err)
	}
	return nil
}
