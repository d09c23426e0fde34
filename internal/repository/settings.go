package repository

import (
	"context"
	"fmt"
)

const (
	SettingDefaultMessID   = "default_mess_id"
	SettingDefaultMessName = "default_mess_name"
	SettingLastBilledMonth = "last_billed_month"
)

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
}

type SQLiteSettingsRepository struct {
	database Querier
}

func NewSettingsRepository(database Querier) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{database: database}
}

func (repository *SQLiteSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := repository.database.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", key,
	).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, nil
}

func (repository *SQLiteSettingsRepository) Set(ctx context.Context, key string, value string) error {
	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = ?",
		key, value, value,
	)
	if err != nil {
		return fmt.Errorf("setting %s: %w", key, err)
	}
	return nil
}
