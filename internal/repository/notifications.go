package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	FindAll(ctx context.Context, activeOnly bool) ([]models.Notification, error)
	Create(ctx context.Context, notification models.Notification) (models.Notification, error)
	Delete(ctx context.Context, id string) error
}

type SQLiteNotificationRepository struct {
	database Querier
}

func NewNotificationRepository(database Querier) *SQLiteNotificationRepository {
	return &SQLiteNotificationRepository{database: database}
}

// FindAll lists notifications newest first.
func (repository *SQLiteNotificationRepository) FindAll(ctx context.Context, activeOnly bool) ([]models.Notification, error) {
	query := "SELECT id, title, content, priority, is_pinned, is_active, created_at FROM notifications"
	if activeOnly {
		query += " WHERE is_active = 1"
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	rows, err := repository.database.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("finding notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification
		if err := rows.Scan(
			&notification.ID, &notification.Title, &notification.Content, &notification.Priority,
			&notification.IsPinned, &notification.IsActive, &notification.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning notification: %w", err)
		}
		notifications = append(notifications, notification)
	}
	return notifications, rows.Err()
}

func (repository *SQLiteNotificationRepository) Create(ctx context.Context, notification models.Notification) (models.Notification, error) {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO notifications (id, title, content, priority, is_pinned, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		notification.ID, notification.Title, notification.Content, notification.Priority,
		notification.IsPinned, notification.IsActive, notification.CreatedAt,
	)
	if err != nil {
		return models.Notification{}, fmt.Errorf("creating notification: %w", err)
	}
	return notification, nil
}

func (repository *SQLiteNotificationRepository) Delete(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "DELETE FROM notifications WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	return nil
}
