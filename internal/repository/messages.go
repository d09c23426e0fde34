package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/google/uuid"
)

type MessageRepository interface {
	FindByID(ctx context.Context, id string) (models.Message, error)
	FindByParticipant(ctx context.Context, userID string) ([]models.Message, error)
	Create(ctx context.Context, message models.Message) (models.Message, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, receiverID string) (int, error)
}

type SQLiteMessageRepository struct {
	database Querier
}

func NewMessageRepository(database Querier) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{database: database}
}

const messageColumns = "id, sender_id, receiver_id, subject, content, is_read, timestamp"

func scanMessage(row rowScanner) (models.Message, error) {
	var message models.Message
	err := row.Scan(
		&message.ID, &message.SenderID, &message.ReceiverID, &message.Subject,
		&message.Content, &message.IsRead, &message.Timestamp,
	)
	return message, err
}

func (repository *SQLiteMessageRepository) FindByID(ctx context.Context, id string) (models.Message, error) {
	message, err := scanMessage(repository.database.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM messages WHERE id = ?", id,
	))
	if err != nil {
		return models.Message{}, fmt.Errorf("finding message by id: %w", err)
	}
	return message, nil
}

// FindByParticipant returns messages the user sent or received, newest first.
func (repository *SQLiteMessageRepository) FindByParticipant(ctx context.Context, userID string) ([]models.Message, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+messageColumns+` FROM messages
		WHERE sender_id = ? OR receiver_id = ?
		ORDER BY timestamp DESC, rowid DESC`, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}

func (repository *SQLiteMessageRepository) Create(ctx context.Context, message models.Message) (models.Message, error) {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err := repository.database.ExecContext(ctx,
		"INSERT INTO messages ("+messageColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		message.ID, message.SenderID, message.ReceiverID, message.Subject,
		message.Content, message.IsRead, message.Timestamp,
	)
	if err != nil {
		return models.Message{}, fmt.Errorf("creating message: %w", err)
	}
	return message, nil
}

func (repository *SQLiteMessageRepository) MarkRead(ctx context.Context, id string) error {
	_, err := repository.database.ExecContext(ctx, "UPDATE messages SET is_read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("marking message read: %w", err)
	}
	return nil
}

func (repository *SQLiteMessageRepository) CountUnread(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := repository.database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM messages WHERE receiver_id = ? AND is_read = 0", receiverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return count, nil
}
