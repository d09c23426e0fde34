package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

const defaultSubject = "No Subject"

var ErrEmptyMessage = errors.New("message needs a receiver and content")

type MessagingService struct {
	messageRepo repository.MessageRepository
}

func NewMessagingService(messageRepo repository.MessageRepository) *MessagingService {
	return &MessagingService{messageRepo: messageRepo}
}

func (service *MessagingService) Send(ctx context.Context, senderID, receiverID, content, subject string) (models.Message, error) {
	if receiverID == "" || strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyMessage
	}
	if strings.TrimSpace(subject) == "" {
		subject = defaultSubject
	}
	return service.messageRepo.Create(ctx, models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Subject:    subject,
		Content:    content,
	})
}

// ForUser returns the messages the user sent or received, newest first.
func (service *MessagingService) ForUser(ctx context.Context, userID string) ([]models.Message, error) {
	return service.messageRepo.FindByParticipant(ctx, userID)
}

func (service *MessagingService) MarkRead(ctx context.Context, id string) error {
	return service.messageRepo.MarkRead(ctx, id)
}

func (service *MessagingService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return service.messageRepo.CountUnread(ctx, userID)
}
