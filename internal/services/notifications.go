package services

import (
	"context"
	"strings"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

const EventNotificationCreated = "notification.created"

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	hub              *RealtimeHub
}

func NewNotificationService(notificationRepo repository.NotificationRepository, hub *RealtimeHub) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, hub: hub}
}

// Create stores a pinned, active notification and pushes it to connected
// clients. Priority defaults to medium.
func (service *NotificationService) Create(ctx context.Context, title, content string, priority models.Priority) (models.Notification, error) {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		priority = models.PriorityMedium
	}

	notification, err := service.notificationRepo.Create(ctx, models.Notification{
		Title:    strings.TrimSpace(title),
		Content:  content,
		Priority: priority,
		IsPinned: true,
		IsActive: true,
	})
	if err != nil {
		return models.Notification{}, err
	}

	if service.hub != nil {
		service.hub.Broadcast(RealtimeEvent{Kind: EventNotificationCreated, Data: notification})
	}
	return notification, nil
}

func (service *NotificationService) List(ctx context.Context) ([]models.Notification, error) {
	return service.notificationRepo.FindAll(ctx, false)
}

// Pinned returns active pinned notifications, newest first.
func (service *NotificationService) Pinned(ctx context.Context) ([]models.Notification, error) {
	active, err := service.notificationRepo.FindAll(ctx, true)
	if err != nil {
		return nil, err
	}
	pinned := []models.Notification{}
	for _, notification := range active {
		if notification.IsPinned {
			pinned = append(pinned, notification)
		}
	}
	return pinned, nil
}

func (service *NotificationService) Delete(ctx context.Context, id string) error {
	return service.notificationRepo.Delete(ctx, id)
}
