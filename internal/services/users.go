package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

var ErrNotFound = errors.New("not found")

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// UserUpdate holds the fields to change; nil fields are left alone.
type UserUpdate struct {
	Name           *string
	Email          *string
	StudentID      *string
	SelectedMessID *string
	MessName       *string
}

func (service *UserService) List(ctx context.Context) ([]models.User, error) {
	return service.userRepo.FindAll(ctx)
}

func (service *UserService) Get(ctx context.Context, id string) (models.User, error) {
	user, err := service.userRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (service *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	user, err := service.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// Update applies a partial update. Unknown ids are ignored.
func (service *UserService) Update(ctx context.Context, id string, update UserUpdate) error {
	user, err := service.userRepo.FindByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Email != nil && *update.Email != user.Email {
		if _, err := service.userRepo.FindByEmail(ctx, *update.Email); err == nil {
			return ErrEmailTaken
		}
		user.Email = *update.Email
	}
	if update.StudentID != nil {
		user.StudentID = *update.StudentID
	}
	if update.SelectedMessID != nil {
		user.SelectedMessID = *update.SelectedMessID
	}
	if update.MessName != nil {
		user.MessName = *update.MessName
	}

	return service.userRepo.Update(ctx, user)
}

// Delete removes the user only. Meal records and messages stay behind.
func (service *UserService) Delete(ctx context.Context, id string) error {
	deleted, err := service.userRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (service *UserService) RemoveFromMess(ctx context.Context, id string) error {
	empty := ""
	return service.Update(ctx, id, UserUpdate{SelectedMessID: &empty})
}

func (service *UserService) MessMembers(ctx context.Context, messID string) ([]models.User, error) {
	if messID == "" {
		return []models.User{}, nil
	}
	members, err := service.userRepo.FindByMessID(ctx, messID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []models.User{}
	}
	return members, nil
}
