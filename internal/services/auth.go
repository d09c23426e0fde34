package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Uditkumarpal/messy-meal-manager/internal/config"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
)

type AuthService struct {
	secureCookie *securecookie.SecureCookie
	userRepo     repository.UserRepository
	adminKeyRepo repository.AdminKeyRepository
	bcryptCost   int
}

func NewAuthService(cfg config.Config, userRepo repository.UserRepository, adminKeyRepo repository.AdminKeyRepository) *AuthService {
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{
		secureCookie: securecookie.New([]byte(cfg.SessionSecret), nil),
		userRepo:     userRepo,
		adminKeyRepo: adminKeyRepo,
		bcryptCost:   cost,
	}
}

// Login checks the credentials and, when adminKey is given, elevates the
// session to the mess the key belongs to. The email must match exactly. Every
// failure looks the same to the caller.
func (service *AuthService) Login(ctx context.Context, email, password, adminKey string) (Session, error) {
	user, err := service.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}

	if adminKey == "" {
		return Session{User: user}, nil
	}

	if !user.IsAdmin() {
		return Session{}, ErrInvalidCredentials
	}

	key, err := service.adminKeyRepo.FindActiveByKey(ctx, adminKey)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("resolving admin key: %w", err)
	}

	// The binding lives on the session only; the stored user is untouched.
	user.SelectedMessID = key.MessID
	user.MessName = key.MessName
	user.AdminKey = key.Key

	slog.Info("admin signed in", "user", user.ID, "mess", key.MessID)
	return Session{User: user}, nil
}

type Registration struct {
	Name           string
	Email          string
	StudentID      string
	Password       string
	SelectedMessID string
}

// Register creates a student account and returns a session for it.
func (service *AuthService) Register(ctx context.Context, registration Registration) (Session, error) {
	email := strings.TrimSpace(registration.Email)

	_, err := service.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return Session{}, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("checking email: %w", err)
	}

	hash, err := service.HashPassword(registration.Password)
	if err != nil {
		return Session{}, err
	}

	user, err := service.userRepo.Create(ctx, models.User{
		Name:           strings.TrimSpace(registration.Name),
		Email:          email,
		Password:       hash,
		Role:           models.RoleStudent,
		StudentID:      registration.StudentID,
		SelectedMessID: registration.SelectedMessID,
	})
	if err != nil {
		return Session{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("registered student", "id", user.ID, "email", user.Email)
	return Session{User: user}, nil
}

func (service *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
