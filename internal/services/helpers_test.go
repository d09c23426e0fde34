package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/config"
	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
	"github.com/Uditkumarpal/messy-meal-manager/internal/testutil"
	"golang.org/x/crypto/bcrypt"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newAuthService(t *testing.T, db *sql.DB) *services.AuthService {
	t.Helper()
	return services.NewAuthService(
		config.Config{SessionSecret: "test-secret", BcryptCost: bcrypt.MinCost},
		repository.NewUserRepository(db),
		repository.NewAdminKeyRepository(db),
	)
}

func createUser(t *testing.T, db *sql.DB, name, email, password string, role models.Role) models.User {
	t.Helper()
	hash, err := newAuthService(t, db).HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	user, err := repository.NewUserRepository(db).Create(context.Background(), models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("creating user %s: %v", email, err)
	}
	return user
}

func createMenuItem(t *testing.T, db *sql.DB, name string, price float64, category models.MealType) models.MenuItem {
	t.Helper()
	item, err := repository.NewMenuItemRepository(db).Create(context.Background(), models.MenuItem{
		Name:      name,
		Price:     price,
		Category:  category,
		Available: true,
	})
	if err != nil {
		t.Fatalf("creating menu item %s: %v", name, err)
	}
	return item
}

func createMealRecord(t *testing.T, db *sql.DB, userID, date, name string, price float64) models.MealRecord {
	t.Helper()
	record, err := repository.NewMealRecordRepository(db).Create(context.Background(), models.MealRecord{
		UserID:     userID,
		MenuItemID: "item-" + name,
		Date:       date,
		PurchaseSnapshot: models.PurchaseSnapshot{
			MenuItemName: name,
			Price:        price,
			MealType:     models.MealTypeLunch,
		},
	})
	if err != nil {
		t.Fatalf("creating meal record: %v", err)
	}
	return record
}

func newMealService(db *sql.DB) *services.MealService {
	service := services.NewMealService(
		repository.NewMenuItemRepository(db),
		repository.NewMealRecordRepository(db),
		repository.NewMessRepository(db),
	)
	service.SetClock(fixedClock)
	return service
}

func newMessService(db *sql.DB) *services.MessService {
	return services.NewMessService(db)
}

func setupDatabase(t *testing.T) *sql.DB {
	t.Helper()
	return testutil.NewTestDatabase(t)
}
