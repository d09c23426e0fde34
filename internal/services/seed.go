package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
)

type seedUser struct {
	name      string
	email     string
	password  string
	role      models.Role
	studentID string
}

var defaultUsers = []seedUser{
	{name: "John Doe", email: "john@example.com", password: "password123", role: models.RoleStudent, studentID: "ST001"},
	{name: "Admin User", email: "admin@example.com", password: "admin123", role: models.RoleAdmin},
	{name: "Super Admin", email: "superadmin@example.com", password: "super123", role: models.RoleSuperAdmin},
}

var defaultMenuItems = []models.MenuItem{
	{Name: "Breakfast Combo", Description: "Toast, eggs, and coffee", Price: 50, Category: models.MealTypeBreakfast, Available: true, Likes: 15, Dislikes: 2},
	{Name: "Lunch Special", Description: "Rice, dal, vegetables, and roti", Price: 80, Category: models.MealTypeLunch, Available: true, Likes: 25, Dislikes: 1},
	{Name: "Dinner Thali", Description: "Complete dinner with variety", Price: 90, Category: models.MealTypeDinner, Available: true, Likes: 30, Dislikes: 3},
}

// Meals the seeded student has already had today, by menu item name.
var defaultMealRecords = []struct {
	studentEmail string
	menuItemName string
}{
	{studentEmail: "john@example.com", menuItemName: "Breakfast Combo"},
	{studentEmail: "john@example.com", menuItemName: "Lunch Special"},
}

const (
	defaultCommitteeName = "Main Mess Committee"
	defaultCommitteeKey  = "MAIN_MESS_2024"
)

// SeedDefaults fills empty collections with the starter accounts, menu,
// sample meal records and committee. Collections that already hold rows are
// left alone.
func SeedDefaults(ctx context.Context, db *sql.DB, auth *AuthService) error {
	userRepo := repository.NewUserRepository(db)
	menuRepo := repository.NewMenuItemRepository(db)
	committeeRepo := repository.NewCommitteeRepository(db)

	userCount, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if userCount == 0 {
		for _, seed := range defaultUsers {
			hash, err := auth.HashPassword(seed.password)
			if err != nil {
				return err
			}
			if _, err := userRepo.Create(ctx, models.User{
				Name:      seed.name,
				Email:     seed.email,
				Password:  hash,
				Role:      seed.role,
				StudentID: seed.studentID,
			}); err != nil {
				return fmt.Errorf("seeding user %s: %w", seed.email, err)
			}
		}
		slog.Info("seeded default users", "count", len(defaultUsers))
	}

	menuCount, err := menuRepo.Count(ctx)
	if err != nil {
		return err
	}
	if menuCount == 0 {
		for _, item := range defaultMenuItems {
			if _, err := menuRepo.Create(ctx, item); err != nil {
				return fmt.Errorf("seeding menu item %s: %w", item.Name, err)
			}
		}
		slog.Info("seeded default menu", "count", len(defaultMenuItems))
	}

	if err := seedMealRecords(ctx, db, userRepo, menuRepo); err != nil {
		return err
	}

	committeeCount, err := committeeRepo.Count(ctx)
	if err != nil {
		return err
	}
	if committeeCount == 0 {
		if _, err := committeeRepo.Create(ctx, models.MessCommittee{
			Name:       defaultCommitteeName,
			Facilities: []string{"Breakfast", "Lunch", "Dinner"},
			AdminKey:   defaultCommitteeKey,
			IsActive:   true,
		}); err != nil {
			return fmt.Errorf("seeding committee: %w", err)
		}
	}

	return nil
}

func seedMealRecords(ctx context.Context, db *sql.DB, userRepo repository.UserRepository, menuRepo repository.MenuItemRepository) error {
	recordRepo := repository.NewMealRecordRepository(db)
	recordCount, err := recordRepo.Count(ctx)
	if err != nil {
		return err
	}
	if recordCount > 0 {
		return nil
	}

	items, err := menuRepo.FindAll(ctx, repository.MenuItemFilter{})
	if err != nil {
		return err
	}
	itemsByName := make(map[string]models.MenuItem, len(items))
	for _, item := range items {
		itemsByName[item.Name] = item
	}

	today := time.Now().UTC().Format("2006-01-02")
	seeded := 0
	for _, seed := range defaultMealRecords {
		user, err := userRepo.FindByEmail(ctx, seed.studentEmail)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return err
		}
		item, ok := itemsByName[seed.menuItemName]
		if !ok {
			continue
		}
		if _, err := recordRepo.Create(ctx, models.MealRecord{
			UserID:     user.ID,
			MenuItemID: item.ID,
			Date:       today,
			UserRating: models.RatingLike,
			PurchaseSnapshot: models.PurchaseSnapshot{
				MenuItemName: item.Name,
				Price:        item.Price,
				MealType:     item.Category,
			},
		}); err != nil {
			return fmt.Errorf("seeding meal record %s: %w", item.Name, err)
		}
		seeded++
	}
	if seeded > 0 {
		slog.Info("seeded sample meal records", "count", seeded)
	}
	return nil
}
