package repository_test

import (
	"context"
	"testing"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/testutil"
)

func createTestMenuItem(t *testing.T, repo *repository.SQLiteMenuItemRepository, name string, category models.MealType, price float64) models.MenuItem {
	t.Helper()
	item, err := repo.Create(context.Background(), models.MenuItem{
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

func TestMenuItemRepository_CreateAndFindByID(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewMenuItemRepository(db)
	ctx := context.Background()

	created := createTestMenuItem(t, repo, "Idli", models.MealTypeBreakfast, 40)

	found, err := repo.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("finding menu item: %v", err)
	}
	if found.Name != "Idli" || found.Price != 40 || !found.Available {
		t.Errorf("unexpected menu item: %+v", found)
	}
}

func TestMenuItemRepository_FindAll_Filters(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewMenuItemRepository(db)
	ctx := context.Background()

	createTestMenuItem(t, repo, "Idli", models.MealTypeBreakfast, 40)
	lunch := createTestMenuItem(t, repo, "Thali", models.MealTypeLunch, 80)
	off := createTestMenuItem(t, repo, "Poha", models.MealTypeBreakfast, 30)

	off.Available = false
	if err := repo.Update(ctx, off); err != nil {
		t.Fatalf("updating menu item: %v", err)
	}

	breakfast, err := repo.FindAll(ctx, repository.MenuItemFilter{Category: models.MealTypeBreakfast})
	if err != nil {
		t.Fatalf("finding breakfast items: %v", err)
	}
	if len(breakfast) != 2 {
		t.Errorf("expected 2 breakfast items, got %d", len(breakfast))
	}

	available, err := repo.FindAll(ctx, repository.MenuItemFilter{AvailableOnly: true})
	if err != nil {
		t.Fatalf("finding available items: %v", err)
	}
	if len(available) != 2 {
		t.Errorf("expected 2 available items, got %d", len(available))
	}

	all, err := repo.FindAll(ctx, repository.MenuItemFilter{})
	if err != nil {
		t.Fatalf("finding all items: %v", err)
	}
	if len(all) != 3 || all[1].ID != lunch.ID {
		t.Error("expected all items in insertion order")
	}
}

func TestMenuItemRepository_RejectsNegativePrice(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewMenuItemRepository(db)

	_, err := repo.Create(context.Background(), models.MenuItem{
		Name: "Bad", Price: -1, Category: models.MealTypeLunch,
	})
	if err == nil {
		t.Error("expected check constraint violation for negative price")
	}
}

func TestMenuItemRepository_UpdateFeedbackAndDelete(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewMenuItemRepository(db)
	ctx := context.Background()

	item := createTestMenuItem(t, repo, "Dal", models.MealTypeDinner, 60)

	if err := repo.UpdateFeedback(ctx, item.ID, 5, 2); err != nil {
		t.Fatalf("updating feedback: %v", err)
	}
	found, err := repo.FindByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("finding menu item: %v", err)
	}
	if found.Likes != 5 || found.Dislikes != 2 {
		t.Errorf("expected 5/2, got %d/%d", found.Likes, found.Dislikes)
	}

	if err := repo.Delete(ctx, item.ID); err != nil {
		t.Fatalf("deleting menu item: %v", err)
	}
	if _, err := repo.FindByID(ctx, item.ID); err == nil {
		t.Error("expected error after delete")
	}
}
