package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

var adminKeyPattern = regexp.MustCompile(`^ADMIN_[0-9A-Z]{9}$`)

func TestGenerateAdminKey_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		key, err := services.GenerateAdminKey()
		if err != nil {
			t.Fatalf("generating key: %v", err)
		}
		if !adminKeyPattern.MatchString(key) {
			t.Errorf("unexpected key format %q", key)
		}
		seen[key] = true
	}
	if len(seen) < 45 {
		t.Errorf("expected mostly distinct keys, got %d", len(seen))
	}
}

func TestMessService_CreateIssuesKey(t *testing.T) {
	db := setupDatabase(t)
	service := newMessService(db)
	ctx := context.Background()

	mess, err := service.Create(ctx, "North Mess", []string{"Breakfast"}, "Near gate 2")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}
	if !mess.IsActive || !adminKeyPattern.MatchString(mess.AdminKey) {
		t.Errorf("unexpected mess: %+v", mess)
	}

	key, err := service.ValidateKey(ctx, mess.AdminKey)
	if err != nil {
		t.Fatalf("validating key: %v", err)
	}
	if key.MessID != mess.ID || key.MessName != "North Mess" {
		t.Errorf("unexpected key: %+v", key)
	}

	if _, err := service.ValidateKey(ctx, "ADMIN_NOPE00000"); !errors.Is(err, services.ErrInvalidAdminKey) {
		t.Errorf("expected invalid key error, got %v", err)
	}
}

func TestMessService_DeleteRemovesKeysOnly(t *testing.T) {
	db := setupDatabase(t)
	service := newMessService(db)
	menuRepo := repository.NewMenuItemRepository(db)
	ctx := context.Background()

	mess, err := service.Create(ctx, "North Mess", nil, "")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}
	if _, err := menuRepo.Create(ctx, models.MenuItem{Name: "Thali", Price: 80, Category: models.MealTypeLunch, MessID: mess.ID}); err != nil {
		t.Fatalf("creating menu item: %v", err)
	}

	if err := service.Delete(ctx, mess.ID); err != nil {
		t.Fatalf("deleting mess: %v", err)
	}

	if _, err := service.Get(ctx, mess.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected mess to be gone, got %v", err)
	}
	keys, err := service.ListKeys(ctx)
	if err != nil {
		t.Fatalf("listing keys: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected keys to be removed, got %d", len(keys))
	}

	items, err := menuRepo.FindAll(ctx, repository.MenuItemFilter{MessID: mess.ID})
	if err != nil {
		t.Fatalf("listing menu: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected menu item to remain, got %d", len(items))
	}
}

func TestMessService_UpdateUnknownIsNoop(t *testing.T) {
	db := setupDatabase(t)
	service := newMessService(db)

	if err := service.Update(context.Background(), models.Mess{ID: "missing", Name: "x"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestMessService_CreateLeavesNothingWhenKeyFails(t *testing.T) {
	db := setupDatabase(t)
	service := newMessService(db)
	ctx := context.Background()

	if _, err := db.Exec(`CREATE TRIGGER reject_admin_keys BEFORE INSERT ON admin_keys
		BEGIN SELECT RAISE(ABORT, 'admin keys disabled'); END`); err != nil {
		t.Fatalf("creating trigger: %v", err)
	}

	if _, err := service.Create(ctx, "North Mess", nil, ""); err == nil {
		t.Fatal("expected create to fail when the key cannot be stored")
	}

	messes, err := service.List(ctx)
	if err != nil {
		t.Fatalf("listing messes: %v", err)
	}
	if len(messes) != 0 {
		t.Errorf("expected no orphan mess, got %+v", messes)
	}
}
