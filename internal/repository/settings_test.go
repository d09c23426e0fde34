package repository_test

import (
	"context"
	"testing"

	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/testutil"
)

func TestSettingsRepository_GetDefault(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	value, err := repo.Get(ctx, repository.SettingDefaultMessName)
	if err != nil {
		t.Fatalf("getting default setting: %v", err)
	}
	if value != "Default Mess" {
		t.Errorf("expected default 'Default Mess', got '%s'", value)
	}
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	if err := repo.Set(ctx, repository.SettingLastBilledMonth, "2024-06"); err != nil {
		t.Fatalf("setting value: %v", err)
	}

	value, err := repo.Get(ctx, repository.SettingLastBilledMonth)
	if err != nil {
		t.Fatalf("getting value: %v", err)
	}
	if value != "2024-06" {
		t.Errorf("expected '2024-06', got '%s'", value)
	}
}

func TestSettingsRepository_Overwrite(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	repo.Set(ctx, repository.SettingDefaultMessName, "Hostel A")
	repo.Set(ctx, repository.SettingDefaultMessName, "Hostel B")

	value, _ := repo.Get(ctx, repository.SettingDefaultMessName)
	if value != "Hostel B" {
		t.Errorf("expected 'Hostel B', got '%s'", value)
	}
}

func TestSettingsRepository_MissingKey(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	repo := repository.NewSettingsRepository(db)

	if _, err := repo.Get(context.Background(), "does_not_exist"); err == nil {
		t.Error("expected error for a missing key")
	}
}
