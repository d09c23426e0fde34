package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

func TestUserService_MembershipAndRemoval(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	messID := "mess-1"
	if err := service.Update(ctx, student.ID, services.UserUpdate{SelectedMessID: &messID}); err != nil {
		t.Fatalf("joining mess: %v", err)
	}

	members, err := service.MessMembers(ctx, messID)
	if err != nil {
		t.Fatalf("listing members: %v", err)
	}
	if len(members) != 1 || members[0].ID != student.ID {
		t.Errorf("expected the student as member, got %+v", members)
	}

	if err := service.RemoveFromMess(ctx, student.ID); err != nil {
		t.Fatalf("removing from mess: %v", err)
	}
	members, err = service.MessMembers(ctx, messID)
	if err != nil {
		t.Fatalf("listing members: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("expected no members, got %d", len(members))
	}

	empty, err := service.MessMembers(ctx, "")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Errorf("expected empty list for empty mess id, got %v %v", empty, err)
	}
}

func TestUserService_UpdateIsPartial(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	createUser(t, db, "Other", "other@example.com", "pw", models.RoleStudent)

	name := "Renamed"
	if err := service.Update(ctx, student.ID, services.UserUpdate{Name: &name}); err != nil {
		t.Fatalf("updating: %v", err)
	}
	updated, err := service.Get(ctx, student.ID)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if updated.Name != "Renamed" || updated.Email != "s@example.com" {
		t.Errorf("expected only the name to change, got %+v", updated)
	}

	taken := "other@example.com"
	if err := service.Update(ctx, student.ID, services.UserUpdate{Email: &taken}); !errors.Is(err, services.ErrEmailTaken) {
		t.Errorf("expected email taken, got %v", err)
	}

	if err := service.Update(ctx, "missing", services.UserUpdate{Name: &name}); err != nil {
		t.Errorf("expected unknown id to be ignored, got %v", err)
	}
}

func TestUserService_DeleteDoesNotCascade(t *testing.T) {
	db := setupDatabase(t)
	service := services.NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	student := createUser(t, db, "Student", "s@example.com", "pw", models.RoleStudent)
	createMealRecord(t, db, student.ID, "2024-06-01", "Thali", 80)

	if err := service.Delete(ctx, student.ID); err != nil {
		t.Fatalf("deleting: %v", err)
	}
	if err := service.Delete(ctx, student.ID); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("expected not found on second delete, got %v", err)
	}

	records, err := repository.NewMealRecordRepository(db).FindAll(ctx, repository.MealRecordFilter{UserID: student.ID})
	if err != nil {
		t.Fatalf("listing records: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected meal records to remain, got %d", len(records))
	}
}
