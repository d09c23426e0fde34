package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

func TestLogin_MatchingCredentials(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	student := createUser(t, db, "John Doe", "john@example.com", "password123", models.RoleStudent)

	session, err := auth.Login(context.Background(), "john@example.com", "password123", "")
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}
	if session.User.ID != student.ID {
		t.Errorf("expected session for %s, got %s", student.ID, session.User.ID)
	}
	if !session.IsStudent() || session.IsAdmin() || session.IsSuperAdmin() {
		t.Errorf("unexpected role flags for %q", session.User.Role)
	}
}

func TestLogin_FailuresAreUniform(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	createUser(t, db, "John Doe", "john@example.com", "password123", models.RoleStudent)
	ctx := context.Background()

	_, unknownErr := auth.Login(ctx, "nobody@example.com", "password123", "")
	_, wrongErr := auth.Login(ctx, "john@example.com", "wrong", "")
	_, paddedErr := auth.Login(ctx, " john@example.com", "password123", "")

	if !errors.Is(unknownErr, services.ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials for unknown email, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, services.ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials for wrong password, got %v", wrongErr)
	}
	if !errors.Is(paddedErr, services.ErrInvalidCredentials) {
		t.Errorf("expected invalid credentials for a padded email, got %v", paddedErr)
	}
}

func TestLogin_AdminElevation(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	ctx := context.Background()

	admin := createUser(t, db, "Admin User", "admin@example.com", "admin123", models.RoleAdmin)
	createUser(t, db, "John Doe", "john@example.com", "password123", models.RoleStudent)

	mess, err := newMessService(db).Create(ctx, "North Mess", nil, "")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}

	inactive, err := repository.NewAdminKeyRepository(db).Create(ctx, models.AdminKey{
		Key: "ADMIN_INACTIVE1", MessID: mess.ID, MessName: mess.Name, IsActive: false,
	})
	if err != nil {
		t.Fatalf("creating inactive key: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
		key      string
		wantOK   bool
	}{
		{"all conditions hold", "admin@example.com", "admin123", mess.AdminKey, true},
		{"wrong password", "admin@example.com", "nope", mess.AdminKey, false},
		{"not an admin", "john@example.com", "password123", mess.AdminKey, false},
		{"inactive key", "admin@example.com", "admin123", inactive.Key, false},
		{"unknown key", "admin@example.com", "admin123", "ADMIN_UNKNOWN00", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, err := auth.Login(ctx, tc.email, tc.password, tc.key)
			if tc.wantOK {
				if err != nil {
					t.Fatalf("expected login to succeed, got %v", err)
				}
				if session.User.SelectedMessID != mess.ID || session.User.MessName != "North Mess" {
					t.Errorf("expected session bound to mess, got %+v", session.User)
				}
				return
			}
			if !errors.Is(err, services.ErrInvalidCredentials) {
				t.Errorf("expected invalid credentials, got %v", err)
			}
		})
	}

	stored, err := repository.NewUserRepository(db).FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("reloading admin: %v", err)
	}
	if stored.SelectedMessID != "" || stored.MessName != "" {
		t.Errorf("expected stored admin to stay unbound, got %+v", stored)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	first, err := auth.Register(ctx, services.Registration{
		Name: "A", Email: "a@b.com", StudentID: "ST100", Password: "pw",
	})
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if !first.IsStudent() {
		t.Errorf("expected student role, got %q", first.User.Role)
	}

	countBefore, _ := users.Count(ctx)

	_, err = auth.Register(ctx, services.Registration{
		Name: "B", Email: "a@b.com", StudentID: "ST101", Password: "pw",
	})
	if !errors.Is(err, services.ErrEmailTaken) {
		t.Fatalf("expected email taken, got %v", err)
	}

	countAfter, _ := users.Count(ctx)
	if countAfter != countBefore {
		t.Errorf("expected %d users, got %d", countBefore, countAfter)
	}
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	ctx := context.Background()

	session, err := auth.Register(ctx, services.Registration{Name: "A", Email: "a@b.com", Password: "secret"})
	if err != nil {
		t.Fatalf("registering: %v", err)
	}
	if session.User.Password == "secret" {
		t.Error("expected password to be hashed")
	}
	if _, err := auth.Login(ctx, "a@b.com", "secret", ""); err != nil {
		t.Errorf("expected login with registered password, got %v", err)
	}
}

func TestSession_CookieRoundTrip(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	ctx := context.Background()

	createUser(t, db, "Admin User", "admin@example.com", "admin123", models.RoleAdmin)
	mess, err := newMessService(db).Create(ctx, "South Mess", nil, "")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}

	session, err := auth.Login(ctx, "admin@example.com", "admin123", mess.AdminKey)
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}

	recorder := httptest.NewRecorder()
	if err := auth.SetSession(recorder, session); err != nil {
		t.Fatalf("setting session: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	restored, err := auth.CurrentSession(request)
	if err != nil {
		t.Fatalf("restoring session: %v", err)
	}
	if restored.User.ID != session.User.ID || restored.MessID() != mess.ID {
		t.Errorf("expected restored admin bound to %s, got %+v", mess.ID, restored.User)
	}

	if _, err := auth.CurrentSession(httptest.NewRequest(http.MethodGet, "/", nil)); err == nil {
		t.Error("expected error without a session cookie")
	}
}

func TestSession_DropsBindingOnceKeyIsGone(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)
	messes := newMessService(db)
	ctx := context.Background()

	createUser(t, db, "Admin User", "admin@example.com", "admin123", models.RoleAdmin)
	mess, err := messes.Create(ctx, "South Mess", nil, "")
	if err != nil {
		t.Fatalf("creating mess: %v", err)
	}

	session, err := auth.Login(ctx, "admin@example.com", "admin123", mess.AdminKey)
	if err != nil {
		t.Fatalf("logging in: %v", err)
	}
	recorder := httptest.NewRecorder()
	if err := auth.SetSession(recorder, session); err != nil {
		t.Fatalf("setting session: %v", err)
	}

	if err := messes.Delete(ctx, mess.ID); err != nil {
		t.Fatalf("deleting mess: %v", err)
	}

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}

	restored, err := auth.CurrentSession(request)
	if err != nil {
		t.Fatalf("restoring session: %v", err)
	}
	if restored.User.ID != session.User.ID {
		t.Errorf("expected the admin to stay signed in, got %+v", restored.User)
	}
	if restored.MessID() != "" || restored.User.AdminKey != "" {
		t.Errorf("expected no mess binding after the key is gone, got %+v", restored.User)
	}
}

func TestSession_ClearExpiresCookie(t *testing.T) {
	db := setupDatabase(t)
	auth := newAuthService(t, db)

	recorder := httptest.NewRecorder()
	auth.ClearSession(recorder)

	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected an expiring session cookie, got %+v", cookies)
	}
}
