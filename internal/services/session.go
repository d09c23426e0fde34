package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
)

const sessionCookieName = "session"

// Session is the signed-in user for one request. For admins it carries the
// mess binding derived from the admin key used at login.
type Session struct {
	User models.User
}

func (session Session) Authenticated() bool { return session.User.ID != "" }
func (session Session) IsAdmin() bool       { return session.User.IsAdmin() }
func (session Session) IsStudent() bool     { return session.User.IsStudent() }
func (session Session) IsSuperAdmin() bool  { return session.User.IsSuperAdmin() }
func (session Session) MessID() string      { return session.User.SelectedMessID }

type SessionData struct {
	UserID   string `json:"user_id"`
	MessID   string `json:"mess_id,omitempty"`
	MessName string `json:"mess_name,omitempty"`
	AdminKey string `json:"admin_key,omitempty"`
}

func (service *AuthService) SetSession(w http.ResponseWriter, session Session) error {
	data := SessionData{UserID: session.User.ID}
	if session.User.AdminKey != "" {
		data.MessID = session.User.SelectedMessID
		data.MessName = session.User.MessName
		data.AdminKey = session.User.AdminKey
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	value, err := service.secureCookie.Encode(sessionCookieName, string(encoded))
	if err != nil {
		return fmt.Errorf("encoding session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 30,
	})
	return nil
}

func (service *AuthService) sessionData(r *http.Request) (SessionData, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return SessionData{}, fmt.Errorf("no session cookie: %w", err)
	}

	var decoded string
	if err := service.secureCookie.Decode(sessionCookieName, cookie.Value, &decoded); err != nil {
		return SessionData{}, fmt.Errorf("decoding session cookie: %w", err)
	}

	var data SessionData
	if err := json.Unmarshal([]byte(decoded), &data); err != nil {
		return SessionData{}, fmt.Errorf("unmarshaling session: %w", err)
	}
	return data, nil
}

// CurrentSession restores the session written by SetSession. The user is
// reloaded so profile changes show up. The admin binding is reapplied only
// while its key is still active.
func (service *AuthService) CurrentSession(r *http.Request) (Session, error) {
	data, err := service.sessionData(r)
	if err != nil {
		return Session{}, err
	}

	user, err := service.userRepo.FindByID(r.Context(), data.UserID)
	if err != nil {
		return Session{}, fmt.Errorf("finding user: %w", err)
	}

	if data.AdminKey == "" || !user.IsAdmin() {
		return Session{User: user}, nil
	}

	key, err := service.adminKeyRepo.FindActiveByKey(r.Context(), data.AdminKey)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("dropping admin binding for inactive key", "user", user.ID, "mess", data.MessID)
		return Session{User: user}, nil
	}
	if err != nil {
		return Session{}, fmt.Errorf("resolving admin key: %w", err)
	}

	user.SelectedMessID = key.MessID
	user.MessName = key.MessName
	user.AdminKey = key.Key
	return Session{User: user}, nil
}

func (service *AuthService) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
