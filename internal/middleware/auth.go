package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Uditkumarpal/messy-meal-manager/internal/models"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

type contextKey string

const SessionContextKey contextKey = "session"

// RequireAuth restores the session from the request cookie and stores it in
// the request context.
func RequireAuth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := authService.CurrentSession(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole lets the request through only when the session role is one of
// roles.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := GetSession(r.Context())
			for _, role := range roles {
				if session.User.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "forbidden")
		})
	}
}

func WithSession(ctx context.Context, session services.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

func GetSession(ctx context.Context) services.Session {
	session, _ := ctx.Value(SessionContextKey).(services.Session)
	return session
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
