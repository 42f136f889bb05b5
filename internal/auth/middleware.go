package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Harikrish-25/period-care/internal/models"
)

type ctxKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*models.User)
	return u, ok && u != nil
}

// UserLookup resolves a token subject to a user.
type UserLookup func(ctx context.Context, email string) (*models.User, error)

type Middleware struct {
	tokens *Tokens
	lookup UserLookup
}

func NewMiddleware(tokens *Tokens, lookup UserLookup) *Middleware {
	return &Middleware{tokens: tokens, lookup: lookup}
}

func bearer(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireUser rejects requests without a valid access token for an active
// user, and passes the user on in the request context.
func (m *Middleware) RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearer(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}
		email, err := m.tokens.Verify(raw, TypeAccess)
		if err != nil {
			slog.Warn("Invalid token attempt", "error", err, "ip", r.RemoteAddr)
			unauthorized(w, "Could not validate credentials")
			return
		}
		u, err := m.lookup(r.Context(), email)
		if err != nil || u == nil {
			unauthorized(w, "Could not validate credentials")
			return
		}
		if !u.IsActive {
			writeDetail(w, http.StatusForbidden, "Inactive user")
			return
		}
		next(w, r.WithContext(WithUser(r.Context(), u)))
	}
}

// RequireAdmin is RequireUser plus an admin role check.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireUser(func(w http.ResponseWriter, r *http.Request) {
		u, _ := UserFrom(r.Context())
		if !u.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next(w, r)
	})
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
