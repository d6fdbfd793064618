// internal/app/system/auth/auth.go
//
// Package auth issues and verifies the bearer tokens that authenticate API
// requests. A token carries the user's ID and role; handlers read both from
// the request context via Principal.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dalemusser/acadhub/internal/domain/models"
)

type contextKey struct{}

var principalKey contextKey

// Principal identifies the authenticated caller.
type Principal struct {
	UserID primitive.ObjectID
	Role   string
}

// Manager signs and verifies tokens with a shared HMAC secret.
type Manager struct {
	secret []byte
	expiry time.Duration
}

// NewManager builds a token manager. expiry bounds token lifetime; zero or
// negative falls back to 24 hours.
func NewManager(secret string, expiry time.Duration) *Manager {
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), expiry: expiry}
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs a token for the user.
func (m *Manager) IssueToken(user models.User) (string, error) {
	now := time.Now()
	c := claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns its principal.
func (m *Manager) Verify(token string) (Principal, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method %q", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return Principal{}, fmt.Errorf("auth: parse token: %w", err)
	}
	if !parsed.Valid {
		return Principal{}, fmt.Errorf("auth: invalid token")
	}

	userID, err := primitive.ObjectIDFromHex(c.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("auth: malformed subject: %w", err)
	}
	return Principal{UserID: userID, Role: strings.ToLower(c.Role)}, nil
}

// Middleware authenticates requests with an Authorization: Bearer header.
// Requests without a valid token get 401 and never reach the handler.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		principal, err := m.Verify(strings.TrimSpace(token))
		if err != nil {
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentPrincipal returns the authenticated caller, if any.
func CurrentPrincipal(r *http.Request) (Principal, bool) {
	p, ok := r.Context().Value(principalKey).(Principal)
	return p, ok
}

// WithPrincipal returns a context carrying the principal. Test helper and
// internal plumbing; request flow uses Middleware.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
