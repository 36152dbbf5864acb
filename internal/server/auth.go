package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/manav03panchal/habitd/internal/errors"
)

// Auth issues and verifies API tokens.
type Auth struct {
	secret []byte
	ttl    time.Duration
}

// NewAuth creates an Auth with the given signing secret and token TTL.
func NewAuth(secret string, ttl time.Duration) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{secret: []byte(secret), ttl: ttl}
}

// claims are the JWT claims carried by an API token.
type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed token for the given user key.
func (a *Auth) Issue(userKey string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			Issuer:    "habitd",
		},
	})
	return token.SignedString(a.secret)
}

// Verify parses a token and returns the user key it was issued for.
func (a *Auth) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperrors.ErrTokenInvalid
	}

	c, ok := token.Claims.(*claims)
	if !ok || c.Subject == "" {
		return "", apperrors.ErrTokenInvalid
	}
	return c.Subject, nil
}

// HashPassword hashes a password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a password against its bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ctxKey is the context key type for request-scoped values.
type ctxKey int

// ctxKeyUser carries the authenticated user key.
const ctxKeyUser ctxKey = iota

// requireAuth wraps a handler with bearer token verification. The
// authenticated user key is placed on the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, apperrors.ErrTokenInvalid)
			return
		}

		userKey, err := s.auth.Verify(tokenString)
		if err != nil {
			writeError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyUser, userKey)
		next(w, r.WithContext(ctx))
	}
}

// userKeyFrom returns the authenticated user key from the request context.
func userKeyFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyUser).(string); ok {
		return v
	}
	return ""
}
