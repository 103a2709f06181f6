// Package auth resolves the identity of the person taking a test.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when no session token is configured or sent.
	ErrNoToken = errors.New("no session token")

	// ErrTokenExpired is returned for a session token past its expiry.
	ErrTokenExpired = errors.New("session token expired")

	// ErrNoSubject is returned for a token without a subject claim.
	ErrNoSubject = errors.New("session token has no subject")
)

// Identity is the current user as seen by a session. Loaded is false until
// the provider has finished resolving; UserID is empty when nobody is signed
// in.
type Identity struct {
	Loaded bool
	UserID string
	Email  string
}

// Authenticated reports whether the identity is loaded and names a user.
func (i Identity) Authenticated() bool {
	return i.Loaded && i.UserID != ""
}

// Provider resolves the current identity.
type Provider interface {
	Identity(ctx context.Context) (Identity, error)
}

// StaticProvider returns a fixed user id, typically from configuration.
type StaticProvider struct {
	UserID string
	Email  string
}

func (p StaticProvider) Identity(context.Context) (Identity, error) {
	return Identity{Loaded: true, UserID: p.UserID, Email: p.Email}, nil
}

// Claims are the session token claims this package reads.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenProvider derives the identity from a session token issued by the
// identity provider. Without a Secret the signature is not checked locally;
// the API verifies it.
type TokenProvider struct {
	Token  string
	Secret []byte
	Now    func() time.Time
}

func (p TokenProvider) Identity(context.Context) (Identity, error) {
	if strings.TrimSpace(p.Token) == "" {
		return Identity{Loaded: true}, ErrNoToken
	}
	claims, err := ParseToken(p.Token, p.Secret, p.Now)
	if err != nil {
		return Identity{Loaded: true}, err
	}
	return Identity{Loaded: true, UserID: claims.Subject, Email: claims.Email}, nil
}

// ParseToken parses a session token. With a secret the HS256 signature and
// expiry are verified; without one only the expiry is checked.
func ParseToken(token string, secret []byte, now func() time.Time) (*Claims, error) {
	if now == nil {
		now = time.Now
	}
	claims := &Claims{}

	if len(secret) > 0 {
		_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(now))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("parse session token: %w", err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("parse session token: %w", err)
		}
		if claims.ExpiresAt != nil && !now().Before(claims.ExpiresAt.Time) {
			return nil, ErrTokenExpired
		}
	}

	if claims.Subject == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}

// IssueToken signs a session token for sub, valid for ttl.
func IssueToken(secret []byte, sub, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "jeeace",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

type ctxKey struct{}

// FromContext returns the claims stored by Middleware, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	return c, ok
}

// Middleware rejects requests without a valid bearer token signed with
// secret and stores the claims on the request context.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				unauthorized(w, "missing bearer token")
				return
			}
			claims, err := ParseToken(strings.TrimPrefix(h, "Bearer "), secret, nil)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// unauthorized writes the same {"error": ...} envelope as the API handlers.
func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
