package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Permission grants access to a guarded endpoint. Permissions are embedded
// in session tokens at issuance time.
type Permission string

const (
	PermissionViewBans Permission = "ViewBans"
	PermissionViewMaps Permission = "ViewMaps"
)

// Claims is the payload of a session token
type Claims struct {
	UserID      uint64       `json:"user_id"`
	Permissions []Permission `json:"permissions"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies session tokens with a shared HMAC key
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager. The secret must be at least
// 32 bytes.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("token secret must be at least 32 bytes, got %d", len(secret))
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Sign issues a session token for a user. Permissions may be nil.
func (m *TokenManager) Sign(userID uint64, permissions []Permission) (string, error) {
	if permissions == nil {
		permissions = []Permission{}
	}
	claims := Claims{
		UserID:      userID,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify decodes a session token, checking the signature and expiry
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// User is the principal derived from a verified session token
type User struct {
	ID          uint64
	Permissions []Permission
}

// HasPermission reports whether the user holds the given permission
func (u *User) HasPermission(p Permission) bool {
	for _, have := range u.Permissions {
		if have == p {
			return true
		}
	}
	return false
}
