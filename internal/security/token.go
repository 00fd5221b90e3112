package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingJWTSecret indicates admin sessions cannot be issued or verified.
var ErrMissingJWTSecret = errors.New("security: missing jwt secret")

// AdminClaims carries the admin identity inside a session token.
type AdminClaims struct {
	AdminID  uint64 `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SignAdminToken issues a session token for the admin.
func SignAdminToken(secret string, adminID uint64, username string, expiry time.Duration) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", ErrMissingJWTSecret
	}
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now().UTC()
	claims := AdminClaims{
		AdminID:  adminID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, errSign := token.SignedString([]byte(secret))
	if errSign != nil {
		return "", fmt.Errorf("security: sign admin token: %w", errSign)
	}
	return signed, nil
}

// ParseAdminToken verifies a session token and returns its claims.
func ParseAdminToken(secret, tokenString string) (*AdminClaims, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingJWTSecret
	}
	claims := &AdminClaims{}
	token, errParse := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("security: unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if errParse != nil {
		return nil, fmt.Errorf("security: parse admin token: %w", errParse)
	}
	if !token.Valid {
		return nil, errors.New("security: invalid admin token")
	}
	return claims, nil
}
