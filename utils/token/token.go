// Package token is the signing core of the session authority: it mints and
// verifies the two token classes the API runs on. Access tokens are short-lived
// bearer credentials carrying the subject and role; refresh tokens are
// long-lived, carry only the subject, and are additionally checked against the
// persisted session record by the auth handlers.
package token

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	AccessTokenExpiry  = time.Hour
	RefreshTokenExpiry = 7 * 24 * time.Hour

	issuer = "bitejournal"
)

// AccessClaims is the payload of a short-lived access token.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a long-lived refresh token. Deliberately
// role-free: role is re-read from the user record on refresh.
type RefreshClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Manager handles JWT creation and verification. Access and refresh tokens are
// signed with independent secrets so one class can never stand in for the other.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
}

// NewManager creates a new JWT manager instance.
func NewManager(accessSecret, refreshSecret string) *Manager {
	return &Manager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
	}
}

// NewManagerFromEnv builds a manager from JWT_SECRET / REFRESH_SECRET.
func NewManagerFromEnv() *Manager {
	return NewManager(os.Getenv("JWT_SECRET"), os.Getenv("REFRESH_SECRET"))
}

// IssueAccessToken creates a signed access token encoding user id and role.
func (m *Manager) IssueAccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.accessSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}

// IssueRefreshToken creates a signed refresh token encoding only the user id.
func (m *Manager) IssueRefreshToken(userID string) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenExpiry)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign refresh token")
	}
	return signed, nil
}

// VerifyAccessToken parses and validates an access token, returning its claims.
func (m *Manager) VerifyAccessToken(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.verify(tokenString, claims, m.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken parses and validates a refresh token, returning its claims.
func (m *Manager) VerifyRefreshToken(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.verify(tokenString, claims, m.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return errors.New("invalid token claims")
	}
	return nil
}
