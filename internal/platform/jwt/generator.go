// Package jwtmw はオペレーター向けエンドポイントを保護するJWTの発行と検証を提供します。
package jwtmw

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// EnvKeyOperatorSecret is the HMAC secret for operator tokens. Empty disables the guard.
const EnvKeyOperatorSecret = "OPERATOR_JWT_SECRET"

// ScopeCacheClear allows POST /v1/cache/clear.
const ScopeCacheClear = "cache:clear"

// OperatorClaims are the claims carried by an operator token.
type OperatorClaims struct {
	Scopes []string `json:"scopes"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token grants scope.
func (c OperatorClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Generator issues operator tokens.
type Generator interface {
	GenerateToken(subject string, scopes ...string) (string, error)
}

type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a generator signing with HS256.
func NewGenerator(secret string, expiration time.Duration) Generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken signs a token for subject with the given scopes.
func (g *generator) GenerateToken(subject string, scopes ...string) (string, error) {
	if len(g.secret) == 0 {
		return "", fmt.Errorf("%s is not set", EnvKeyOperatorSecret)
	}
	now := g.now()
	claims := OperatorClaims{
		Scopes: scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
