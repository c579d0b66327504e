package authctx

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by Lorekeeper session tokens.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// TokenVerifier validates HS256 session tokens issued by the identity service.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for the shared signing secret.
func NewTokenVerifier(secret []byte) (*TokenVerifier, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	return &TokenVerifier{secret: secret}, nil
}

// Verify parses and validates the token, returning the authenticated user.
func (v *TokenVerifier) Verify(tokenString string) (User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		return User{}, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return User{}, fmt.Errorf("invalid token")
	}
	return User{ID: claims.Subject, Email: claims.Email}, nil
}

// MintToken issues a signed session token. Used by tests and local tooling;
// production tokens come from the identity service.
func MintToken(secret []byte, user User, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		Email: user.Email,
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
