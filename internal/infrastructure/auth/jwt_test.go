package auth

import (
	"testing"
	"time"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func newTestValidator() *TokenValidator {
	return NewTokenValidator(config.JWTConfig{Secret: testSecret, Issuer: "backoffice-test"})
}

func sign(t *testing.T, claims jwt.Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(userID uuid.UUID) *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "backoffice-test",
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		UserID:   userID.String(),
		Username: "clerk",
	}
}

func TestTokenValidator_Authenticate(t *testing.T) {
	v := newTestValidator()
	userID := uuid.New()
	token := sign(t, validClaims(userID), jwt.SigningMethodHS256, []byte(testSecret))

	p, err := v.Authenticate(token)

	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, "clerk", p.Username)
}

func TestTokenValidator_Validate_Rejects(t *testing.T) {
	v := newTestValidator()
	userID := uuid.New()

	tests := []struct {
		name    string
		token   func() string
		wantErr error
	}{
		{"garbage", func() string { return "not-a-token" }, ErrInvalidToken},
		{"wrong secret", func() string {
			return sign(t, validClaims(userID), jwt.SigningMethodHS256, []byte("another-secret-another-secret!!"))
		}, ErrInvalidToken},
		{"unexpected algorithm", func() string {
			return sign(t, validClaims(userID), jwt.SigningMethodHS512, []byte(testSecret))
		}, ErrInvalidToken},
		{"expired", func() string {
			c := validClaims(userID)
			c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
			return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrExpiredToken},
		{"missing expiry", func() string {
			c := validClaims(userID)
			c.ExpiresAt = nil
			return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrInvalidToken},
		{"not yet valid", func() string {
			c := validClaims(userID)
			c.NotBefore = jwt.NewNumericDate(time.Now().Add(time.Hour))
			return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrTokenNotYetValid},
		{"foreign issuer", func() string {
			c := validClaims(userID)
			c.Issuer = "someone-else"
			return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrInvalidClaims},
		{"no user id", func() string {
			c := validClaims(userID)
			c.UserID = ""
			return sign(t, c, jwt.SigningMethodHS256, []byte(testSecret))
		}, ErrMissingUserID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.token())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClaims_Principal(t *testing.T) {
	t.Run("malformed user id", func(t *testing.T) {
		_, err := (&Claims{UserID: "42"}).Principal()
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("nil user id", func(t *testing.T) {
		_, err := (&Claims{UserID: uuid.Nil.String()}).Principal()
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestTokenValidator_AnyIssuerWhenUnset(t *testing.T) {
	v := NewTokenValidator(config.JWTConfig{Secret: testSecret})
	c := validClaims(uuid.New())
	c.Issuer = "anything"

	claims, err := v.Validate(sign(t, c, jwt.SigningMethodHS256, []byte(testSecret)))
	require.NoError(t, err)
	assert.False(t, claims.ExpiresAtTime().IsZero())
}
