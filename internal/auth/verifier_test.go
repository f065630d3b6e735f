package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTVerifier_Verify(t *testing.T) {
	now := time.Now().UTC()
	token := signToken(t, testSecret, &tokenClaims{
		Email:   "agent@example.com",
		Name:    "Avery Agent",
		Picture: "https://cdn.example.com/avery.png",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	v := NewJWTVerifier(testSecret)
	identity, err := v.Verify(context.Background(), token)

	require.NoError(t, err)
	assert.Equal(t, "uid-42", identity.UID)
	assert.Equal(t, "agent@example.com", identity.Email)
	assert.Equal(t, "Avery Agent", identity.Name)
	assert.Equal(t, "https://cdn.example.com/avery.png", identity.Picture)
}

func TestJWTVerifier_Verify_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	v := NewJWTVerifier(testSecret)
	_, err := v.Verify(context.Background(), token)

	require.Error(t, err)
}

func TestJWTVerifier_Verify_Expired(t *testing.T) {
	token := signToken(t, testSecret, &tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "uid-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	v := NewJWTVerifier(testSecret)
	_, err := v.Verify(context.Background(), token)

	require.Error(t, err)
}

func TestJWTVerifier_Verify_MissingSubject(t *testing.T) {
	token := signToken(t, testSecret, &tokenClaims{
		Email: "nobody@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	v := NewJWTVerifier(testSecret)
	_, err := v.Verify(context.Background(), token)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subject")
}

func TestJWTVerifier_Verify_Garbage(t *testing.T) {
	v := NewJWTVerifier(testSecret)
	_, err := v.Verify(context.Background(), "not-a-jwt")
	require.Error(t, err)
}
