package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse battery"))
}

func TestNewAccessTokenClaims(t *testing.T) {
	at, err := NewAccessToken("secret", 7, "ADMIN", 15)
	require.NoError(t, err)

	tok, err := jwt.Parse(at.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, tok.Valid)

	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(7), claims["sub"])
	assert.Equal(t, "ADMIN", claims["role"])
	assert.EqualValues(t, at.Exp.Unix(), claims["exp"])
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(30)
	require.NoError(t, err)
	b, err := NewRefreshToken(30)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
}

func TestHashRefreshRaw(t *testing.T) {
	h1 := HashRefreshRaw("some-raw-token")
	h2 := HashRefreshRaw("some-raw-token")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.NotEqual(t, h1, HashRefreshRaw("other-token"))
}
