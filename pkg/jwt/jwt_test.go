package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 42, []string{"vip", "admin"}, "access", time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, "access", token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.HasRole("admin"))
	assert.False(t, claims.HasRole("editor"))
}

func TestParseToken_WrongType(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 1, nil, "refresh", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, "access", token)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken([]byte("a"), 1, nil, "access", time.Minute)
	require.NoError(t, err)

	_, err = ParseToken([]byte("b"), "access", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateToken(secret, 1, nil, "access", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(secret, "access", token)
	assert.Error(t, err)
}
