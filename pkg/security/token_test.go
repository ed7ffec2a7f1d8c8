package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(map[string]any{"sub": "merchant-42", "role": "admin"}, "jwt-secret", time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(token, "jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, "merchant-42", claims["sub"])
	assert.Equal(t, "admin", claims["role"])
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(map[string]any{"sub": "merchant-42"}, "jwt-secret", time.Hour)
	require.NoError(t, err)

	_, err = VerifyToken(token, "other-secret")
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	token, err := GenerateToken(map[string]any{"sub": "merchant-42"}, "jwt-secret", -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "jwt-secret")
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	_, err := VerifyToken("not.a.jwt", "jwt-secret")
	assert.Error(t, err)
}
