package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(42, "juan@example.com", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "juan@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	first, err := GenerateToken(1, "a@example.com", "user")
	require.NoError(t, err)
	second, err := GenerateToken(1, "a@example.com", "user")
	require.NoError(t, err)

	firstClaims, err := ValidateToken(first)
	require.NoError(t, err)
	secondClaims, err := ValidateToken(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(1, "a@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second-secret")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "-1h")
	token, err := GenerateToken(1, "a@example.com", "user")
	require.NoError(t, err)

	t.Setenv("JWT_EXPIRY", "24h")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}
