package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/moneyflow/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret", time.Hour, utils.TokenIssuer)
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, utils.TokenIssuer, claims.Issuer)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret", time.Hour, utils.TokenIssuer)
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	expired, err := utils.GenerateJWT("user-1", "secret", -time.Minute, utils.TokenIssuer)
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(expired, "secret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateJWT_RequiresUser(t *testing.T) {
	_, err := utils.GenerateJWT("", "secret", time.Hour, utils.TokenIssuer)
	assert.Error(t, err)
}
