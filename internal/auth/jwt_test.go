package auth

import (
	"testing"
	"time"

	"corpmatch_backend/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestConfig(t *testing.T, secret string) {
	t.Helper()
	config.AppConfig = &config.Config{}
	config.AppConfig.JWT.Secret = secret
	config.AppConfig.JWT.TTL = 60
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestConfig(t, "unit-test-secret")

	token, err := GenerateToken("user-123", "user@corp.io")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@corp.io", claims.Email)
	assert.Equal(t, "user-123", claims.Subject)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig(t, "secret-one")
	token, err := GenerateToken("user-123", "user@corp.io")
	require.NoError(t, err)

	setTestConfig(t, "secret-two")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_RejectsNonHMAC(t *testing.T) {
	setTestConfig(t, "unit-test-secret")

	// alg=none не должен проходить проверку метода подписи
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-123"})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseToken_MissingUserID(t *testing.T) {
	setTestConfig(t, "unit-test-secret")

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("supersecret1")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret1", hash)

	assert.True(t, CheckPasswordHash("supersecret1", hash))
	assert.False(t, CheckPasswordHash("supersecret2", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("longenough"))
	assert.Error(t, ValidatePassword("short"))
}
