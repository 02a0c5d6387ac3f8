package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	token, err := GenerateToken("user-123", "sv@example.com", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "sv@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyTokenExpired(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	token, err := GenerateTokenWithTTL("user-123", "sv@example.com", false, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenTampered(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	token, err := GenerateToken("user-123", "sv@example.com", false)
	require.NoError(t, err)

	// Sửa một ký tự trong phần payload, chữ ký không còn khớp
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = VerifyToken(tampered)
	assert.Error(t, err)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret-a")
	token, err := GenerateToken("user-123", "sv@example.com", false)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET_KEY", "secret-b")
	_, err = VerifyToken(token)
	assert.Error(t, err)
}
