package crypt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword("correct horse battery staple", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := HashPassword("password")
	require.NoError(t, err)
	second, err := HashPassword("password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("password", first))
	assert.True(t, CheckPassword("password", second))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("password", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("password", ""))
}

func TestGenerateToken_RoundTrip(t *testing.T) {
	token, err := GenerateToken(map[string]any{"email": "a@example.com"}, 60, "secret")
	require.NoError(t, err)

	claims, status := DecodeToken(token, "secret")
	require.Equal(t, TokenOK, status)
	assert.Equal(t, "a@example.com", claims["email"])
	assert.Contains(t, claims, "exp")
	assert.Contains(t, claims, "iat")
}

func TestDecodeToken_Classification(t *testing.T) {
	expired, err := GenerateToken(map[string]any{"email": "a@example.com"}, -120, "secret")
	require.NoError(t, err)
	valid, err := GenerateToken(nil, 60, "secret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
		want   DecodeStatus
	}{
		{"valid", valid, "secret", TokenOK},
		{"wrong secret", valid, "other", TokenInvalidSignature},
		{"malformed", "not.a.token", "secret", TokenMalformed},
		{"empty", "", "secret", TokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, status := DecodeToken(tt.token, tt.secret)
			assert.Equal(t, tt.want, status)
			if tt.want != TokenOK {
				assert.Nil(t, claims)
			}
		})
	}

	// Expired tokens keep their own status even though the signature checks out.
	_, status := DecodeToken(expired, "secret")
	assert.Equal(t, TokenExpired, status)
}

func TestGenerateToken_ZeroTTLUsesDefault(t *testing.T) {
	token, err := GenerateToken(nil, 0, "secret")
	require.NoError(t, err)

	_, status := DecodeToken(token, "secret")
	assert.Equal(t, TokenOK, status)
}

func TestGenerateToken_NegativeTTLMintsExpired(t *testing.T) {
	token, err := GenerateToken(nil, -120, "secret")
	require.NoError(t, err)

	_, status := DecodeToken(token, "secret")
	assert.Equal(t, TokenExpired, status)
}

func TestGenerateRefreshToken_ExactLength(t *testing.T) {
	for _, length := range []int{16, 32, 100, 128, 129, 256} {
		token, err := GenerateRefreshToken(length)
		require.NoError(t, err)
		assert.Len(t, token, length)
	}
}

func TestGenerateRefreshToken_DefaultLength(t *testing.T) {
	token, err := GenerateRefreshToken(0)
	require.NoError(t, err)
	assert.Len(t, token, DefaultRefreshTokenLength)
}

func TestGenerateRefreshToken_Unique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		token, err := GenerateRefreshToken(64)
		require.NoError(t, err)
		_, dup := seen[token]
		assert.False(t, dup)
		seen[token] = struct{}{}
	}
}
