package config

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth_backend/internal/feature/auth/domain"
)

const validKey = "0123456789abcdef0123456789abcdef"

func setValidJWTEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_KEY", validKey)
	t.Setenv("JWT_ISSUER", "auth")
	t.Setenv("JWT_AUDIENCE", "clients")
	t.Setenv("JWT_TTL_MINUTES", "60")
}

// TestLoad_Defaults は必須項目のみ設定した場合にデフォルト値が適用されることを検証します。
func TestLoad_Defaults(t *testing.T) {
	setValidJWTEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "auth.db", cfg.DB.Path)
	assert.True(t, cfg.DB.RunMigrations)
	assert.Equal(t, "bcrypt", cfg.Password.Algorithm)
	assert.Equal(t, 12, cfg.Password.BcryptCost)
	assert.Equal(t, 10, cfg.Login.RateLimit)
	assert.Equal(t, time.Minute, cfg.Login.RateWindow)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.TrustedProxies)

	s, err := cfg.JWTSettings()
	require.NoError(t, err)
	assert.Equal(t, []byte(validKey), s.Key)
	assert.Equal(t, 60*time.Minute, s.TTL)
}

// TestLoad_InvalidJWT はJWT設定の不備でConfigurationErrorが返されることを検証します。
func TestLoad_InvalidJWT(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing key", "JWT_KEY", ""},
		{"short key", "JWT_KEY", "short-key"},
		{"bad base64 key", "JWT_KEY", "base64:!!!"},
		{"missing issuer", "JWT_ISSUER", ""},
		{"missing audience", "JWT_AUDIENCE", ""},
		{"zero ttl", "JWT_TTL_MINUTES", "0"},
		{"non numeric ttl", "JWT_TTL_MINUTES", "sixty"},
		{"unknown driver", "DB_DRIVER", "oracle"},
		{"unknown algorithm", "PASSWORD_ALGORITHM", "md5"},
		{"bad trusted proxy", "TRUSTED_PROXIES", "10.0.0.0/8,not-an-ip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setValidJWTEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.ErrorIs(t, err, domain.ErrConfiguration)
		})
	}
}

// TestLoad_TrustedProxies はカンマ区切りの IP / CIDR が読み込まれることを検証します。
func TestLoad_TrustedProxies(t *testing.T) {
	setValidJWTEnv(t)
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,192.168.1.10")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.TrustedProxies)
}

// TestDecodeKey_Base64 はbase64:プレフィックス付きの鍵がデコードされることを検証します。
func TestDecodeKey_Base64(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = byte(i)
	}

	key, err := DecodeKey("base64:" + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, key)
}

// TestRedisConfig_Addr はRedisのアドレスが組み立てられることを検証します。
func TestRedisConfig_Addr(t *testing.T) {
	t.Parallel()

	r := RedisConfig{Host: "cache", Port: "6380"}
	assert.True(t, r.Enabled())
	assert.Equal(t, "cache:6380", r.Addr())
}
