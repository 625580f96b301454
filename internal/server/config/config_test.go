package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3002", c.HTTPAddr)
	assert.Equal(t, ":50051", c.GRPCAddr)
	assert.Equal(t, MemoryDSN, c.DatabaseDSN)
	assert.Equal(t, "secretKey", c.SecretKey)
	assert.Equal(t, 7*24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, 15*time.Minute, c.ResetTokenValidityDuration)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, QRStrategyRaw, c.QRStrategy)
	assert.Equal(t, 256, c.QRSize)
	assert.Empty(t, c.S3Bucket, "S3 must be disabled by default")
	assert.Empty(t, c.RedisAddr)
	assert.False(t, c.DevMode)
	assert.False(t, c.ExposeResetToken)
	assert.True(t, c.UsesMemoryStore())
	require.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	c := LoadConfig()

	require.NotNil(t, c, "LoadConfig must not return nil")
	assert.Equal(t, ":3002", c.HTTPAddr)
	assert.Equal(t, 7*24*time.Hour, c.TokenValidityDuration)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty secret", func(c *Config) { c.SecretKey = "" }},
		{"unknown strategy", func(c *Config) { c.QRStrategy = "binary" }},
		{"tiny qr", func(c *Config) { c.QRSize = 10 }},
		{"zero token ttl", func(c *Config) { c.TokenValidityDuration = 0 }},
		{"negative reset ttl", func(c *Config) { c.ResetTokenValidityDuration = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	c := base()
	c.QRStrategy = QRStrategyURL
	c.DatabaseDSN = "postgres://localhost/bitnet"
	assert.NoError(t, c.Validate())
	assert.False(t, c.UsesMemoryStore())
}
