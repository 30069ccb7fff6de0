package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()

	assert.True(t, cfg.Enabled)
	assert.True(t, cfg.Methods["GET"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "route_query", cfg.KeyStrategy)
	assert.Equal(t, 1048576, cfg.MaxBodyBytes)
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")
	cfg := LoadCacheConfig()

	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.Len(t, cfg.Methods, 2)
}

func TestLoadRateLimitConfigDefaults(t *testing.T) {
	cfg := LoadRateLimitConfig()

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 60, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, time.Second, cfg.RefillInterval)
	assert.Equal(t, "ip_user_route", cfg.KeyStrategy)
}

func TestLoadRateLimitConfigClampsTTL(t *testing.T) {
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "1m")
	t.Setenv("RATE_LIMIT_TTL", "10s")
	cfg := LoadRateLimitConfig()

	// TTL must outlive several refill intervals or buckets reset early.
	assert.Equal(t, 5*time.Minute, cfg.TTL)
}

func TestLoadRateLimitConfigClampsCapacity(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
}
