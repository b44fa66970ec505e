package redis

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderKey(t *testing.T) {
	key := RenderKey("[Verse]\n{C}la\n", 2)

	assert.True(t, strings.HasPrefix(key, "render:"))
	assert.Len(t, strings.TrimPrefix(key, "render:"), 64)
	assert.Equal(t, key, RenderKey("[Verse]\n{C}la\n", 2))
	assert.NotEqual(t, key, RenderKey("[Verse]\n{C}la\n", 1))
	assert.NotEqual(t, key, RenderKey("[Verse]\n{G}la\n", 2))
	// the separator keeps the count and the source apart
	assert.NotEqual(t, RenderKey("1", 1), RenderKey("11", 1))
	assert.NotEqual(t, RenderKey("2x", 1), RenderKey("x", 12))
}

func TestNewCache(t *testing.T) {
	t.Run("bare host uses tls", func(t *testing.T) {
		cache, err := NewCache("cache.example:6380", "secret", time.Hour)
		require.NoError(t, err)
		defer cache.Close()

		opt := cache.client.Options()
		assert.Equal(t, "cache.example:6380", opt.Addr)
		assert.Equal(t, "secret", opt.Password)
		assert.NotNil(t, opt.TLSConfig)
		assert.Equal(t, time.Hour, cache.ttl)
	})

	t.Run("full url", func(t *testing.T) {
		cache, err := NewCache("redis://localhost:6379/2", "", time.Minute)
		require.NoError(t, err)
		defer cache.Close()

		opt := cache.client.Options()
		assert.Equal(t, "localhost:6379", opt.Addr)
		assert.Equal(t, 2, opt.DB)
		assert.Nil(t, opt.TLSConfig)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := NewCache("ftp://nope", "", time.Minute)
		assert.Error(t, err)
	})
}
