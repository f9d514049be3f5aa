package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ahwr/internal/platform/config"
)

func TestOptions(t *testing.T) {
	t.Run("overlays configured pool settings", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:          "redis://cache:6380/2",
			PoolSize:     7,
			MinIdleConns: 2,
			DialTimeout:  time.Second,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 7, opts.PoolSize)
		assert.Equal(t, 2, opts.MinIdleConns)
		assert.Equal(t, time.Second, opts.DialTimeout)
	})

	t.Run("requires a url", func(t *testing.T) {
		_, err := options(config.RedisConfig{})
		assert.ErrorContains(t, err, "redis url is required")
	})

	t.Run("rejects a malformed url", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://cache"})
		assert.ErrorContains(t, err, "parse redis url")
	})
}
