package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	t.Run("should connect", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0", nil)
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		got, err := mr.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	})

	t.Run("should reject a malformed URL", func(t *testing.T) {
		_, err := NewRedisClient(context.Background(), "localhost:6379", nil)
		assert.ErrorContains(t, err, "failed to parse Redis URL")
	})

	t.Run("should fail when the server is unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := NewRedisClient(context.Background(), "redis://"+addr, nil)
		assert.ErrorContains(t, err, "failed to connect to Redis")
	})
}
