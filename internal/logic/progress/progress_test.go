package progress

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	status, err := s.GetSlotStatus(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, SlotUnknown, status)

	require.NoError(t, s.MarkSlotStatus(ctx, 1, SlotPending))
	require.NoError(t, s.MarkSlotStatus(ctx, 1, SlotProcessed))
	require.NoError(t, s.MarkSlotStatus(ctx, 2, SlotProcessed))
	status, _ = s.GetSlotStatus(ctx, 1)
	assert.Equal(t, SlotProcessed, status)

	// 容量为 2，写入第三个 slot 时淘汰最早的
	require.NoError(t, s.MarkSlotStatus(ctx, 3, SlotInvalid))
	status, _ = s.GetSlotStatus(ctx, 1)
	assert.Equal(t, SlotUnknown, status)
	status, _ = s.GetSlotStatus(ctx, 3)
	assert.Equal(t, SlotInvalid, status)
}

func TestProgressManager(t *testing.T) {
	ctx := context.Background()

	t.Run("nil manager", func(t *testing.T) {
		var pm *ProgressManager
		ok, err := pm.ShouldProcessSlot(ctx, 1, 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, pm.MarkSlotProcessed(ctx, 1, SourceGrpc))
	})

	t.Run("lifecycle", func(t *testing.T) {
		pm := NewProgressManager(NewMemoryStore(16), 0)

		ok, err := pm.ShouldProcessSlot(ctx, 10, 0)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, pm.MarkSlotPending(ctx, 10))
		ok, _ = pm.ShouldProcessSlot(ctx, 10, 0)
		assert.False(t, ok)

		require.NoError(t, pm.MarkSlotProcessed(ctx, 10, SourceGrpc))
		ok, _ = pm.ShouldProcessSlot(ctx, 10, 0)
		assert.False(t, ok)

		require.NoError(t, pm.MarkSlotPending(ctx, 12))
		require.NoError(t, pm.ReleaseSlot(ctx, 12))
		ok, _ = pm.ShouldProcessSlot(ctx, 12, 0)
		assert.True(t, ok)

		require.NoError(t, pm.MarkSlotInvalid(ctx, 11))
		ok, _ = pm.ShouldProcessSlot(ctx, 11, 0)
		assert.False(t, ok)
	})

	t.Run("recent block bypass", func(t *testing.T) {
		pm := NewProgressManager(NewMemoryStore(16), 60)
		require.NoError(t, pm.MarkSlotProcessed(ctx, 5, SourceGrpc))

		ok, _ := pm.ShouldProcessSlot(ctx, 5, time.Now().Unix())
		assert.True(t, ok)
		ok, _ = pm.ShouldProcessSlot(ctx, 5, time.Now().Add(-time.Hour).Unix())
		assert.False(t, ok)
	})
}

func TestRedisProgressStore(t *testing.T) {
	assert.Equal(t, "progress:decode:slot:42", slotKey(42))

	s := NewRedisProgressStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond}), 0)
	defer s.Close()
	assert.Equal(t, defaultTTL, s.ttl)

	t.Run("unreachable redis", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_, err := s.GetSlotStatus(ctx, 1)
		assert.Error(t, err)

		pm := NewProgressManager(s, 0)
		ok, err := pm.ShouldProcessSlot(ctx, 1, 0)
		assert.Error(t, err)
		assert.True(t, ok)
	})
}
