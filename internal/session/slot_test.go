package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSlotLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", SlotKey+".json")
	slot := NewFileSlot(path)

	_, err := slot.Load(ctx)
	require.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Save(ctx, []byte(`{"id":"1"}`)))
	data, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, slot.Clear(ctx))
	require.NoError(t, slot.Clear(ctx))
	_, err = slot.Load(ctx)
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestFileSlotBacksStoreAcrossProcesses(t *testing.T) {
	path := filepath.Join(t.TempDir(), SlotKey+".json")

	first := restoredStore(t, NewFileSlot(path))
	_, err := first.SignIn(context.Background(), "demo@clearscrub.io", "demo123")
	require.NoError(t, err)

	second := restoredStore(t, NewFileSlot(path))
	current, ok := second.CurrentIdentity()
	require.True(t, ok)
	assert.Equal(t, demoIdentity, current)
}

type mockRedisKV struct {
	data   map[string]string
	err    error
	setTTL time.Duration
}

func newMockRedisKV() *mockRedisKV {
	return &mockRedisKV{data: make(map[string]string)}
}

func (m *mockRedisKV) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	val, ok := m.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (m *mockRedisKV) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.setTTL = expiration
	cmd.SetVal("OK")
	return cmd
}

func (m *mockRedisKV) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func TestRedisSlotUsesPerHandleKey(t *testing.T) {
	ctx := context.Background()
	kv := newMockRedisKV()
	slot := &RedisSlot{client: kv, key: SlotKey + ":sid-1"}

	_, err := slot.Load(ctx)
	require.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Save(ctx, []byte("payload")))
	assert.Equal(t, "payload", kv.data["clearscrub_user:sid-1"])
	assert.Zero(t, kv.setTTL)

	data, err := slot.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	require.NoError(t, slot.Clear(ctx))
	assert.Empty(t, kv.data)
}

func TestRedisSlotPropagatesErrors(t *testing.T) {
	kv := newMockRedisKV()
	kv.err = errors.New("connection refused")
	slot := &RedisSlot{client: kv, key: SlotKey + ":sid-1"}

	_, err := slot.Load(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrSlotEmpty))

	store := NewStore(nil, slot, &fakeAuthenticator{}, nil)
	assert.Equal(t, "unauthenticated", store.Restore(context.Background()).String())
}

func TestNewRedisSlotKey(t *testing.T) {
	slot := NewRedisSlot(nil, " abc ")
	assert.Equal(t, "clearscrub_user:abc", slot.key)
}
