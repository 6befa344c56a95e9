package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "groundwater_level:nalanda:post_monsoon", Key("groundwater_level", " Nalanda ", "POST_MONSOON"))
	assert.Equal(t, "water_quality:jalgaon", Key("water_quality", "Jalgaon", ""))
	assert.Equal(t, Key("rainfall", "NALANDA", "2024"), Key("rainfall", "nalanda", "2024"))
}

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	defer s.Close()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	payload := []byte(`{"water_level_mbgl":6.2}`)
	require.NoError(t, s.Set(ctx, "k", payload, time.Minute))

	// callers must not be able to mutate the stored bytes
	payload[0] = 'X'

	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"water_level_mbgl":6.2}`, string(got))
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Expires(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, s.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_ExpiresWithoutJanitor(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "short", []byte("v"), 10*time.Millisecond))
	require.NoError(t, s.Set(ctx, "long", []byte("v"), time.Minute))
	assert.Equal(t, 2, s.Len())

	time.Sleep(30 * time.Millisecond)

	_, ok, err := s.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len())

	got, ok, err := s.Get(ctx, "long")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
}
