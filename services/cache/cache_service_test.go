package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Code  string `json:"code"`
	Price int64  `json:"price"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	var got entry
	found, err := s.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "plan", entry{Code: "P1", Price: 15000}, 0))
	found, err = s.Get(ctx, "plan", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, entry{Code: "P1", Price: 15000}, got)

	require.NoError(t, s.Delete(ctx, "plan"))
	found, err = s.Get(ctx, "plan", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)

	require.NoError(t, s.Set(ctx, "short", entry{Code: "P2"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	var got entry
	found, err := s.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
