package redisx

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	ok, err := Claim(ctx, rdb, "lock:payment:s1", TTLPaymentLock)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Claim(ctx, rdb, "lock:payment:s1", TTLPaymentLock)
	require.NoError(t, err)
	assert.False(t, ok)

	exists, err := Exists(ctx, rdb, "lock:payment:s1")
	require.NoError(t, err)
	assert.True(t, exists)

	mr.FastForward(TTLPaymentLock)
	exists, err = Exists(ctx, rdb, "lock:payment:s1")
	require.NoError(t, err)
	assert.False(t, exists)
}
