package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *Hasher {
	return NewHasher(bcrypt.MinCost, 2, time.Second)
}

func TestHasherRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHasher()
	ctx := context.Background()

	for _, pw := range []string{"pw", "correct horse battery staple", "ünïcødé"} {
		hashed, err := h.Hash(ctx, pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hashed)

		ok, err := h.Verify(ctx, pw, hashed)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", pw)

		ok, err = h.Verify(ctx, pw+"x", hashed)
		require.NoError(t, err)
		assert.False(t, ok)
	}
}

func TestHasherIsSalted(t *testing.T) {
	t.Parallel()
	h := newTestHasher()
	ctx := context.Background()

	first, err := h.Hash(ctx, "pw")
	require.NoError(t, err)
	second, err := h.Hash(ctx, "pw")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	for _, hashed := range []string{first, second} {
		ok, err := h.Verify(ctx, "pw", hashed)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestHasherMalformedHash(t *testing.T) {
	t.Parallel()

	ok, err := newTestHasher().Verify(context.Background(), "pw", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestHasherHonoursCancellation(t *testing.T) {
	t.Parallel()
	h := newTestHasher()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)

	ok, err := h.Verify(ctx, "pw", "$2a$04$abcdefghijklmnopqrstuu")
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestHasherWaitsForSlot(t *testing.T) {
	t.Parallel()
	h := NewHasher(bcrypt.MinCost, 1, 0)

	require.NoError(t, h.slots.Acquire(context.Background(), 1))
	defer h.slots.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewHasherDefaults(t *testing.T) {
	t.Parallel()

	h := NewHasher(100, 0, 0)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)
}
