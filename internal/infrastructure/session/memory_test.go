package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/geritapp/gerit/internal/domain/auth"
	"github.com/geritapp/gerit/internal/infrastructure/session"
)

func TestMemoryStoreExpires(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := session.NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte("x"), 0))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	clock.Advance(time.Minute)
	_, err = store.Get(ctx, "k")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = store.Get(ctx, "forever")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "forever"))
	_, err = store.Get(ctx, "forever")
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(nil)
	ctx := context.Background()

	buf := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", buf, time.Hour))
	buf[0] = 'z'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}
