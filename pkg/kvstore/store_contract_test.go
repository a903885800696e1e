package kvstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every Store backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("should return ErrNotFound for missing key", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "bookings:2024-06")

		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should store and overwrite value", func(t *testing.T) {
		// given
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "bookings:2024-06", `{"2024-06-10":{"morning":1}}`))

		// when
		err := store.Set(ctx, "bookings:2024-06", `{"2024-06-10":{"fullday":1}}`)

		// then
		require.NoError(t, err)
		value, err := store.Get(ctx, "bookings:2024-06")
		require.NoError(t, err)
		assert.Equal(t, `{"2024-06-10":{"fullday":1}}`, value)
	})

	t.Run("should delete key and ignore missing one", func(t *testing.T) {
		// given
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "myvotes", `{}`))

		// when
		require.NoError(t, store.Delete(ctx, "myvotes"))
		err := store.Delete(ctx, "myvotes")

		// then
		require.NoError(t, err)
		_, err = store.Get(ctx, "myvotes")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should list keys by prefix in order", func(t *testing.T) {
		// given
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "bookings:2024-07", "{}"))
		require.NoError(t, store.Set(ctx, "bookings:2024-06", "{}"))
		require.NoError(t, store.Set(ctx, "myvotes", "{}"))
		require.NoError(t, store.Set(ctx, "bookingsX2024", "{}"))

		// when
		keys, err := store.Keys(ctx, "bookings:")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"bookings:2024-06", "bookings:2024-07"}, keys)
	})

	t.Run("should treat LIKE wildcards in prefix literally", func(t *testing.T) {
		// given
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "a_b", "1"))
		require.NoError(t, store.Set(ctx, "axb", "2"))

		// when
		keys, err := store.Keys(ctx, "a_")

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"a_b"}, keys)
	})

	t.Run("should return empty list when nothing matches", func(t *testing.T) {
		store := newStore(t)

		keys, err := store.Keys(ctx, "bookings:")

		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("should match prefix case-sensitively", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.Set(ctx, "BOOKINGS:2024-06", `{}`))
		require.NoError(t, store.Set(ctx, "bookings:2024-06", `{}`))

		keys, err := store.Keys(ctx, "bookings:")

		require.NoError(t, err)
		assert.Equal(t, []string{"bookings:2024-06"}, keys)
	})
}
