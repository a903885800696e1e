package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thewell/wellcal/pkg/kvstore"
)

func TestVotesKey(t *testing.T) {
	assert.Equal(t, "myvotes", VotesKey(""))
	assert.Equal(t, "myvotes:abc", VotesKey("abc"))
}

func TestVoteLock(t *testing.T) {
	t.Run("should mark and clear votes", func(t *testing.T) {
		votes := VoteLock{}

		votes.Mark("2024-06-10", Morning)
		votes.Mark("2024-06-10", FullDay)
		assert.True(t, votes.Has("2024-06-10", Morning))
		assert.Equal(t, []Slot{Morning, FullDay}, votes.Slots("2024-06-10"))

		votes.Clear("2024-06-10", Morning)
		votes.Clear("2024-06-10", FullDay)
		assert.False(t, votes.Has("2024-06-10", Morning))
		assert.Empty(t, votes)
	})

	t.Run("should drop votes of one month only", func(t *testing.T) {
		votes := VoteLock{}
		votes.Mark("2024-06-10", Morning)
		votes.Mark("2024-06-30", Afternoon)
		votes.Mark("2024-07-01", Morning)

		assert.True(t, votes.DropMonth(june))
		assert.False(t, votes.DropMonth(june))
		assert.Equal(t, VoteLock{"2024-07-01": {Morning: true}}, votes)
		assert.Empty(t, votes.Slots("2024-06-10"))
	})
}

func TestVoteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should keep votes per device", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		store := NewVoteStore(kv)
		votes := VoteLock{}
		votes.Mark("2024-06-10", Morning)

		require.NoError(t, store.Save(ctx, "device-1", votes))

		loaded, err := store.Load(ctx, "device-1")
		require.NoError(t, err)
		assert.Equal(t, votes, loaded)
		other, err := store.Load(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("should delete key when no vote left", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		store := NewVoteStore(kv)
		votes := VoteLock{}
		votes.Mark("2024-06-10", Morning)
		require.NoError(t, store.Save(ctx, "", votes))

		votes.Clear("2024-06-10", Morning)
		require.NoError(t, store.Save(ctx, "", votes))

		_, err := kv.Get(ctx, "myvotes")
		assert.ErrorIs(t, err, kvstore.ErrNotFound)
	})

	t.Run("should treat corrupt votes as empty", func(t *testing.T) {
		kv := kvstore.NewMemoryStore()
		require.NoError(t, kv.Set(ctx, "myvotes", "[1,2"))

		votes, err := NewVoteStore(kv).Load(ctx, "")

		require.NoError(t, err)
		assert.Empty(t, votes)
	})
}
