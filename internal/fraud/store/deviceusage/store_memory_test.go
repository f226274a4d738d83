package deviceusage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_Touch(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	t.Run("first touch counts once in every window", func(t *testing.T) {
		usage, err := store.Touch(context.Background(), "fp-1", base)
		require.NoError(t, err)
		assert.Equal(t, 1, usage.Daily)
		assert.Equal(t, 1, usage.Weekly)
		assert.Equal(t, 1, usage.Monthly)
	})

	t.Run("uses age out of the daily window but stay weekly", func(t *testing.T) {
		usage, err := store.Touch(context.Background(), "fp-1", base.Add(25*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, usage.Daily, "first use older than a day")
		assert.Equal(t, 2, usage.Weekly)
		assert.Equal(t, 2, usage.Monthly)
	})

	t.Run("uses age out of the month entirely", func(t *testing.T) {
		usage, err := store.Touch(context.Background(), "fp-1", base.Add(32*24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, usage.Daily)
		assert.Equal(t, 1, usage.Weekly)
		assert.Equal(t, 1, usage.Monthly, "older uses pruned")
	})

	t.Run("fingerprints are independent", func(t *testing.T) {
		usage, err := store.Touch(context.Background(), "fp-2", base)
		require.NoError(t, err)
		assert.Equal(t, 1, usage.Monthly)
	})
}
