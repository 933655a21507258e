package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndBatchOrder(t *testing.T) {
	store := openStore(t)

	base := time.Now().Add(-time.Minute)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Enqueue(Item{
			ID:        id,
			UserID:    "u1",
			Payload:   json.RawMessage(`{}`),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	size, err := store.Size()
	require.NoError(t, err)
	require.Equal(t, 3, size)

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "a", items[0].ID)
	require.Equal(t, "b", items[1].ID)

	// GetBatch does not consume.
	size, err = store.Size()
	require.NoError(t, err)
	require.Equal(t, 3, size)
}

func TestRemove(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Enqueue(Item{ID: "a", UserID: "u1"}))
	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))
	size, err := store.Size()
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestRequeueMovesItemToTheBack(t *testing.T) {
	store := openStore(t)

	base := time.Now().Add(-time.Minute)
	require.NoError(t, store.Enqueue(Item{ID: "a", Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{ID: "b", Timestamp: base.Add(time.Second)}))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Equal(t, "a", items[0].ID)

	retry := items[0]
	retry.Retries++
	require.NoError(t, store.Remove(items[0]))
	require.NoError(t, store.Requeue(retry))

	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "b", items[0].ID)
	require.Equal(t, "a", items[1].ID)
	require.Equal(t, 1, items[1].Retries)
}

func TestCleanup(t *testing.T) {
	store := openStore(t)

	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, store.Enqueue(Item{ID: "old", Timestamp: old}))
	require.NoError(t, store.Enqueue(Item{ID: "fresh", Timestamp: time.Now()}))

	require.NoError(t, store.Cleanup(time.Now().Add(-time.Hour)))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "fresh", items[0].ID)
}
