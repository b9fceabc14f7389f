package grocery

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"larder/internal/cache"
	"larder/internal/match"

	"github.com/stretchr/testify/require"
)

func missingEgg(amount float64) match.Result {
	return match.Result{
		Name:          "egg",
		Required:      12,
		Current:       12 - amount,
		Unit:          "unit",
		IsMissing:     true,
		MissingAmount: amount,
	}
}

func TestUpsertCreatesEntry(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())

	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(6)))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "egg", entries[0].Name)
	require.Equal(t, 6.0, entries[0].Quantity)
	require.Equal(t, StatusPending, entries[0].Status)
}

func TestUpsertRejectsTraversalNames(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	storage := NewStorage(cache.NewFileCache(filepath.Join(root, "cache")))

	evil := match.Result{
		Name:          "../../../../outside/evil",
		IsMissing:     true,
		MissingAmount: 1,
	}
	require.Error(t, storage.Upsert(ctx, "alice", evil))

	_, err := os.Stat(filepath.Join(root, "outside"))
	require.True(t, os.IsNotExist(err), "item name escaped the cache directory")
}

func TestUpsertSumsRepeatedAdds(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())

	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(6)))
	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(4)))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	// one entry per (owner, name, pending), quantities summed
	require.Len(t, entries, 1)
	require.Equal(t, 10.0, entries[0].Quantity)
}

func TestUpsertKeysByNormalizedName(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())

	require.NoError(t, storage.Upsert(ctx, "alice", match.Result{Name: "Fresh Tomatoes", Unit: "unit", IsMissing: true, MissingAmount: 2}))
	require.NoError(t, storage.Upsert(ctx, "alice", match.Result{Name: "tomato", Unit: "unit", IsMissing: true, MissingAmount: 3}))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 5.0, entries[0].Quantity)
}

func TestUpsertIsolatesOwners(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())

	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(6)))
	require.NoError(t, storage.Upsert(ctx, "bob", missingEgg(2)))

	alice, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	bob, err := storage.Pending(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 6.0, alice[0].Quantity)
	require.Equal(t, 2.0, bob[0].Quantity)
}

// staleCache serves reads from a snapshot taken at construction, so every
// conditional write through it races with a writer that "already won".
type staleCache struct {
	cache.ListCache
	stale cache.ListCache
}

func (c *staleCache) Get(ctx context.Context, key string) (io.ReadCloser, cache.ETag, error) {
	return c.stale.Get(ctx, key)
}

func TestUpsertConflictFailsFast(t *testing.T) {
	ctx := context.Background()
	live := cache.NewInMemoryCache()

	// snapshot before the concurrent writer lands
	stale := cache.NewInMemoryCache()
	require.NoError(t, live.Put(ctx, "grocery/alice/pending/egg", `{"owner":"alice","name":"egg","quantity":1,"unit":"unit","status":"pending"}`, cache.Unconditional()))
	require.NoError(t, stale.Put(ctx, "grocery/alice/pending/egg", `{"owner":"alice","name":"egg","quantity":1,"unit":"unit","status":"pending"}`, cache.Unconditional()))
	// the concurrent writer bumps the live revision; the stale etag is now old
	require.NoError(t, live.Put(ctx, "grocery/alice/pending/egg", `{"owner":"alice","name":"egg","quantity":3,"unit":"unit","status":"pending"}`, cache.Unconditional()))

	storage := NewStorage(&staleCache{ListCache: live, stale: stale})
	err := storage.Upsert(ctx, "alice", missingEgg(6))
	require.ErrorIs(t, err, ErrConflict)

	// the racing write is untouched
	entries, err := NewStorage(live).Pending(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, 3.0, entries[0].Quantity)
}

func TestPurchaseClearsPending(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())

	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(6)))
	require.NoError(t, storage.Purchase(ctx, "alice", "egg"))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, entries)

	// a later shortfall starts a fresh pending entry
	require.NoError(t, storage.Upsert(ctx, "alice", missingEgg(2)))
	entries, err = storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2.0, entries[0].Quantity)
}

func TestPurchaseMissingEntry(t *testing.T) {
	storage := NewStorage(cache.NewInMemoryCache())
	err := storage.Purchase(context.Background(), "alice", "egg")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddMissingSkipsNonMissing(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())
	reconciler := NewReconciler(storage)

	results := []match.Result{
		{Name: "egg", Required: 12, Current: 6, Unit: "unit", IsMissing: true, MissingAmount: 6},
		{Name: "milk", Required: 2, Current: 3, Unit: "cup", IsMissing: false, MissingAmount: 0},
	}
	require.NoError(t, reconciler.AddMissing(ctx, "alice", results))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "egg", entries[0].Name)
}

func TestAddMissingSkipsZeroAmounts(t *testing.T) {
	ctx := context.Background()
	storage := NewStorage(cache.NewInMemoryCache())
	reconciler := NewReconciler(storage)

	results := []match.Result{
		{Name: "", IsMissing: true, MissingAmount: 0}, // skipped: nothing to acquire
		{Name: "egg", Unit: "unit", IsMissing: true, MissingAmount: 6},
	}
	require.NoError(t, reconciler.AddMissing(ctx, "alice", results))

	entries, err := storage.Pending(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
