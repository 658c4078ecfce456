package plancache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cottontaildb/queryengine/plancache"
)

// TestDurableStoreRoundTrip checks Put/Get survive a Close+reopen of the
// same BoltDB file, the warm-start contract PlanAndSelect relies on.
func TestDurableStoreRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "plans.db")
	store, err := plancache.OpenDurableStore(path)
	require.NoError(err)

	sum := plancache.Summary{Score: 12.5, Shape: "Filter(EntityScan)"}
	require.NoError(store.Put(42, sum))
	require.NoError(store.Close())

	reopened, err := plancache.OpenDurableStore(path)
	require.NoError(err)
	defer reopened.Close()

	got, ok, err := reopened.Get(42)
	require.NoError(err)
	require.True(ok)
	require.Equal(sum, got)
}

// TestDurableStoreMissReportsFalse checks a digest never Put returns
// ok=false rather than a zero-value Summary mistaken for a real hit.
func TestDurableStoreMissReportsFalse(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "plans.db")
	store, err := plancache.OpenDurableStore(path)
	require.NoError(err)
	defer store.Close()

	_, ok, err := store.Get(99)
	require.NoError(err)
	require.False(ok)
}

// TestNilDurableStoreIsANoOp checks a nil *DurableStore (the "no durable
// cache configured" case) degrades every call to a safe no-op, matching
// the in-memory Cache's own nil/zero-value ambient-config convention.
func TestNilDurableStoreIsANoOp(t *testing.T) {
	require := require.New(t)

	var store *plancache.DurableStore
	require.NoError(store.Close())
	require.NoError(store.Put(1, plancache.Summary{Score: 1}))

	_, ok, err := store.Get(1)
	require.NoError(err)
	require.False(ok)
}
