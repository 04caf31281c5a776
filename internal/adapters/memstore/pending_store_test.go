package memstore

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/testutil"
)

func newStore(clock *testutil.TestTimeProvider, maxEntries int) *PendingStore {
	return NewPendingStore(Config{MaxEntries: maxEntries, MaxTTL: time.Hour, Now: clock.Now})
}

func TestPendingStore_SaveTakeOnce(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := newStore(clock, 0)
	ctx := context.Background()

	p := domainauth.PendingSignIn{State: "s1", Nonce: "n1", CallbackURL: "/reports"}
	require.NoError(t, store.Save(ctx, p, 10*time.Minute))
	assert.Equal(t, 1, store.Len())

	got, err := store.Take(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = store.Take(ctx, "s1")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestPendingStore_PerEntryExpiry(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := newStore(clock, 0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "short"}, time.Minute))
	require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "long"}, 10*time.Minute))

	clock.AddTime(time.Minute)

	_, err := store.Take(ctx, "short")
	require.ErrorIs(t, err, ErrNotFound, "entry is dead exactly at its expiry")

	_, err = store.Take(ctx, "long")
	require.NoError(t, err)
}

func TestPendingStore_EvictsOldestWhenFull(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := newStore(clock, 2)
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: fmt.Sprintf("s%d", i)}, time.Minute))
	}
	_, err := store.Take(ctx, "s0")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = store.Take(ctx, "s2")
	require.NoError(t, err)
}

func TestPendingStore_ConcurrentTakeHasOneWinner(t *testing.T) {
	clock := testutil.NewTestTimeProvider(testutil.TestTime())
	store := newStore(clock, 0)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "race"}, time.Minute))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "race"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPendingStore_Validation(t *testing.T) {
	store := NewPendingStore(Config{})
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.PendingSignIn{}, time.Minute))
	require.Error(t, store.Save(ctx, domainauth.PendingSignIn{State: "x"}, 0))
	require.NoError(t, store.Save(ctx, domainauth.PendingSignIn{State: "x"}, time.Minute))
	require.Error(t, store.Save(ctx, domainauth.PendingSignIn{State: "x"}, time.Minute))

	_, err := store.Take(ctx, "")
	require.ErrorIs(t, err, ErrNotFound)
}
