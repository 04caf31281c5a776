package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/HARI5KRISHNAN/darevel-sub005/internal/domain/auth"
	"github.com/HARI5KRISHNAN/darevel-sub005/internal/testutil"
)

func samplePending(state string) domainauth.PendingSignIn {
	return domainauth.PendingSignIn{
		State:       state,
		Nonce:       "nonce-" + state,
		CallbackURL: "/dashboard",
		CreatedAt:   testutil.TestTime(),
	}
}

func TestPendingStore_SaveAndTake(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewPendingStore(client)
	ctx := context.Background()

	p := samplePending("state-1")
	require.NoError(t, store.Save(ctx, p, 10*time.Minute))

	got, err := store.Take(ctx, "state-1")
	require.NoError(t, err)
	assert.Equal(t, p.Nonce, got.Nonce)
	assert.Equal(t, p.CallbackURL, got.CallbackURL)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))
}

func TestPendingStore_TakeIsSingleUse(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewPendingStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePending("once"), time.Minute))

	_, err := store.Take(ctx, "once")
	require.NoError(t, err)

	_, err = store.Take(ctx, "once")
	assert.Equal(t, ErrNotFound, err)
}

func TestPendingStore_ConcurrentTakeHasOneWinner(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewPendingStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePending("race"), time.Minute))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 8 {
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

func TestPendingStore_Expires(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	if mr == nil {
		t.Skip("expiry fast-forward needs miniredis")
	}
	store := NewPendingStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePending("ttl"), 10*time.Minute))
	mr.FastForward(11 * time.Minute)

	_, err := store.Take(ctx, "ttl")
	assert.Equal(t, ErrNotFound, err)
}

func TestPendingStore_Validation(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewPendingStore(client)
	ctx := context.Background()

	require.Error(t, store.Save(ctx, domainauth.PendingSignIn{}, time.Minute))
	require.Error(t, store.Save(ctx, samplePending("x"), 0))

	_, err := store.Take(ctx, "")
	assert.Equal(t, ErrNotFound, err)

	_, err = store.Take(ctx, "never-issued")
	assert.Equal(t, ErrNotFound, err)
}

func TestPendingStore_DuplicateStateRejected(t *testing.T) {
	client, _ := testutil.SetupTestRedis(t)
	store := NewPendingStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, samplePending("dup"), time.Minute))
	require.Error(t, store.Save(ctx, samplePending("dup"), time.Minute))
}

func TestPendingStore_CustomPrefix(t *testing.T) {
	client, mr := testutil.SetupTestRedis(t)
	if mr == nil {
		t.Skip("key inspection needs miniredis")
	}
	store := NewPendingStoreWithPrefix(client, "broker:pending:")
	require.NoError(t, store.Save(context.Background(), samplePending("abc"), time.Minute))
	assert.True(t, mr.Exists("broker:pending:abc"))
}
