package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleafu/water/internal/config"
	"github.com/mapleleafu/water/internal/db"
	"github.com/mapleleafu/water/internal/store"
)

// openTestStore connects to TEST_DATABASE_URL, applies the schema and
// truncates all tables. Skips when the variable is unset.
func openTestStore(t *testing.T) *store.Postgres {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, url))

	pool, err := db.New(ctx, &config.Config{
		DatabaseURL:    url,
		DBPoolMinConns: 1,
		DBPoolMaxConns: 4,
		DBPoolMaxLife:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "TRUNCATE drink_logs, subscriptions, users")
	require.NoError(t, err)
	return store.NewPostgres(pool.Pool)
}

func TestPostgres_SubscriberLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	none, err := s.ListSubscribers(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	alice, err := s.CreateSubscriber(ctx, "alice")
	require.NoError(t, err)

	_, err = s.CreateSubscriber(ctx, "alice")
	require.ErrorIs(t, err, store.ErrConflict)

	got, err := s.FindSubscriber(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	_, err = s.FindSubscriber(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgres_UpsertAndDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	alice, err := s.CreateSubscriber(ctx, "alice")
	require.NoError(t, err)

	in := store.SubscriptionUpsert{UserID: alice.ID, Endpoint: "https://push.example/1", Keys: store.Keys{P256dh: "p", Auth: "a"}, Timezone: "UTC"}
	first, err := s.UpsertSubscriptionByEndpoint(ctx, in)
	require.NoError(t, err)

	in.Keys = store.Keys{P256dh: "p2", Auth: "a2"}
	second, err := s.UpsertSubscriptionByEndpoint(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "p2", second.Keys.P256dh)

	subs, err := s.ListSubscriptionsWithOwner(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "alice", subs[0].Owner.Name)

	_, err = s.UpsertSubscriptionByEndpoint(ctx, store.SubscriptionUpsert{UserID: "ghost", Endpoint: "x", Timezone: "UTC"})
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteSubscription(ctx, first.ID))
	require.ErrorIs(t, s.DeleteSubscription(ctx, first.ID), store.ErrNotFound)
}

func TestPostgres_DrinkLogs(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	alice, err := s.CreateSubscriber(ctx, "alice")
	require.NoError(t, err)

	for _, amt := range []int{250, 300} {
		_, err := s.CreateDrinkLog(ctx, alice.ID, amt)
		require.NoError(t, err)
	}

	logs, err := s.FindDrinkLogs(ctx, alice.ID, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, 250, logs[0].Amount)
	assert.Equal(t, 300, logs[1].Amount)

	n, err := s.CountDrinkLogs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	empty, err := s.FindDrinkLogsBetween(ctx, alice.ID, time.Unix(0, 0), time.Unix(86400, 0))
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
