package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleleafu/water/internal/calendar"
	"github.com/mapleleafu/water/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Memory, *store.Subscriber) {
	t.Helper()
	m := store.NewMemory()
	m.SetClock(func() time.Time { return testNow })
	alice, err := m.CreateSubscriber(context.Background(), "alice")
	require.NoError(t, err)

	e := NewEngine(m, time.UTC)
	e.SetClock(func() time.Time { return testNow })
	return e, m, alice
}

func TestEngine_GetStatsNotFound(t *testing.T) {
	e, _, _ := newTestEngine(t)
	_, err := e.GetStats(context.Background(), "ghost", 2000)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestEngine_GetStatsInvalidGoal(t *testing.T) {
	e, _, alice := newTestEngine(t)
	_, err := e.GetStats(context.Background(), alice.ID, -1)
	require.ErrorIs(t, err, ErrInvalidGoal)

	snap, err := e.GetStats(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultGoal, snap.Goal)
}

func TestEngine_GetStats(t *testing.T) {
	e, m, alice := newTestEngine(t)
	ctx := context.Background()

	m.InsertDrinkLog(alice.ID, 2500, testNow.Add(-3*24*time.Hour))
	m.InsertDrinkLog(alice.ID, 2100, testNow.Add(-24*time.Hour))
	m.InsertDrinkLog(alice.ID, 1200, testNow.Add(-2*time.Hour))
	m.InsertDrinkLog(alice.ID, 1000, testNow.Add(-time.Hour))
	// Outside the window: counted in totalLogs only.
	m.InsertDrinkLog(alice.ID, 5000, testNow.AddDate(0, 0, -200))

	snap, err := e.GetStats(ctx, alice.ID, 2000)
	require.NoError(t, err)

	assert.Equal(t, 2200, snap.TodayTotal)
	assert.Equal(t, 2, snap.CurrentStreak)
	assert.Equal(t, 2, snap.LongestStreak)
	assert.Equal(t, 5, snap.TotalLogs)
	assert.Equal(t, 3, snap.TotalDaysTracked)
	assert.Equal(t, 2000, snap.Goal)
	require.Len(t, snap.Heatmap, WindowDays)
	assert.Equal(t, calendar.DayKey(testNow, time.UTC), snap.Heatmap[WindowDays-1].Date)
	assert.Equal(t, Preferences{QuietStart: 22, QuietEnd: 8}, snap.Preferences)
}

func TestEngine_WindowStartsAtMidnight89DaysAgo(t *testing.T) {
	e, m, alice := newTestEngine(t)
	oldest := calendar.DaysBefore(testNow, WindowDays-1, time.UTC)
	m.InsertDrinkLog(alice.ID, 700, oldest)
	m.InsertDrinkLog(alice.ID, 900, oldest.Add(-time.Second))

	snap, err := e.GetStats(context.Background(), alice.ID, 2000)
	require.NoError(t, err)
	assert.Equal(t, 700, snap.Heatmap[0].Amount)
	assert.Equal(t, 1, snap.TotalDaysTracked)
	assert.Equal(t, 2, snap.TotalLogs)
}

func TestEngine_PreferencesFromLatestSubscription(t *testing.T) {
	e, m, alice := newTestEngine(t)
	ctx := context.Background()
	_, err := m.UpsertSubscriptionByEndpoint(ctx, store.SubscriptionUpsert{UserID: alice.ID, Endpoint: "e1"})
	require.NoError(t, err)
	start, end := 23, 7
	_, err = m.UpdateSubscriptionsForOwner(ctx, alice.ID, store.SubscriptionUpdate{QuietStart: &start, QuietEnd: &end})
	require.NoError(t, err)

	snap, err := e.GetStats(ctx, alice.ID, 2000)
	require.NoError(t, err)
	assert.Equal(t, Preferences{QuietStart: 23, QuietEnd: 7}, snap.Preferences)
}

func TestEngine_DayDetailRoundTrip(t *testing.T) {
	e, m, alice := newTestEngine(t)
	ctx := context.Background()

	m.SetClock(func() time.Time { return time.Date(2025, time.June, 10, 8, 0, 0, 0, time.UTC) })
	_, err := m.CreateDrinkLog(ctx, alice.ID, 250)
	require.NoError(t, err)
	m.SetClock(func() time.Time { return time.Date(2025, time.June, 10, 15, 0, 0, 0, time.UTC) })
	_, err = m.CreateDrinkLog(ctx, alice.ID, 300)
	require.NoError(t, err)
	m.InsertDrinkLog(alice.ID, 999, time.Date(2025, time.June, 11, 0, 0, 0, 0, time.UTC))

	day, err := calendar.ParseDay("2025-06-10", e.Location())
	require.NoError(t, err)
	entries, err := e.GetDayDetail(ctx, alice.ID, day)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, 250, entries[0].Amount)
	assert.Equal(t, 300, entries[1].Amount)
	assert.True(t, entries[0].Timestamp.Before(entries[1].Timestamp))
}

func TestEngine_DayDetailEmptyAndNotFound(t *testing.T) {
	e, _, alice := newTestEngine(t)
	ctx := context.Background()
	day := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	entries, err := e.GetDayDetail(ctx, alice.ID, day)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)

	_, err = e.GetDayDetail(ctx, "ghost", day)
	require.ErrorIs(t, err, store.ErrNotFound)
}
