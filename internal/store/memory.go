package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	now           func() time.Time
	subscribers   map[string]Subscriber
	subscriptions map[string]Subscription
	logs          []DrinkLog
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store using the wall clock.
func NewMemory() *Memory {
	return &Memory{
		now:           time.Now,
		subscribers:   make(map[string]Subscriber),
		subscriptions: make(map[string]Subscription),
	}
}

// SetClock overrides the clock used to stamp new records.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// InsertDrinkLog appends a log with an explicit timestamp. Used to seed
// history.
func (m *Memory) InsertDrinkLog(userID string, amount int, at time.Time) DrinkLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := DrinkLog{ID: uuid.NewString(), UserID: userID, Amount: amount, Timestamp: at.UTC()}
	m.logs = append(m.logs, l)
	return l
}

// SubscriptionCount returns the number of stored subscriptions.
func (m *Memory) SubscriptionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// CreateSubscriber inserts a subscriber. A taken name returns ErrConflict.
func (m *Memory) CreateSubscriber(_ context.Context, name string) (*Subscriber, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subscribers {
		if s.Name == name {
			return nil, fmt.Errorf("subscriber %q: %w", name, ErrConflict)
		}
	}
	s := Subscriber{ID: uuid.NewString(), Name: name, CreatedAt: m.now().UTC()}
	m.subscribers[s.ID] = s
	return &s, nil
}

// ListSubscribers returns every subscriber, oldest first.
func (m *Memory) ListSubscribers(_ context.Context) ([]Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Subscriber, 0, len(m.subscribers))
	for _, s := range m.subscribers {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// FindSubscriber returns the subscriber with id or ErrNotFound.
func (m *Memory) FindSubscriber(_ context.Context, id string) (*Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.subscribers[id]
	if !ok {
		return nil, fmt.Errorf("subscriber %s: %w", id, ErrNotFound)
	}
	return &s, nil
}

// ListSubscriptionsWithOwner returns every subscription joined with its owner.
func (m *Memory) ListSubscriptionsWithOwner(_ context.Context) ([]SubscriptionWithOwner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SubscriptionWithOwner, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		owner, ok := m.subscribers[sub.UserID]
		if !ok {
			continue
		}
		out = append(out, SubscriptionWithOwner{Subscription: sub, Owner: owner})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// LatestSubscription returns the owner's newest subscription, ties broken by
// id, or ErrNotFound.
func (m *Memory) LatestSubscription(_ context.Context, userID string) (*Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *Subscription
	for _, sub := range m.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if latest == nil || newerSubscription(sub, *latest) {
			s := sub
			latest = &s
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("subscription for %s: %w", userID, ErrNotFound)
	}
	return latest, nil
}

// newerSubscription orders by creation time, then id, matching the
// latest_subscription statement.
func newerSubscription(a, b Subscription) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// UpsertSubscriptionByEndpoint creates or updates the subscription keyed by endpoint.
func (m *Memory) UpsertSubscriptionByEndpoint(_ context.Context, in SubscriptionUpsert) (*Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[in.UserID]; !ok {
		return nil, fmt.Errorf("subscriber %s: %w", in.UserID, ErrNotFound)
	}
	now := m.now().UTC()
	for id, sub := range m.subscriptions {
		if sub.Endpoint != in.Endpoint {
			continue
		}
		sub.Keys = in.Keys
		sub.Timezone = in.Timezone
		sub.UserID = in.UserID
		sub.UpdatedAt = now
		m.subscriptions[id] = sub
		return &sub, nil
	}
	sub := Subscription{
		ID:         uuid.NewString(),
		UserID:     in.UserID,
		Endpoint:   in.Endpoint,
		Keys:       in.Keys,
		Timezone:   in.Timezone,
		QuietStart: DefaultQuietStart,
		QuietEnd:   DefaultQuietEnd,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.subscriptions[sub.ID] = sub
	return &sub, nil
}

// UpdateSubscriptionsForOwner applies upd to every subscription of the owner
// and returns how many were changed.
func (m *Memory) UpdateSubscriptionsForOwner(_ context.Context, userID string, upd SubscriptionUpdate) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[userID]; !ok {
		return 0, fmt.Errorf("subscriber %s: %w", userID, ErrNotFound)
	}
	n := 0
	for id, sub := range m.subscriptions {
		if sub.UserID != userID {
			continue
		}
		if upd.QuietStart != nil {
			sub.QuietStart = *upd.QuietStart
		}
		if upd.QuietEnd != nil {
			sub.QuietEnd = *upd.QuietEnd
		}
		if upd.MutedUntil != nil {
			t := upd.MutedUntil.UTC()
			sub.MutedUntil = &t
		}
		sub.UpdatedAt = m.now().UTC()
		m.subscriptions[id] = sub
		n++
	}
	return n, nil
}

// DeleteSubscription removes one subscription or returns ErrNotFound.
func (m *Memory) DeleteSubscription(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[id]; !ok {
		return fmt.Errorf("subscription %s: %w", id, ErrNotFound)
	}
	delete(m.subscriptions, id)
	return nil
}

// ClearExpiredMutes resets mutedUntil values that are not after now.
func (m *Memory) ClearExpiredMutes(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, sub := range m.subscriptions {
		if sub.MutedUntil != nil && !sub.MutedUntil.After(now) {
			sub.MutedUntil = nil
			m.subscriptions[id] = sub
			n++
		}
	}
	return n, nil
}

// CreateDrinkLog records amount for the owner at the current time.
func (m *Memory) CreateDrinkLog(_ context.Context, userID string, amount int) (*DrinkLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[userID]; !ok {
		return nil, fmt.Errorf("subscriber %s: %w", userID, ErrNotFound)
	}
	l := DrinkLog{ID: uuid.NewString(), UserID: userID, Amount: amount, Timestamp: m.now().UTC()}
	m.logs = append(m.logs, l)
	return &l, nil
}

// FindDrinkLogs returns the owner's logs at or after since, oldest first.
func (m *Memory) FindDrinkLogs(ctx context.Context, userID string, since time.Time) ([]DrinkLog, error) {
	return m.filterLogs(userID, func(ts time.Time) bool { return !ts.Before(since) }), nil
}

// FindDrinkLogsBetween returns the owner's logs in [from, to), oldest first.
func (m *Memory) FindDrinkLogsBetween(_ context.Context, userID string, from, to time.Time) ([]DrinkLog, error) {
	return m.filterLogs(userID, func(ts time.Time) bool { return !ts.Before(from) && ts.Before(to) }), nil
}

// CountDrinkLogs returns the owner's lifetime number of logs.
func (m *Memory) CountDrinkLogs(_ context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, l := range m.logs {
		if l.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *Memory) filterLogs(userID string, keep func(time.Time) bool) []DrinkLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []DrinkLog{}
	for _, l := range m.logs {
		if l.UserID == userID && keep(l.Timestamp) {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}
