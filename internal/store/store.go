// Package store defines the persisted entities (subscribers, push
// subscriptions, drink logs) and the repository the reminder dispatcher and
// statistics engine consume. Postgres backs production; Memory backs tests
// and local runs.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a referenced subscriber or subscription
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key (subscriber name) is taken.
	ErrConflict = errors.New("conflict")
)

// Default quiet window applied to new subscriptions and to subscribers that
// have no subscription at all.
const (
	DefaultQuietStart = 22
	DefaultQuietEnd   = 8
)

// Subscriber is an account that owns devices and drink logs.
type Subscriber struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Keys is the opaque key material the push provider needs to encrypt a
// payload for one endpoint.
type Keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// Subscription is one device's push registration.
type Subscription struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	Endpoint   string     `json:"endpoint"`
	Keys       Keys       `json:"keys"`
	Timezone   string     `json:"timezone"`
	QuietStart int        `json:"quietStart"`
	QuietEnd   int        `json:"quietEnd"`
	MutedUntil *time.Time `json:"mutedUntil"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// SubscriptionWithOwner pairs a subscription with its subscriber.
type SubscriptionWithOwner struct {
	Subscription
	Owner Subscriber
}

// DrinkLog is an immutable record of water consumed.
type DrinkLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// SubscriptionUpsert carries the fields written by a subscribe call. The
// endpoint is the natural key.
type SubscriptionUpsert struct {
	UserID   string
	Endpoint string
	Keys     Keys
	Timezone string
}

// SubscriptionUpdate holds the fields applied to every subscription of an
// owner. Nil fields are left unchanged.
type SubscriptionUpdate struct {
	QuietStart *int
	QuietEnd   *int
	MutedUntil *time.Time
}

// Store is the full repository contract. Consumers depend on the narrower
// interfaces declared in their own packages.
type Store interface {
	CreateSubscriber(ctx context.Context, name string) (*Subscriber, error)
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	FindSubscriber(ctx context.Context, id string) (*Subscriber, error)

	ListSubscriptionsWithOwner(ctx context.Context) ([]SubscriptionWithOwner, error)
	LatestSubscription(ctx context.Context, userID string) (*Subscription, error)
	UpsertSubscriptionByEndpoint(ctx context.Context, in SubscriptionUpsert) (*Subscription, error)
	UpdateSubscriptionsForOwner(ctx context.Context, userID string, upd SubscriptionUpdate) (int, error)
	DeleteSubscription(ctx context.Context, id string) error
	ClearExpiredMutes(ctx context.Context, now time.Time) (int, error)

	CreateDrinkLog(ctx context.Context, userID string, amount int) (*DrinkLog, error)
	FindDrinkLogs(ctx context.Context, userID string, since time.Time) ([]DrinkLog, error)
	FindDrinkLogsBetween(ctx context.Context, userID string, from, to time.Time) ([]DrinkLog, error)
	CountDrinkLogs(ctx context.Context, userID string) (int, error)
}
