package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLSTATE codes mapped to sentinel errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Postgres implements Store on top of the prepared statements registered by
// the db package.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// CreateSubscriber inserts a subscriber. A taken name returns ErrConflict.
func (p *Postgres) CreateSubscriber(ctx context.Context, name string) (*Subscriber, error) {
	var s Subscriber
	err := p.pool.QueryRow(ctx, "create_user", uuid.NewString(), name).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if isPgCode(err, pgUniqueViolation) {
			return nil, fmt.Errorf("subscriber %q: %w", name, ErrConflict)
		}
		return nil, fmt.Errorf("create subscriber: %w", err)
	}
	return &s, nil
}

// ListSubscribers returns every subscriber, oldest first.
func (p *Postgres) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	rows, err := p.pool.Query(ctx, "list_users")
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	out := []Subscriber{}
	for rows.Next() {
		var s Subscriber
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FindSubscriber returns the subscriber with id or ErrNotFound.
func (p *Postgres) FindSubscriber(ctx context.Context, id string) (*Subscriber, error) {
	var s Subscriber
	err := p.pool.QueryRow(ctx, "find_user", id).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subscriber %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &s, nil
}

// ListSubscriptionsWithOwner returns every subscription joined with its owner.
func (p *Postgres) ListSubscriptionsWithOwner(ctx context.Context) ([]SubscriptionWithOwner, error) {
	rows, err := p.pool.Query(ctx, "list_subscriptions_with_owner")
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	out := []SubscriptionWithOwner{}
	for rows.Next() {
		var so SubscriptionWithOwner
		dest := append(subscriptionDest(&so.Subscription), &so.Owner.ID, &so.Owner.Name, &so.Owner.CreatedAt)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		out = append(out, so)
	}
	return out, rows.Err()
}

// LatestSubscription returns the owner's newest subscription, ties broken by
// id, or ErrNotFound.
func (p *Postgres) LatestSubscription(ctx context.Context, userID string) (*Subscription, error) {
	var s Subscription
	err := p.pool.QueryRow(ctx, "latest_subscription", userID).Scan(subscriptionDest(&s)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("subscription for %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("latest subscription: %w", err)
	}
	return &s, nil
}

// UpsertSubscriptionByEndpoint creates or updates the subscription keyed by endpoint.
func (p *Postgres) UpsertSubscriptionByEndpoint(ctx context.Context, in SubscriptionUpsert) (*Subscription, error) {
	var s Subscription
	err := p.pool.QueryRow(ctx, "upsert_subscription",
		uuid.NewString(), in.UserID, in.Endpoint, in.Keys.P256dh, in.Keys.Auth, in.Timezone,
	).Scan(subscriptionDest(&s)...)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("subscriber %s: %w", in.UserID, ErrNotFound)
		}
		return nil, fmt.Errorf("upsert subscription: %w", err)
	}
	return &s, nil
}

// UpdateSubscriptionsForOwner applies upd to every subscription of the owner
// and returns how many were changed.
func (p *Postgres) UpdateSubscriptionsForOwner(ctx context.Context, userID string, upd SubscriptionUpdate) (int, error) {
	if _, err := p.FindSubscriber(ctx, userID); err != nil {
		return 0, err
	}
	tag, err := p.pool.Exec(ctx, "update_owner_subscriptions",
		userID, upd.QuietStart, upd.QuietEnd, upd.MutedUntil)
	if err != nil {
		return 0, fmt.Errorf("update subscriptions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteSubscription removes one subscription or returns ErrNotFound.
func (p *Postgres) DeleteSubscription(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, "delete_subscription", id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("subscription %s: %w", id, ErrNotFound)
	}
	return nil
}

// ClearExpiredMutes resets mutedUntil values that are not after now.
func (p *Postgres) ClearExpiredMutes(ctx context.Context, now time.Time) (int, error) {
	tag, err := p.pool.Exec(ctx, "clear_expired_mutes", now)
	if err != nil {
		return 0, fmt.Errorf("clear expired mutes: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// CreateDrinkLog records amount for the owner at the current time.
func (p *Postgres) CreateDrinkLog(ctx context.Context, userID string, amount int) (*DrinkLog, error) {
	var l DrinkLog
	err := p.pool.QueryRow(ctx, "create_drink_log", uuid.NewString(), userID, amount).
		Scan(&l.ID, &l.UserID, &l.Amount, &l.Timestamp)
	if err != nil {
		if isPgCode(err, pgForeignKeyViolation) {
			return nil, fmt.Errorf("subscriber %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("create drink log: %w", err)
	}
	return &l, nil
}

// FindDrinkLogs returns the owner's logs at or after since, oldest first.
func (p *Postgres) FindDrinkLogs(ctx context.Context, userID string, since time.Time) ([]DrinkLog, error) {
	return p.queryLogs(ctx, "drink_logs_since", userID, since)
}

// FindDrinkLogsBetween returns the owner's logs in [from, to), oldest first.
func (p *Postgres) FindDrinkLogsBetween(ctx context.Context, userID string, from, to time.Time) ([]DrinkLog, error) {
	return p.queryLogs(ctx, "drink_logs_between", userID, from, to)
}

// CountDrinkLogs returns the owner's lifetime number of logs.
func (p *Postgres) CountDrinkLogs(ctx context.Context, userID string) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, "count_drink_logs", userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count drink logs: %w", err)
	}
	return n, nil
}

func (p *Postgres) queryLogs(ctx context.Context, stmt string, args ...any) ([]DrinkLog, error) {
	rows, err := p.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query drink logs: %w", err)
	}
	defer rows.Close()

	out := []DrinkLog{}
	for rows.Next() {
		var l DrinkLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Amount, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan drink log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func subscriptionDest(s *Subscription) []any {
	return []any{
		&s.ID, &s.UserID, &s.Endpoint, &s.Keys.P256dh, &s.Keys.Auth, &s.Timezone,
		&s.QuietStart, &s.QuietEnd, &s.MutedUntil, &s.CreatedAt, &s.UpdatedAt,
	}
}

func isPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
