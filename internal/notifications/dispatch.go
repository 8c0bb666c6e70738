package notifications

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mapleleafu/water/internal/calendar"
	"github.com/mapleleafu/water/internal/push"
	"github.com/mapleleafu/water/internal/store"
)

// SubscriptionStore is the slice of the store the dispatcher needs.
type SubscriptionStore interface {
	ListSubscriptionsWithOwner(ctx context.Context) ([]store.SubscriptionWithOwner, error)
	DeleteSubscription(ctx context.Context, id string) error
}

// Dispatcher sends hydration reminders.
type Dispatcher struct {
	store   SubscriptionStore
	sender  push.Provider
	logger  *slog.Logger
	workers int
	now     func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWorkers bounds the number of subscriptions evaluated concurrently.
func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// NewDispatcher wires a dispatcher to its store and push provider.
func NewDispatcher(s SubscriptionStore, sender push.Provider, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:   s,
		sender:  sender,
		logger:  logger,
		workers: defaultWorkers,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch evaluates every subscription and returns once all of them are
// resolved. force bypasses quiet hours but never a mute. Per-subscription
// failures are recorded in the outcomes; only a failure to load the
// subscription list is returned as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, force bool) (Result, error) {
	start := time.Now()
	// Callers going away must not abort sends already in flight.
	ctx = context.WithoutCancel(ctx)

	subs, err := d.store.ListSubscriptionsWithOwner(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list subscriptions: %w", err)
	}
	d.logger.Info("Dispatching reminders", "subscriptions", len(subs), "forced", force)

	now := d.now()
	outcomes := make([]Outcome, len(subs))

	var g errgroup.Group
	g.SetLimit(d.workers)
	for i := range subs {
		g.Go(func() error {
			outcomes[i] = d.evaluate(ctx, subs[i], now, force)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{Considered: len(subs), Forced: force, Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Kind == KindSent {
			result.Sent++
		}
	}
	result.Duration = time.Since(start)
	d.logger.Info("Dispatch complete", "summary", result.Summary())
	return result, nil
}

// evaluate runs the one-shot decision for a single subscription.
func (d *Dispatcher) evaluate(ctx context.Context, sub store.SubscriptionWithOwner, now time.Time, force bool) Outcome {
	loc, ok := calendar.ResolveZone(sub.Timezone)
	if !ok {
		d.logger.Warn("Unknown timezone, using UTC",
			"subscription_id", sub.ID, "timezone", sub.Timezone)
	}
	out := Outcome{
		SubscriptionID: sub.ID,
		UserID:         sub.UserID,
		TimeZone:       loc.String(),
		LocalHour:      calendar.LocalHour(now, loc),
	}

	if sub.MutedUntil != nil && sub.MutedUntil.After(now) {
		d.logger.Debug("Skipping muted subscription",
			"subscription_id", sub.ID, "muted_until", sub.MutedUntil)
		out.Kind = KindSkippedMuted
		return out
	}

	if !force && calendar.InQuietHours(out.LocalHour, sub.QuietStart, sub.QuietEnd) {
		d.logger.Debug("Skipping subscription in quiet hours",
			"subscription_id", sub.ID, "local_hour", out.LocalHour, "timezone", out.TimeZone)
		out.Kind = KindSkippedQuiet
		return out
	}

	payload, err := BuildPayload(sub.Owner)
	if err != nil {
		out.Kind = KindErrored
		out.Error = err.Error()
		return out
	}

	res := d.sender.Send(ctx, push.Message{
		Endpoint: sub.Endpoint,
		Keys:     push.Keys{P256dh: sub.Keys.P256dh, Auth: sub.Keys.Auth},
		Payload:  payload,
		Urgency:  push.UrgencyHigh,
		TTL:      reminderTTL,
	})

	switch res.Outcome {
	case push.Delivered:
		d.logger.Info("Reminder sent",
			"subscription_id", sub.ID, "local_hour", out.LocalHour, "timezone", out.TimeZone)
		out.Kind = KindSent
	case push.Gone:
		d.logger.Warn("Subscription gone, deleting",
			"subscription_id", sub.ID, "status", res.StatusCode)
		if err := d.store.DeleteSubscription(ctx, sub.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			d.logger.Error("Failed to delete gone subscription", "subscription_id", sub.ID, "error", err)
			out.Kind = KindErrored
			out.Error = fmt.Sprintf("delete gone subscription: %v", err)
			return out
		}
		out.Kind = KindPruned
	default:
		d.logger.Error("Failed to send reminder", "subscription_id", sub.ID, "error", res.Err())
		out.Kind = KindErrored
		out.Error = res.Err().Error()
	}
	return out
}
